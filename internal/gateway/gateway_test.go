package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitiate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/epayment/initiate/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Key test-secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req InitiateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Amount != 19000 || req.PurchaseOrderID != "ref-1" {
			t.Errorf("unexpected payload %+v", req)
		}
		json.NewEncoder(w).Encode(InitiateResponse{
			Pidx:       "px-abc",
			PaymentURL: "https://pay.test/px-abc",
			ExpiresAt:  "2026-01-01T00:00:00Z",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-secret", srv.Client())
	resp, err := client.Initiate(context.Background(), InitiateRequest{
		ReturnURL:       "http://shop.test/return",
		WebsiteURL:      "http://shop.test",
		Amount:          19000,
		PurchaseOrderID: "ref-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pidx != "px-abc" || resp.PaymentURL != "https://pay.test/px-abc" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestInitiate_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Amount should be greater than Rs. 10"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-secret", srv.Client())
	_, err := client.Initiate(context.Background(), InitiateRequest{Amount: 100})
	if !errors.Is(err, ErrInitiationFailed) {
		t.Fatalf("expected ErrInitiationFailed, got %v", err)
	}
}

func TestInitiate_MissingPaymentURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(InitiateResponse{Pidx: "px-abc"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-secret", srv.Client())
	_, err := client.Initiate(context.Background(), InitiateRequest{Amount: 19000})
	if !errors.Is(err, ErrInitiationFailed) {
		t.Fatalf("expected ErrInitiationFailed, got %v", err)
	}
}

func TestInitiate_ServerUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-secret", nil)
	_, err := client.Initiate(context.Background(), InitiateRequest{Amount: 19000})
	if !errors.Is(err, ErrInitiationFailed) {
		t.Fatalf("expected ErrInitiationFailed, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/epayment/lookup/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Pidx string `json:"pidx"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(LookupResponse{
			Pidx:          req.Pidx,
			TotalAmount:   19000,
			Status:        StatusCompleted,
			TransactionID: "txn-9",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-secret", srv.Client())
	resp, err := client.Lookup(context.Background(), "px-abc")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pidx != "px-abc" || resp.Status != StatusCompleted || resp.TotalAmount != 19000 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLookup_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-secret", srv.Client())
	if _, err := client.Lookup(context.Background(), "px-missing"); err == nil {
		t.Fatal("expected an error for a 404 lookup")
	}
}
