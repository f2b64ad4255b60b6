// Package gateway is the HTTP client for the Khalti e-payment API. The shop
// integrates with exactly this one gateway contract: initiate returns a
// hosted payment page, lookup is the authoritative word on whether the
// customer actually paid.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrInitiationFailed = errors.New("payment initiation failed")

// StatusCompleted is the only lookup status that allows an order to be
// committed. Everything else (Pending, Expired, Refunded, User canceled)
// means the money is not ours.
const StatusCompleted = "Completed"

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type InitiateRequest struct {
	ReturnURL         string       `json:"return_url"`
	WebsiteURL        string       `json:"website_url"`
	Amount            int64        `json:"amount"` // paisa, i.e. total * 100
	PurchaseOrderID   string       `json:"purchase_order_id"`
	PurchaseOrderName string       `json:"purchase_order_name"`
	CustomerInfo      CustomerInfo `json:"customer_info"`
}

type InitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

type lookupRequest struct {
	Pidx string `json:"pidx"`
}

type LookupResponse struct {
	Pidx          string `json:"pidx"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Fee           int64  `json:"fee"`
	Refunded      bool   `json:"refunded"`
}

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient builds a gateway client. httpClient may be nil, in which case a
// default with a 15 second timeout is used.
func NewClient(baseURL, secretKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, secretKey: secretKey, http: httpClient}
}

// Initiate asks the gateway for a hosted payment page. Anything other than a
// 200 with a payment URL is an initiation failure.
func (c *Client) Initiate(ctx context.Context, req InitiateRequest) (InitiateResponse, error) {
	var resp InitiateResponse
	status, body, err := c.post(ctx, "/epayment/initiate/", req)
	if err != nil {
		return InitiateResponse{}, fmt.Errorf("%w: %v", ErrInitiationFailed, err)
	}
	if status != http.StatusOK {
		return InitiateResponse{}, fmt.Errorf("%w: gateway returned %d: %s", ErrInitiationFailed, status, body)
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return InitiateResponse{}, fmt.Errorf("%w: bad response: %v", ErrInitiationFailed, err)
	}
	if resp.PaymentURL == "" {
		return InitiateResponse{}, fmt.Errorf("%w: gateway returned no payment URL", ErrInitiationFailed)
	}
	return resp, nil
}

// Lookup fetches the authoritative payment state for a pidx. Callers must
// treat only StatusCompleted as paid.
func (c *Client) Lookup(ctx context.Context, pidx string) (LookupResponse, error) {
	var resp LookupResponse
	status, body, err := c.post(ctx, "/epayment/lookup/", lookupRequest{Pidx: pidx})
	if err != nil {
		return LookupResponse{}, err
	}
	if status != http.StatusOK {
		return LookupResponse{}, fmt.Errorf("gateway lookup returned %d: %s", status, body)
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return LookupResponse{}, fmt.Errorf("gateway lookup: bad response: %v", err)
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
