package checkout

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/saraswati-stationery/stationery-backend/internal/cart"
	"github.com/saraswati-stationery/stationery-backend/internal/gateway"
	"github.com/saraswati-stationery/stationery-backend/internal/loyalty"
	"github.com/saraswati-stationery/stationery-backend/internal/product"
)

func newTestApp(store *memStore, gw *fakeGateway, authed bool) *fiber.App {
	app := fiber.New()
	if authed {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"user_id": float64(1),
				"role":    "customer",
			}))
			return c.Next()
		})
	}

	svc := NewService(store, gw, "http://shop.test/return", "http://shop.test")
	handler := NewHandler(svc, func(userID int) (gateway.CustomerInfo, error) {
		return gateway.CustomerInfo{Name: "sita", Email: "sita@example.com"}, nil
	})
	handler.RegisterProtectedRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestAssembleRoute_Unauthorized(t *testing.T) {
	app := newTestApp(newMemStore(), &fakeGateway{}, false)

	resp := postJSON(t, app, "/api/v1/checkout/assemble", checkoutRequest{DeliveryOption: DeliveryStandard})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAssembleRoute(t *testing.T) {
	store := newMemStore()
	store.products[1] = product.Product{ID: 1, Name: "Ball Pen", Price: 25, Stock: 100}
	store.carts[1] = []cart.Line{{ProductID: 1, Quantity: 4, UnitPrice: 25}}
	app := newTestApp(store, &fakeGateway{}, true)

	resp := postJSON(t, app, "/api/v1/checkout/assemble", checkoutRequest{
		Shipping:       shipping(),
		DeliveryOption: DeliveryExpress,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var draft Draft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		t.Fatal(err)
	}
	if draft.Subtotal != 100 || draft.DeliveryCharge != 150 || draft.Total != 250 {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if len(store.orders) != 0 {
		t.Error("assemble must not create an order")
	}
}

func TestAssembleRoute_EmptyCart(t *testing.T) {
	app := newTestApp(newMemStore(), &fakeGateway{}, true)

	resp := postJSON(t, app, "/api/v1/checkout/assemble", checkoutRequest{DeliveryOption: DeliveryStandard})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCODRoute(t *testing.T) {
	store := newMemStore()
	store.products[1] = product.Product{ID: 1, Name: "Ball Pen", Price: 25, Stock: 100}
	store.carts[1] = []cart.Line{{ProductID: 1, Quantity: 2, UnitPrice: 25}}
	store.cards[1] = loyalty.Card{UserID: 1, Points: 0, Tier: loyalty.TierSilver}
	app := newTestApp(store, &fakeGateway{}, true)

	resp := postJSON(t, app, "/api/v1/checkout/cod", checkoutRequest{
		Shipping:       shipping(),
		DeliveryOption: DeliveryStandard,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if len(store.orders) != 1 {
		t.Fatalf("expected one order, got %d", len(store.orders))
	}
}

func TestGatewayReturnRoute_PaymentPending(t *testing.T) {
	store := newMemStore()
	store.pending[1] = PendingCheckout{Pidx: "px-1", Draft: Draft{UserID: 1}}
	gw := &fakeGateway{lookupResp: gateway.LookupResponse{Pidx: "px-1", Status: "Pending"}}
	app := newTestApp(store, gw, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/gateway/return?pidx=px-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.StatusCode)
	}
}

func TestGatewayReturnRoute_NoPending(t *testing.T) {
	app := newTestApp(newMemStore(), &fakeGateway{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/gateway/return?pidx=px-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
