package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/saraswati-stationery/stationery-backend/internal/gateway"
	"github.com/saraswati-stationery/stationery-backend/internal/loyalty"
	"github.com/saraswati-stationery/stationery-backend/internal/user"
)

// CustomerLookup resolves a user ID to the contact fields the gateway wants;
// wired to the user service in main.
type CustomerLookup func(userID int) (gateway.CustomerInfo, error)

type Handler struct {
	service  *Service
	customer CustomerLookup
}

func NewHandler(service *Service, customer CustomerLookup) *Handler {
	return &Handler{service: service, customer: customer}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout/assemble", h.assemble)
	app.Post("/api/v1/checkout/cod", h.confirmCOD)
	app.Post("/api/v1/checkout/gateway", h.initiateGateway)
	app.Get("/api/v1/checkout/gateway/return", h.completeGateway)
}

type checkoutRequest struct {
	Shipping       ShippingInfo `json:"shipping"`
	DeliveryOption string       `json:"deliveryOption"`
}

func (h *Handler) assemble(c *fiber.Ctx) error {
	_, draft, err := h.assembleFromRequest(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(draft)
}

func (h *Handler) confirmCOD(c *fiber.Ctx) error {
	_, draft, err := h.assembleFromRequest(c)
	if err != nil {
		return h.fail(c, err)
	}

	ord, err := h.service.ConfirmCOD(draft)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ord)
}

func (h *Handler) initiateGateway(c *fiber.Ctx) error {
	userID, draft, err := h.assembleFromRequest(c)
	if err != nil {
		return h.fail(c, err)
	}

	customer, err := h.customer(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	paymentURL, err := h.service.InitiateGatewayPayment(c.Context(), draft, customer)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"paymentUrl": paymentURL})
}

func (h *Handler) completeGateway(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	pidx := c.Query("pidx")
	ord, err := h.service.CompleteGatewayPayment(c.Context(), userID, pidx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ord)
}

func (h *Handler) assembleFromRequest(c *fiber.Ctx) (int, Draft, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return 0, Draft{}, fiber.ErrUnauthorized
	}

	payload := new(checkoutRequest)
	if err := c.BodyParser(payload); err != nil {
		return 0, Draft{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	draft, err := h.service.Assemble(userID, payload.Shipping, payload.DeliveryOption)
	if err != nil {
		return 0, Draft{}, err
	}
	return userID, draft, nil
}

// fail maps the checkout taxonomy to HTTP. Every message is phrased so the
// customer can retry; nothing here is fatal to the process.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	var oos *OutOfStockError
	var gone *ProductGoneError
	var placement *PlacementError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "your cart is empty"})
	case errors.Is(err, ErrInvalidDeliveryOption):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "choose standard, express or pickup delivery"})
	case errors.As(err, &oos):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error() + "; adjust the quantity and try again"})
	case errors.As(err, &gone):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error() + "; remove it from the cart and try again"})
	case errors.Is(err, ErrNoPendingCheckout):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no pending checkout to complete"})
	case errors.Is(err, ErrPaymentNotCompleted):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"message": "payment has not completed; you can retry the payment"})
	case errors.Is(err, gateway.ErrInitiationFailed):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "could not reach the payment gateway; try again shortly"})
	case errors.Is(err, loyalty.ErrInsufficientPoints):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "loyalty balance changed; try again"})
	case errors.As(err, &placement):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "order could not be placed; nothing was charged, try again"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
}
