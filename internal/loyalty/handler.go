package loyalty

import (
	"github.com/gofiber/fiber/v2"
	"github.com/saraswati-stationery/stationery-backend/internal/user"
)

// UserLookup resolves a username to its user ID; wired to the user service
// in main so this package has no dependency on its internals.
type UserLookup func(username string) (int, error)

type Handler struct {
	service *Service
	lookup  UserLookup
}

func NewHandler(service *Service, lookup UserLookup) *Handler {
	return &Handler{service: service, lookup: lookup}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/loyalty", h.getCard)
	app.Get("/api/v1/loyalty/transactions", h.getTransactions)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Post("/api/v1/admin/sales", h.recordSale)
	app.Get("/api/v1/admin/sales", h.listSales)
}

func (h *Handler) getCard(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	card, err := h.service.Card(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(card)
}

func (h *Handler) getTransactions(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	txns, err := h.service.History(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(txns)
}

type recordSaleRequest struct {
	Username string  `json:"username"`
	Amount   float64 `json:"amount"`
	Items    string  `json:"items"`
}

func (h *Handler) recordSale(c *fiber.Ctx) error {
	if !user.RoleFromCtx(c).IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	payload := new(recordSaleRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := h.lookup(payload.Username)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}

	sale, card, err := h.service.RecordManualSale(userID, payload.Amount, payload.Items)
	if err != nil {
		if err == ErrBadAmount {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "amount must be positive"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"sale": sale, "card": card})
}

func (h *Handler) listSales(c *fiber.Ctx) error {
	if !user.RoleFromCtx(c).IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	sales, err := h.service.Sales()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(sales)
}
