package handler

import (
	"go-apotek-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CashierHandler struct {
	service service.CashierService
}

func NewCashierHandler(s service.CashierService) *CashierHandler {
	return &CashierHandler{service: s}
}

// PreviewCheckout is the confirmation step: aggregated lines and the
// recomputed total, nothing persisted
// POST /api/v1/transactions/preview
func (h *CashierHandler) PreviewCheckout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	preview, err := h.service.Preview(&req)
	if err != nil {
		return c.Status(errStatus(err, 400)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(preview)
}

// CommitCheckout persists the sale as completed and decrements stock
// POST /api/v1/transactions
func (h *CashierHandler) CommitCheckout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.service.Commit(&req, actorFromCtx(c))
	if err != nil {
		return c.Status(errStatus(err, 400)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction completed", "data": sale})
}

// GetTransactions returns all sales, newest first
// GET /api/v1/transactions
func (h *CashierHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

// GetTransaction returns a single sale
// GET /api/v1/transactions/:id
func (h *CashierHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	sale, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(sale)
}
