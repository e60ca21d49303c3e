package handler

import (
	"errors"

	"go-apotek-pos/internal/model"
	"go-apotek-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PurchaseOrderHandler struct {
	service service.PurchaseOrderService
}

func NewPurchaseOrderHandler(s service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: s}
}

// CreatePurchaseOrder handles PO creation, optionally directly received
// POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var req service.CreatePurchaseOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.Create(&req, actorFromCtx(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Purchase order created", "data": order})
}

// GetPurchaseOrders returns all purchase orders, newest first
// GET /api/v1/purchase-orders
func (h *PurchaseOrderHandler) GetPurchaseOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

// GetPurchaseOrder returns a single purchase order
// GET /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	order, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Purchase order not found"})
	}
	return c.JSON(order)
}

// ApprovePurchaseOrder transitions pending -> approved
// POST /api/v1/purchase-orders/:id/approve
func (h *PurchaseOrderHandler) ApprovePurchaseOrder(c *fiber.Ctx) error {
	return h.doTransition(c, h.service.Approve, "Purchase order approved")
}

// ReceivePurchaseOrder transitions pending/approved -> received (stock up)
// POST /api/v1/purchase-orders/:id/receive
func (h *PurchaseOrderHandler) ReceivePurchaseOrder(c *fiber.Ctx) error {
	return h.doTransition(c, h.service.Receive, "Purchase order received")
}

// CancelPurchaseOrder transitions pending/approved -> cancelled
// POST /api/v1/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) CancelPurchaseOrder(c *fiber.Ctx) error {
	return h.doTransition(c, h.service.Cancel, "Purchase order cancelled")
}

func (h *PurchaseOrderHandler) doTransition(c *fiber.Ctx, op func(id uuid.UUID, actor service.Actor) (*model.PurchaseOrder, error), message string) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	order, err := op(id, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrPurchaseOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(errStatus(err, 400)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": message, "data": order})
}

// DeletePurchaseOrder deletes items then the order; received orders are immutable
// DELETE /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) DeletePurchaseOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	if err := h.service.Delete(id, actorFromCtx(c)); err != nil {
		if errors.Is(err, service.ErrPurchaseOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(errStatus(err, 400)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Purchase order deleted"})
}
