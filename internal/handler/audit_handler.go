package handler

import (
	"go-apotek-pos/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	auditRepo repository.AuditRepository
}

func NewAuditHandler(auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// GetAuditLogs returns the most recent audit entries
// GET /api/v1/audit-logs?limit=100
func (h *AuditHandler) GetAuditLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	logs, err := h.auditRepo.FindAuditLogs(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch audit logs"})
	}
	return c.JSON(logs)
}

// GetStockLogs returns the most recent stock mutations, optionally for
// one product
// GET /api/v1/stock-logs?limit=100&product_id=<uuid>
func (h *AuditHandler) GetStockLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	if productParam := c.Query("product_id"); productParam != "" {
		productID, err := parseUUID(productParam)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		logs, err := h.auditRepo.FindStockLogsByProduct(productID, limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock logs"})
		}
		return c.JSON(logs)
	}

	logs, err := h.auditRepo.FindStockLogs(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock logs"})
	}
	return c.JSON(logs)
}
