package repository

import (
	"go-apotek-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditRepository interface {
	FindAuditLogs(limit int) ([]model.AuditLog, error)
	FindStockLogs(limit int) ([]model.StockLog, error)
	FindStockLogsByProduct(productID uuid.UUID, limit int) ([]model.StockLog, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) FindAuditLogs(limit int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *auditRepo) FindStockLogs(limit int) ([]model.StockLog, error) {
	var logs []model.StockLog
	err := r.db.Preload("Product").Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *auditRepo) FindStockLogsByProduct(productID uuid.UUID, limit int) ([]model.StockLog, error) {
	var logs []model.StockLog
	err := r.db.Preload("Product").Where("product_id = ?", productID).
		Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
