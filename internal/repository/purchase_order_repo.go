package repository

import (
	"go-apotek-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	FindAll() ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	FindByStatus(status model.PurchaseOrderStatus) ([]model.PurchaseOrder, error)
}

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

func (r *purchaseOrderRepo) FindAll() ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items.Product").Preload("CreatedByUser").
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *purchaseOrderRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items.Product").Preload("CreatedByUser").
		First(&order, "id = ?", id).Error
	return &order, err
}

func (r *purchaseOrderRepo) FindByStatus(status model.PurchaseOrderStatus) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items.Product").
		Where("status = ?", status).Order("created_at DESC").Find(&orders).Error
	return orders, err
}
