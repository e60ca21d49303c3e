package service

import (
	"errors"
	"fmt"

	"go-apotek-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated identity, resolved once by the auth
// middleware and passed explicitly into every mutating service call.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// writeAuditLog records a mutation inside the caller's transaction so the
// log row commits or rolls back together with the change itself.
func writeAuditLog(tx *gorm.DB, actor Actor, action, entity, entityID, detail string) error {
	entry := &model.AuditLog{
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		Detail:     detail,
	}
	entry.CreatedBy = actor.ID
	entry.UpdatedBy = actor.ID
	return tx.Create(entry).Error
}

// applyStockChange mutates a product's stock inside the caller's
// transaction and writes the matching StockLog. The stock invariant
// (never below zero) is enforced here for every caller.
func applyStockChange(tx *gorm.DB, productID uuid.UUID, change int, refType model.StockRefType, refID *uuid.UUID, note string, actor Actor) (*model.Product, error) {
	var product model.Product
	if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", productID).Error; err != nil {
		return nil, errors.New("product not found")
	}

	newStock := product.Stock + change
	if newStock < 0 {
		return nil, fmt.Errorf("insufficient stock for %s: have %d, need %d", product.Name, product.Stock, -change)
	}

	if err := tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": actor.ID,
		}).Error; err != nil {
		return nil, err
	}

	stockLog := &model.StockLog{
		ProductID:   product.ID,
		Change:      change,
		StockBefore: product.Stock,
		StockAfter:  newStock,
		RefType:     refType,
		RefID:       refID,
		Note:        note,
	}
	stockLog.CreatedBy = actor.ID
	stockLog.UpdatedBy = actor.ID
	if err := tx.Create(stockLog).Error; err != nil {
		return nil, err
	}

	product.Stock = newStock
	return &product, nil
}
