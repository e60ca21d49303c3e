package model

import "github.com/google/uuid"

type StockRefType string

const (
	StockRefSale          StockRefType = "sale"
	StockRefPurchaseOrder StockRefType = "purchase_order"
	StockRefAdjustment    StockRefType = "adjustment"
)

// StockLog records every stock mutation together with the before/after
// snapshot and the row that caused it.
type StockLog struct {
	BaseModel
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product     `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Change      int          `gorm:"not null" json:"change"` // positif = masuk, negatif = keluar
	StockBefore int          `gorm:"not null" json:"stock_before"`
	StockAfter  int          `gorm:"not null" json:"stock_after"`
	RefType     StockRefType `gorm:"type:varchar(20);not null;index" json:"ref_type"`
	RefID       *uuid.UUID   `gorm:"type:uuid" json:"ref_id,omitempty"`
	Note        string       `gorm:"type:text" json:"note,omitempty"`
}
