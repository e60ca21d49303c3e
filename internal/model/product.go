package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	Code      string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category  string `gorm:"type:varchar(100)" json:"category"`
	Unit      string `gorm:"type:varchar(20)" json:"unit"`
	BuyPrice  int64  `gorm:"default:0" json:"buy_price" validate:"gte=0"`
	SellPrice int64  `gorm:"default:0" json:"sell_price" validate:"gte=0"`
	Stock     int    `gorm:"default:0" json:"stock" validate:"gte=0"`

	// Relasi supplier
	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}
