package model

import "github.com/google/uuid"

type PurchaseOrderStatus string

const (
	POStatusPending   PurchaseOrderStatus = "pending"
	POStatusApproved  PurchaseOrderStatus = "approved"
	POStatusReceived  PurchaseOrderStatus = "received"
	POStatusCancelled PurchaseOrderStatus = "cancelled"
)

// NormalizePurchaseOrderStatus maps legacy spellings onto the canonical
// vocabulary: "canceled" -> cancelled, "completed" -> received.
func NormalizePurchaseOrderStatus(raw string) (PurchaseOrderStatus, bool) {
	switch raw {
	case "pending":
		return POStatusPending, true
	case "approved":
		return POStatusApproved, true
	case "received", "completed":
		return POStatusReceived, true
	case "cancelled", "canceled":
		return POStatusCancelled, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is allowed.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == POStatusReceived || s == POStatusCancelled
}

type PurchaseOrder struct {
	BaseModel
	SupplierID uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier   *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Status     PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// Total dikunci saat create, tidak dihitung ulang setelah transisi status
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items,omitempty"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

type PurchaseOrderItem struct {
	BaseModel
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product         *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity        int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice       int64     `gorm:"not null" json:"unit_price"`
	Subtotal        int64     `gorm:"not null" json:"subtotal"` // Selalu quantity * unit_price
}
