package model

import "github.com/google/uuid"

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentDigital PaymentMethod = "digital"
)

type TransactionStatus string

const (
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is a point-of-sale transaction. The cashier flow only ever
// persists "completed" rows; the cancelled status exists for parity with
// the schema but has no flow behind it.
type Transaction struct {
	BaseModel
	TotalAmount   int64             `gorm:"not null" json:"total_amount"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required,oneof=cash card digital"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product       *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice     int64     `gorm:"not null" json:"unit_price"`
	Subtotal      int64     `gorm:"not null" json:"subtotal"`
}
