package service

import (
	"errors"
	"fmt"

	"go-apotek-pos/internal/model"
	"go-apotek-pos/internal/repository"
	"go-apotek-pos/internal/ws"
	"go-apotek-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInvalidPaymentMethod = errors.New("payment method must be cash, card, or digital")
)

type CashierService interface {
	Preview(req *CheckoutRequest) (*CheckoutPreview, error)
	Commit(req *CheckoutRequest, actor Actor) (*model.Transaction, error)
	GetAll() ([]model.Transaction, error)
	GetByID(id uuid.UUID) (*model.Transaction, error)
}

type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	PaymentMethod string                `json:"payment_method" validate:"required,oneof=cash card digital"`
	Items         []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CheckoutPreview is the confirmation step before commit: aggregated
// lines plus the recomputed grand total, nothing persisted.
type CheckoutPreview struct {
	Lines         []CartLine `json:"lines"`
	Total         int64      `json:"total"`
	PaymentMethod string     `json:"payment_method"`
}

type cashierService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCashierService(productRepo repository.ProductRepository, txRepo repository.TransactionRepository, db *gorm.DB, hub *ws.Hub) CashierService {
	return &cashierService{
		productRepo: productRepo,
		txRepo:      txRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *cashierService) notify(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastJSON(payload)
}

// buildCart aggregates request lines into a stock-limited cart priced at
// the products' current sell price. Totals are never trusted from the
// client.
func (s *cashierService) buildCart(req *CheckoutRequest) (*Cart, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		if firstErr.Tag == "oneof" {
			return nil, ErrInvalidPaymentMethod
		}
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	cart := NewCartWithStockLimit()
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", item.ProductID)
		}
		product, err := s.productRepo.FindByID(productID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}
		if err := cart.Add(product, product.SellPrice, item.Quantity); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

func (s *cashierService) Preview(req *CheckoutRequest) (*CheckoutPreview, error) {
	cart, err := s.buildCart(req)
	if err != nil {
		return nil, err
	}
	return &CheckoutPreview{
		Lines:         cart.Lines(),
		Total:         cart.Total(),
		PaymentMethod: req.PaymentMethod,
	}, nil
}

// Commit persists the sale as "completed". Stock decrement and the
// stock/audit logs run in the same database transaction: any failure
// (including a stale stock read at cart-build time) aborts the whole
// commit, no partial transactions.
func (s *cashierService) Commit(req *CheckoutRequest, actor Actor) (*model.Transaction, error) {
	cart, err := s.buildCart(req)
	if err != nil {
		return nil, err
	}

	sale := &model.Transaction{
		TotalAmount:     cart.Total(),
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		Status:          model.TxStatusCompleted,
		CreatedByUserID: &actor.ID,
	}
	sale.CreatedBy = actor.ID
	sale.UpdatedBy = actor.ID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		for _, line := range cart.Lines() {
			item := &model.TransactionItem{
				TransactionID: sale.ID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice,
				Subtotal:      line.Subtotal,
			}
			item.CreatedBy = actor.ID
			item.UpdatedBy = actor.ID
			if err := tx.Create(item).Error; err != nil {
				return err
			}

			// Re-check under the row lock; the cart-build check can be stale.
			refID := sale.ID
			note := fmt.Sprintf("sale (%d pcs)", line.Quantity)
			if _, err := applyStockChange(tx, line.ProductID, -line.Quantity, model.StockRefSale, &refID, note, actor); err != nil {
				return err
			}
		}

		detail := fmt.Sprintf(`{"total":%d,"payment_method":"%s","items":%d}`, sale.TotalAmount, sale.PaymentMethod, cart.Len())
		return writeAuditLog(tx, actor, "create", "transaction", sale.ID.String(), detail)
	})
	if err != nil {
		return nil, err
	}

	s.notify(map[string]interface{}{
		"type":           "transaction",
		"action":         "completed",
		"transaction_id": sale.ID,
		"total":          sale.TotalAmount,
		"message":        fmt.Sprintf("%s completed a sale of %d", actor.Name, sale.TotalAmount),
	})

	return s.txRepo.FindByID(sale.ID)
}

func (s *cashierService) GetAll() ([]model.Transaction, error) {
	return s.txRepo.FindAll()
}

func (s *cashierService) GetByID(id uuid.UUID) (*model.Transaction, error) {
	sale, err := s.txRepo.FindByID(id)
	if err != nil {
		return nil, ErrTransactionNotFound
	}
	return sale, nil
}
