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
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")
	ErrSupplierRequired      = errors.New("supplier is required")
	ErrItemsRequired         = errors.New("purchase order must have at least one item")
	ErrAlreadyReceived       = errors.New("purchase order already received")
	ErrAlreadyCancelled      = errors.New("purchase order already cancelled")
	ErrCannotCancelReceived  = errors.New("cannot cancel a received purchase order")
	ErrDeleteReceived        = errors.New("cannot delete a received purchase order")
	ErrApproveNotPending     = errors.New("only pending purchase orders can be approved")
)

type PurchaseOrderService interface {
	Create(req *CreatePurchaseOrderRequest, actor Actor) (*model.PurchaseOrder, error)
	Approve(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error)
	Receive(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error)
	Cancel(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error)
	Delete(id uuid.UUID, actor Actor) error
	GetAll() ([]model.PurchaseOrder, error)
	GetByID(id uuid.UUID) (*model.PurchaseOrder, error)
}

type PurchaseOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID string `json:"supplier_id" validate:"required"`
	// GoodsReceived datang dari dialog konfirmasi saat create: true berarti
	// order langsung berstatus received dan stok bertambah saat itu juga.
	GoodsReceived bool                       `json:"goods_received"`
	Items         []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type purchaseOrderService struct {
	poRepo       repository.PurchaseOrderRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewPurchaseOrderService(poRepo repository.PurchaseOrderRepository, productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository, db *gorm.DB, hub *ws.Hub) PurchaseOrderService {
	return &purchaseOrderService{
		poRepo:       poRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *purchaseOrderService) notify(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastJSON(payload)
}

func (s *purchaseOrderService) Create(req *CreatePurchaseOrderRequest, actor Actor) (*model.PurchaseOrder, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, ErrSupplierRequired
	}
	if len(req.Items) == 0 {
		return nil, ErrItemsRequired
	}

	if _, err := s.supplierRepo.FindByID(supplierID); err != nil {
		return nil, errors.New("supplier not found")
	}

	// Agregasi item: baris duplikat digabung, harga diambil dari buy price
	// produk saat ini. Tidak ada batas stok untuk pembelian.
	cart := NewCart()
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", item.ProductID)
		}
		product, err := s.productRepo.FindByID(productID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}
		if err := cart.Add(product, product.BuyPrice, item.Quantity); err != nil {
			return nil, err
		}
	}

	status := model.POStatusPending
	if req.GoodsReceived {
		status = model.POStatusReceived
	}

	order := &model.PurchaseOrder{
		SupplierID:      supplierID,
		Status:          status,
		TotalAmount:     cart.Total(),
		CreatedByUserID: &actor.ID,
	}
	order.CreatedBy = actor.ID
	order.UpdatedBy = actor.ID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, line := range cart.Lines() {
			item := &model.PurchaseOrderItem{
				PurchaseOrderID: order.ID,
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				Subtotal:        line.Subtotal,
			}
			item.CreatedBy = actor.ID
			item.UpdatedBy = actor.ID
			if err := tx.Create(item).Error; err != nil {
				return err
			}

			// Barang sudah diterima saat create: stok naik dalam transaksi
			// yang sama, tidak ada langkah receive terpisah.
			if req.GoodsReceived {
				refID := order.ID
				note := fmt.Sprintf("purchase order received at creation (%d pcs)", line.Quantity)
				if _, err := applyStockChange(tx, line.ProductID, line.Quantity, model.StockRefPurchaseOrder, &refID, note, actor); err != nil {
					return err
				}
			}
		}

		detail := fmt.Sprintf(`{"status":"%s","total":%d,"items":%d}`, status, order.TotalAmount, cart.Len())
		return writeAuditLog(tx, actor, "create", "purchase_order", order.ID.String(), detail)
	})
	if err != nil {
		return nil, err
	}

	s.notify(map[string]interface{}{
		"type":     "purchase_order",
		"action":   "created",
		"order_id": order.ID,
		"status":   order.Status,
		"total":    order.TotalAmount,
		"message":  fmt.Sprintf("%s created a purchase order (%s)", actor.Name, order.Status),
	})

	return s.poRepo.FindByID(order.ID)
}

func (s *purchaseOrderService) Approve(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error) {
	err := s.transition(id, actor, func(order *model.PurchaseOrder) error {
		if order.Status != model.POStatusPending {
			return ErrApproveNotPending
		}
		order.Status = model.POStatusApproved
		return nil
	}, "approve", nil)
	if err != nil {
		return nil, err
	}
	return s.poRepo.FindByID(id)
}

func (s *purchaseOrderService) Receive(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error) {
	err := s.transition(id, actor, func(order *model.PurchaseOrder) error {
		switch order.Status {
		case model.POStatusReceived:
			return ErrAlreadyReceived
		case model.POStatusCancelled:
			return ErrAlreadyCancelled
		}
		order.Status = model.POStatusReceived
		return nil
	}, "receive", func(tx *gorm.DB, order *model.PurchaseOrder) error {
		// Efek samping penerimaan: stok semua item naik.
		for _, item := range order.Items {
			refID := order.ID
			note := fmt.Sprintf("purchase order received (%d pcs)", item.Quantity)
			if _, err := applyStockChange(tx, item.ProductID, item.Quantity, model.StockRefPurchaseOrder, &refID, note, actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.poRepo.FindByID(id)
}

func (s *purchaseOrderService) Cancel(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error) {
	err := s.transition(id, actor, func(order *model.PurchaseOrder) error {
		switch order.Status {
		case model.POStatusReceived:
			return ErrCannotCancelReceived
		case model.POStatusCancelled:
			return ErrAlreadyCancelled
		}
		order.Status = model.POStatusCancelled
		return nil
	}, "cancel", nil)
	if err != nil {
		return nil, err
	}
	return s.poRepo.FindByID(id)
}

// transition loads the order, applies the status change, runs the optional
// side effect, and audits — all in one database transaction. On any error
// the source state is left unchanged.
func (s *purchaseOrderService) transition(id uuid.UUID, actor Actor, change func(*model.PurchaseOrder) error, action string, sideEffect func(*gorm.DB, *model.PurchaseOrder) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order model.PurchaseOrder
		if err := tx.Set("gorm:query_option", "FOR UPDATE").Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return ErrPurchaseOrderNotFound
		}

		from := order.Status
		if err := change(&order); err != nil {
			return err
		}

		if err := tx.Model(&model.PurchaseOrder{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":     order.Status,
				"updated_by": actor.ID,
			}).Error; err != nil {
			return err
		}

		if sideEffect != nil {
			if err := sideEffect(tx, &order); err != nil {
				return err
			}
		}

		detail := fmt.Sprintf(`{"from":"%s","to":"%s"}`, from, order.Status)
		if err := writeAuditLog(tx, actor, action, "purchase_order", order.ID.String(), detail); err != nil {
			return err
		}

		s.notify(map[string]interface{}{
			"type":     "purchase_order",
			"action":   action,
			"order_id": order.ID,
			"status":   order.Status,
			"message":  fmt.Sprintf("%s set purchase order to %s", actor.Name, order.Status),
		})
		return nil
	})
}

func (s *purchaseOrderService) Delete(id uuid.UUID, actor Actor) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order model.PurchaseOrder
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&order, "id = ?", id).Error; err != nil {
			return ErrPurchaseOrderNotFound
		}

		// Barang yang sudah diterima tidak boleh hilang diam-diam.
		// Order cancelled tetap boleh dihapus.
		if order.Status == model.POStatusReceived {
			return ErrDeleteReceived
		}

		// Hapus item dulu, baru ordernya
		if err := tx.Where("purchase_order_id = ?", order.ID).Delete(&model.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&order).Error; err != nil {
			return err
		}

		detail := fmt.Sprintf(`{"status":"%s","total":%d}`, order.Status, order.TotalAmount)
		if err := writeAuditLog(tx, actor, "delete", "purchase_order", order.ID.String(), detail); err != nil {
			return err
		}

		s.notify(map[string]interface{}{
			"type":     "purchase_order",
			"action":   "deleted",
			"order_id": order.ID,
			"message":  fmt.Sprintf("%s deleted a purchase order", actor.Name),
		})
		return nil
	})
}

func (s *purchaseOrderService) GetAll() ([]model.PurchaseOrder, error) {
	return s.poRepo.FindAll()
}

func (s *purchaseOrderService) GetByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.poRepo.FindByID(id)
	if err != nil {
		return nil, ErrPurchaseOrderNotFound
	}
	return order, nil
}
