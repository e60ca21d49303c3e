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
	ErrProductNotFound  = errors.New("product not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrCodeExists       = errors.New("product code already exists")
	ErrZeroAdjustment   = errors.New("stock adjustment cannot be zero")
)

type InventoryService interface {
	CreateProduct(req *model.Product, actor Actor) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor Actor) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	AdjustStock(req *AdjustStockRequest, actor Actor) (*model.Product, error)

	CreateSupplier(req *model.Supplier, actor Actor) error
	UpdateSupplier(id uuid.UUID, req *model.Supplier, actor Actor) (*model.Supplier, error)
	DeleteSupplier(id uuid.UUID, actor Actor) error
	GetAllSuppliers() ([]model.Supplier, error)
	GetSupplierByID(id uuid.UUID) (*model.Supplier, error)
}

type AdjustStockRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Change    int       `json:"change" validate:"required"` // positif = tambah, negatif = kurangi
	Note      string    `json:"note"`
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewInventoryService(productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *inventoryService) notify(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastJSON(payload)
}

func (s *inventoryService) CreateProduct(req *model.Product, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// Cek duplikasi kode produk
	existing, _ := s.productRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrCodeExists
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.FindByID(*req.SupplierID); err != nil {
			return ErrSupplierNotFound
		}
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		detail := fmt.Sprintf(`{"code":"%s","name":"%s","stock":%d}`, req.Code, req.Name, req.Stock)
		if err := writeAuditLog(tx, actor, "create", "product", req.ID.String(), detail); err != nil {
			return err
		}

		s.notify(map[string]interface{}{
			"type":    "product",
			"action":  "created",
			"product": map[string]interface{}{"id": req.ID, "code": req.Code, "name": req.Name, "stock": req.Stock},
			"message": fmt.Sprintf("%s created product '%s'", actor.Name, req.Name),
		})
		return nil
	})
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	var updated *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		if req.Code != existing.Code {
			other, _ := s.productRepo.FindByCode(req.Code)
			if other != nil && other.ID != uuid.Nil && other.ID != existing.ID {
				return ErrCodeExists
			}
		}

		existing.Code = req.Code
		existing.Name = req.Name
		existing.Category = req.Category
		existing.Unit = req.Unit
		existing.BuyPrice = req.BuyPrice
		existing.SellPrice = req.SellPrice
		existing.SupplierID = req.SupplierID
		existing.UpdatedBy = actor.ID

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		detail := fmt.Sprintf(`{"code":"%s","name":"%s"}`, existing.Code, existing.Name)
		if err := writeAuditLog(tx, actor, "update", "product", existing.ID.String(), detail); err != nil {
			return err
		}

		updated = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(map[string]interface{}{
		"type":    "product",
		"action":  "updated",
		"product": map[string]interface{}{"id": updated.ID, "code": updated.Code, "name": updated.Name},
		"message": fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name),
	})

	return updated, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID, actor Actor) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(id, actor.ID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return writeAuditLog(tx, actor, "delete", "product", id.String(), fmt.Sprintf(`{"code":"%s"}`, product.Code))
	})
}

// AdjustStock is a manual correction (opname). The invariant stock >= 0
// is enforced by applyStockChange.
func (s *inventoryService) AdjustStock(req *AdjustStockRequest, actor Actor) (*model.Product, error) {
	if req.Change == 0 {
		return nil, ErrZeroAdjustment
	}
	if req.ProductID == uuid.Nil {
		return nil, ErrProductNotFound
	}

	var adjusted *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := applyStockChange(tx, req.ProductID, req.Change, model.StockRefAdjustment, nil, req.Note, actor)
		if err != nil {
			return err
		}
		adjusted = product

		detail := fmt.Sprintf(`{"change":%d,"stock_after":%d}`, req.Change, product.Stock)
		return writeAuditLog(tx, actor, "adjust_stock", "product", product.ID.String(), detail)
	})
	if err != nil {
		return nil, err
	}

	s.notify(map[string]interface{}{
		"type":    "product",
		"action":  "stock_adjusted",
		"product": map[string]interface{}{"id": adjusted.ID, "name": adjusted.Name, "stock": adjusted.Stock},
		"message": fmt.Sprintf("%s adjusted stock of '%s' by %d", actor.Name, adjusted.Name, req.Change),
	})

	return adjusted, nil
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *inventoryService) CreateSupplier(req *model.Supplier, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, actor, "create", "supplier", req.ID.String(), fmt.Sprintf(`{"name":"%s"}`, req.Name))
	})
}

func (s *inventoryService) UpdateSupplier(id uuid.UUID, req *model.Supplier, actor Actor) (*model.Supplier, error) {
	existing, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}

	existing.Name = req.Name
	existing.ContactPerson = req.ContactPerson
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.UpdatedBy = actor.ID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		return writeAuditLog(tx, actor, "update", "supplier", existing.ID.String(), fmt.Sprintf(`{"name":"%s"}`, existing.Name))
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteSupplier does not cascade: referential integrity of products that
// still reference the supplier is left to the store.
func (s *inventoryService) DeleteSupplier(id uuid.UUID, actor Actor) error {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return ErrSupplierNotFound
	}
	if err := s.supplierRepo.Delete(id, actor.ID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return writeAuditLog(tx, actor, "delete", "supplier", id.String(), fmt.Sprintf(`{"name":"%s"}`, supplier.Name))
	})
}

func (s *inventoryService) GetAllSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

func (s *inventoryService) GetSupplierByID(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}
	return supplier, nil
}
