package service

import (
	"fmt"
	"testing"

	"go-apotek-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a named in-memory sqlite database and migrates the
// full schema. Each test uses its own name so state never leaks between
// tests.
func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.Supplier{},
		&model.Product{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.StockLog{},
		&model.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *model.Supplier {
	t.Helper()
	supplier := &model.Supplier{Name: name}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("failed to seed supplier: %v", err)
	}
	return supplier
}

func seedProduct(t *testing.T, db *gorm.DB, code, name string, stock int, buyPrice, sellPrice int64) *model.Product {
	t.Helper()
	product := &model.Product{
		Code:      code,
		Name:      name,
		Stock:     stock,
		BuyPrice:  buyPrice,
		SellPrice: sellPrice,
		Unit:      "pcs",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", code, err)
	}
	return product
}

func testActor() Actor {
	return Actor{
		ID:    uuid.NewString(),
		Name:  "Test Owner",
		Email: "owner@test.local",
	}
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product model.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	return product.Stock
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(value).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
