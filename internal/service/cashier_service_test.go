package service

import (
	"errors"
	"testing"

	"go-apotek-pos/internal/model"
	"go-apotek-pos/internal/repository"

	"gorm.io/gorm"
)

func newCashierService(db *gorm.DB) CashierService {
	return NewCashierService(
		repository.NewProductRepo(db),
		repository.NewTransactionRepo(db),
		db,
		nil,
	)
}

func TestCommitDecrementsStockAndLogs(t *testing.T) {
	db := setupTestDB(t, "cashier_commit")
	svc := newCashierService(db)
	actor := testActor()

	p1 := seedProduct(t, db, "PARA-500", "Paracetamol 500mg", 10, 1000, 5000)
	p2 := seedProduct(t, db, "OBH-60", "OBH Sirup", 6, 8000, 15000)

	sale, err := svc.Commit(&CheckoutRequest{
		PaymentMethod: "cash",
		Items: []CheckoutItemRequest{
			{ProductID: p1.ID.String(), Quantity: 3},
			{ProductID: p2.ID.String(), Quantity: 2},
		},
	}, actor)
	if err != nil {
		t.Fatalf("failed to commit sale: %v", err)
	}

	// Total recomputed from current sell prices, never trusted from the client
	if sale.TotalAmount != 45000 {
		t.Errorf("expected total 45000, got %d", sale.TotalAmount)
	}
	if sale.Status != model.TxStatusCompleted {
		t.Errorf("expected status completed, got %s", sale.Status)
	}
	if sale.PaymentMethod != model.PaymentCash {
		t.Errorf("expected payment cash, got %s", sale.PaymentMethod)
	}
	if len(sale.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(sale.Items))
	}

	if got := productStock(t, db, p1.ID); got != 7 {
		t.Errorf("expected stock 7, got %d", got)
	}
	if got := productStock(t, db, p2.ID); got != 4 {
		t.Errorf("expected stock 4, got %d", got)
	}

	// Every decrement has a matching stock log referencing the sale
	var logs []model.StockLog
	if err := db.Where("ref_type = ? AND ref_id = ?", model.StockRefSale, sale.ID).Find(&logs).Error; err != nil {
		t.Fatalf("failed to load stock logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 stock logs, got %d", len(logs))
	}
	for _, entry := range logs {
		if entry.Change >= 0 {
			t.Errorf("sale stock change must be negative, got %d", entry.Change)
		}
	}

	var audit model.AuditLog
	if err := db.First(&audit, "entity = ? AND entity_id = ?", "transaction", sale.ID.String()).Error; err != nil {
		t.Fatalf("expected an audit row for the sale: %v", err)
	}
	if audit.Action != "create" {
		t.Errorf("expected action create, got %s", audit.Action)
	}
}

func TestCommitInsufficientStockAbortsEverything(t *testing.T) {
	db := setupTestDB(t, "cashier_insufficient")
	svc := newCashierService(db)
	actor := testActor()

	p1 := seedProduct(t, db, "OK-1", "Vitamin B", 20, 500, 1000)
	p2 := seedProduct(t, db, "LOW-1", "Obat Langka", 2, 9000, 15000)

	_, err := svc.Commit(&CheckoutRequest{
		PaymentMethod: "cash",
		Items: []CheckoutItemRequest{
			{ProductID: p1.ID.String(), Quantity: 5},
			{ProductID: p2.ID.String(), Quantity: 3}, // hanya ada 2
		},
	}, actor)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// No partial writes of any kind
	if got := countRows(t, db, &model.Transaction{}); got != 0 {
		t.Errorf("expected 0 transactions, got %d", got)
	}
	if got := countRows(t, db, &model.TransactionItem{}); got != 0 {
		t.Errorf("expected 0 transaction items, got %d", got)
	}
	if got := countRows(t, db, &model.StockLog{}); got != 0 {
		t.Errorf("expected 0 stock logs, got %d", got)
	}
	if got := productStock(t, db, p1.ID); got != 20 {
		t.Errorf("expected stock 20 untouched, got %d", got)
	}
	if got := productStock(t, db, p2.ID); got != 2 {
		t.Errorf("expected stock 2 untouched, got %d", got)
	}
}

func TestCommitMergesDuplicateLinesAgainstStock(t *testing.T) {
	db := setupTestDB(t, "cashier_merge")
	svc := newCashierService(db)
	actor := testActor()

	product := seedProduct(t, db, "MRG-1", "Antimo", 5, 1000, 2500)

	// 3 + 3 merged exceeds stock 5
	_, err := svc.Commit(&CheckoutRequest{
		PaymentMethod: "card",
		Items: []CheckoutItemRequest{
			{ProductID: product.ID.String(), Quantity: 3},
			{ProductID: product.ID.String(), Quantity: 3},
		},
	}, actor)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock for merged lines, got %v", err)
	}

	sale, err := svc.Commit(&CheckoutRequest{
		PaymentMethod: "card",
		Items: []CheckoutItemRequest{
			{ProductID: product.ID.String(), Quantity: 3},
			{ProductID: product.ID.String(), Quantity: 2},
		},
	}, actor)
	if err != nil {
		t.Fatalf("failed to commit merged sale: %v", err)
	}
	if len(sale.Items) != 1 {
		t.Fatalf("expected merged single item, got %d", len(sale.Items))
	}
	if sale.Items[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", sale.Items[0].Quantity)
	}
	if sale.TotalAmount != 12500 {
		t.Errorf("expected total 12500, got %d", sale.TotalAmount)
	}
	if got := productStock(t, db, product.ID); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}
}

func TestCommitRejectsInvalidPaymentMethod(t *testing.T) {
	db := setupTestDB(t, "cashier_payment")
	svc := newCashierService(db)
	actor := testActor()

	product := seedProduct(t, db, "PAY-1", "Plester", 10, 200, 500)

	_, err := svc.Commit(&CheckoutRequest{
		PaymentMethod: "cheque",
		Items:         []CheckoutItemRequest{{ProductID: product.ID.String(), Quantity: 1}},
	}, actor)
	if !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
	if got := countRows(t, db, &model.Transaction{}); got != 0 {
		t.Errorf("expected 0 transactions, got %d", got)
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	db := setupTestDB(t, "cashier_preview")
	svc := newCashierService(db)

	product := seedProduct(t, db, "PRV-1", "Tolak Angin", 8, 2000, 4000)

	preview, err := svc.Preview(&CheckoutRequest{
		PaymentMethod: "digital",
		Items:         []CheckoutItemRequest{{ProductID: product.ID.String(), Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("failed to preview: %v", err)
	}
	if preview.Total != 16000 {
		t.Errorf("expected total 16000, got %d", preview.Total)
	}
	if len(preview.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(preview.Lines))
	}

	if got := countRows(t, db, &model.Transaction{}); got != 0 {
		t.Errorf("preview must not persist, got %d transactions", got)
	}
	if got := productStock(t, db, product.ID); got != 8 {
		t.Errorf("preview must not touch stock, got %d", got)
	}
}
