package service

import (
	"errors"
	"testing"

	"go-apotek-pos/internal/model"
	"go-apotek-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newPOService(db *gorm.DB) PurchaseOrderService {
	return NewPurchaseOrderService(
		repository.NewPurchaseOrderRepo(db),
		repository.NewProductRepo(db),
		repository.NewSupplierRepo(db),
		db,
		nil,
	)
}

func TestCreatePurchaseOrderPendingThenReceiveThenDelete(t *testing.T) {
	db := setupTestDB(t, "po_lifecycle")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "PT Kimia Sejahtera")
	p1 := seedProduct(t, db, "P1", "Paracetamol 500mg", 10, 1000, 2000)
	p2 := seedProduct(t, db, "P2", "Amoxicillin 250mg", 5, 3000, 5000)

	order, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID:    supplier.ID.String(),
		GoodsReceived: false,
		Items: []PurchaseOrderItemRequest{
			{ProductID: p1.ID.String(), Quantity: 2},
			{ProductID: p2.ID.String(), Quantity: 1},
		},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}

	if order.Status != model.POStatusPending {
		t.Errorf("expected status pending, got %s", order.Status)
	}
	if order.TotalAmount != 5000 {
		t.Errorf("expected total 5000, got %d", order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}

	// Pending order: stock untouched
	if got := productStock(t, db, p1.ID); got != 10 {
		t.Errorf("expected stock 10 before receive, got %d", got)
	}

	received, err := svc.Receive(order.ID, actor)
	if err != nil {
		t.Fatalf("failed to receive purchase order: %v", err)
	}
	if received.Status != model.POStatusReceived {
		t.Errorf("expected status received, got %s", received.Status)
	}
	if got := productStock(t, db, p1.ID); got != 12 {
		t.Errorf("expected stock 12 after receive, got %d", got)
	}
	if got := productStock(t, db, p2.ID); got != 6 {
		t.Errorf("expected stock 6 after receive, got %d", got)
	}

	// Received orders cannot be deleted
	err = svc.Delete(order.ID, actor)
	if !errors.Is(err, ErrDeleteReceived) {
		t.Fatalf("expected ErrDeleteReceived, got %v", err)
	}

	// The order and its items are still intact
	reloaded, err := svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("order should still exist after rejected delete: %v", err)
	}
	if reloaded.Status != model.POStatusReceived {
		t.Errorf("expected status received after rejected delete, got %s", reloaded.Status)
	}
	if got := countRows(t, db, &model.PurchaseOrderItem{}); got != 2 {
		t.Errorf("expected 2 item rows after rejected delete, got %d", got)
	}
}

func TestCreatePurchaseOrderGoodsReceived(t *testing.T) {
	db := setupTestDB(t, "po_goods_received")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "CV Sumber Obat")
	product := seedProduct(t, db, "VIT-C", "Vitamin C", 4, 1500, 3000)

	order, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID:    supplier.ID.String(),
		GoodsReceived: true,
		Items: []PurchaseOrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 6},
		},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}

	if order.Status != model.POStatusReceived {
		t.Errorf("expected status received, got %s", order.Status)
	}
	if order.TotalAmount != 9000 {
		t.Errorf("expected total 9000, got %d", order.TotalAmount)
	}
	if got := productStock(t, db, product.ID); got != 10 {
		t.Errorf("expected stock 10, got %d", got)
	}

	// Stock movement is logged with the order as reference
	var stockLog model.StockLog
	if err := db.First(&stockLog, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("expected a stock log row: %v", err)
	}
	if stockLog.RefType != model.StockRefPurchaseOrder {
		t.Errorf("expected ref_type purchase_order, got %s", stockLog.RefType)
	}
	if stockLog.RefID == nil || *stockLog.RefID != order.ID {
		t.Errorf("expected ref_id %s, got %v", order.ID, stockLog.RefID)
	}
	if stockLog.StockBefore != 4 || stockLog.StockAfter != 10 {
		t.Errorf("expected before/after 4/10, got %d/%d", stockLog.StockBefore, stockLog.StockAfter)
	}
}

func TestCreatePurchaseOrderMergesDuplicateLines(t *testing.T) {
	db := setupTestDB(t, "po_merge")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "PT Duta Farma")
	product := seedProduct(t, db, "IBU-400", "Ibuprofen 400mg", 0, 2000, 4000)

	order, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items: []PurchaseOrderItemRequest{
			{ProductID: product.ID.String(), Quantity: 3},
			{ProductID: product.ID.String(), Quantity: 2},
		},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}

	if len(order.Items) != 1 {
		t.Fatalf("expected merged single item, got %d", len(order.Items))
	}
	if order.Items[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", order.Items[0].Quantity)
	}
	if order.TotalAmount != 10000 {
		t.Errorf("expected total 10000, got %d", order.TotalAmount)
	}
}

func TestApproveTransitions(t *testing.T) {
	db := setupTestDB(t, "po_approve")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "PT Approve")
	product := seedProduct(t, db, "APP-1", "Antasida", 2, 500, 1000)

	order, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items:      []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 4}},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}

	approved, err := svc.Approve(order.ID, actor)
	if err != nil {
		t.Fatalf("failed to approve: %v", err)
	}
	if approved.Status != model.POStatusApproved {
		t.Errorf("expected status approved, got %s", approved.Status)
	}
	// Approval does not move stock
	if got := productStock(t, db, product.ID); got != 2 {
		t.Errorf("expected stock 2, got %d", got)
	}

	if _, err := svc.Approve(order.ID, actor); !errors.Is(err, ErrApproveNotPending) {
		t.Fatalf("expected ErrApproveNotPending, got %v", err)
	}

	// Approved orders can still be received
	received, err := svc.Receive(order.ID, actor)
	if err != nil {
		t.Fatalf("failed to receive approved order: %v", err)
	}
	if received.Status != model.POStatusReceived {
		t.Errorf("expected status received, got %s", received.Status)
	}
	if got := productStock(t, db, product.ID); got != 6 {
		t.Errorf("expected stock 6, got %d", got)
	}

	if _, err := svc.Approve(order.ID, actor); !errors.Is(err, ErrApproveNotPending) {
		t.Fatalf("expected ErrApproveNotPending on received order, got %v", err)
	}
}

func TestReceiveTerminalStatesRejected(t *testing.T) {
	db := setupTestDB(t, "po_receive_terminal")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "PT Terminal")
	product := seedProduct(t, db, "TRM-1", "Salep Kulit", 0, 8000, 12000)

	order, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID:    supplier.ID.String(),
		GoodsReceived: true,
		Items:         []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 3}},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}

	// Receiving twice must not double stock
	if _, err := svc.Receive(order.ID, actor); !errors.Is(err, ErrAlreadyReceived) {
		t.Fatalf("expected ErrAlreadyReceived, got %v", err)
	}
	if got := productStock(t, db, product.ID); got != 3 {
		t.Errorf("expected stock 3 after rejected re-receive, got %d", got)
	}

	cancelled, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items:      []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 1}},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create second order: %v", err)
	}
	if _, err := svc.Cancel(cancelled.ID, actor); err != nil {
		t.Fatalf("failed to cancel: %v", err)
	}
	if _, err := svc.Receive(cancelled.ID, actor); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}

	reloaded, _ := svc.GetByID(cancelled.ID)
	if reloaded.Status != model.POStatusCancelled {
		t.Errorf("expected status unchanged (cancelled), got %s", reloaded.Status)
	}
}

func TestCancelTransitions(t *testing.T) {
	db := setupTestDB(t, "po_cancel")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "PT Cancel")
	product := seedProduct(t, db, "CNC-1", "Obat Batuk", 7, 6000, 9000)

	pending, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items:      []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 2}},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}

	cancelled, err := svc.Cancel(pending.ID, actor)
	if err != nil {
		t.Fatalf("failed to cancel pending order: %v", err)
	}
	if cancelled.Status != model.POStatusCancelled {
		t.Errorf("expected status cancelled, got %s", cancelled.Status)
	}
	if got := productStock(t, db, product.ID); got != 7 {
		t.Errorf("cancel must not touch stock, got %d", got)
	}

	if _, err := svc.Cancel(pending.ID, actor); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}

	received, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID:    supplier.ID.String(),
		GoodsReceived: true,
		Items:         []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 1}},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create received order: %v", err)
	}
	if _, err := svc.Cancel(received.ID, actor); !errors.Is(err, ErrCannotCancelReceived) {
		t.Fatalf("expected ErrCannotCancelReceived, got %v", err)
	}
}

func TestDeletePurchaseOrder(t *testing.T) {
	db := setupTestDB(t, "po_delete")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "PT Delete")
	product := seedProduct(t, db, "DEL-1", "Minyak Kayu Putih", 0, 2500, 5000)

	pending, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items:      []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 2}},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}

	if err := svc.Delete(pending.ID, actor); err != nil {
		t.Fatalf("failed to delete pending order: %v", err)
	}
	if _, err := svc.GetByID(pending.ID); !errors.Is(err, ErrPurchaseOrderNotFound) {
		t.Fatalf("expected ErrPurchaseOrderNotFound after delete, got %v", err)
	}

	// Cancelled orders are deletable too
	toCancel, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items:      []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 1}},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create second order: %v", err)
	}
	if _, err := svc.Cancel(toCancel.ID, actor); err != nil {
		t.Fatalf("failed to cancel: %v", err)
	}
	if err := svc.Delete(toCancel.ID, actor); err != nil {
		t.Fatalf("failed to delete cancelled order: %v", err)
	}

	if err := svc.Delete(uuid.New(), actor); !errors.Is(err, ErrPurchaseOrderNotFound) {
		t.Fatalf("expected ErrPurchaseOrderNotFound for unknown id, got %v", err)
	}
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	db := setupTestDB(t, "po_validation")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "PT Validasi")
	product := seedProduct(t, db, "VAL-1", "Masker", 0, 1000, 2000)

	if _, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items:      []PurchaseOrderItemRequest{},
	}, actor); err == nil {
		t.Error("expected error for empty items")
	}

	if _, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items:      []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: -1}},
	}, actor); err == nil {
		t.Error("expected error for negative quantity")
	}

	if _, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: uuid.NewString(),
		Items:      []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 1}},
	}, actor); err == nil {
		t.Error("expected error for unknown supplier")
	}

	// Nothing persisted by any rejected create
	if got := countRows(t, db, &model.PurchaseOrder{}); got != 0 {
		t.Errorf("expected 0 orders, got %d", got)
	}
}

func TestPurchaseOrderAuditTrail(t *testing.T) {
	db := setupTestDB(t, "po_audit")
	svc := newPOService(db)
	actor := testActor()

	supplier := seedSupplier(t, db, "PT Audit")
	product := seedProduct(t, db, "AUD-1", "Betadine", 0, 7000, 11000)

	order, err := svc.Create(&CreatePurchaseOrderRequest{
		SupplierID: supplier.ID.String(),
		Items:      []PurchaseOrderItemRequest{{ProductID: product.ID.String(), Quantity: 2}},
	}, actor)
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}
	if _, err := svc.Receive(order.ID, actor); err != nil {
		t.Fatalf("failed to receive: %v", err)
	}

	var logs []model.AuditLog
	if err := db.Where("entity = ? AND entity_id = ?", "purchase_order", order.ID.String()).Find(&logs).Error; err != nil {
		t.Fatalf("failed to load audit logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(logs))
	}
	actions := map[string]bool{}
	for _, entry := range logs {
		actions[entry.Action] = true
		if entry.ActorID != actor.ID {
			t.Errorf("expected actor %s, got %s", actor.ID, entry.ActorID)
		}
	}
	if !actions["create"] || !actions["receive"] {
		t.Errorf("expected create and receive actions, got %v", actions)
	}
}
