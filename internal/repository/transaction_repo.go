package repository

import (
	"time"

	"go-apotek-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	GetDashboardStats(lowStockThreshold int) (*DashboardStats, error)
	GetSalesSummary(startDate, endDate time.Time) (*SalesSummary, error)
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	LowStockCount  int64 `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
}

// SalesSummary aggregates completed sales and received purchase spend
// over a date range.
type SalesSummary struct {
	Revenue          int64 `json:"revenue"`
	TransactionCount int64 `json:"transaction_count"`
	PurchaseSpend    int64 `json:"purchase_spend"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items.Product").Preload("CreatedByUser").
		Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Items.Product").Preload("CreatedByUser").
		First(&transaction, "id = ?", id).Error
	return &transaction, err
}

func (r *transactionRepo) GetDashboardStats(lowStockThreshold int) (*DashboardStats, error) {
	var stats DashboardStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.Product{}).Where("stock < ?", lowStockThreshold).Count(&stats.LowStockCount)

	// Valuation = SUM of stock * buy_price
	r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * buy_price), 0)").Scan(&stats.TotalValuation)

	return &stats, nil
}

func (r *transactionRepo) GetSalesSummary(startDate, endDate time.Time) (*SalesSummary, error) {
	var summary SalesSummary

	err := r.db.Model(&model.Transaction{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.TxStatusCompleted, startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&summary.Revenue).Error
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Transaction{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.TxStatusCompleted, startDate, endDate).
		Count(&summary.TransactionCount).Error; err != nil {
		return nil, err
	}

	err = r.db.Model(&model.PurchaseOrder{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.POStatusReceived, startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&summary.PurchaseSpend).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
