package service

import (
	"time"

	"go-apotek-pos/internal/repository"
)

type DashboardService interface {
	GetStats() (*repository.DashboardStats, error)
	GetSalesSummary(startDate, endDate time.Time) (*repository.SalesSummary, error)
}

type dashboardService struct {
	txRepo            repository.TransactionRepository
	lowStockThreshold int
}

func NewDashboardService(txRepo repository.TransactionRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{txRepo: txRepo, lowStockThreshold: lowStockThreshold}
}

func (s *dashboardService) GetStats() (*repository.DashboardStats, error) {
	return s.txRepo.GetDashboardStats(s.lowStockThreshold)
}

func (s *dashboardService) GetSalesSummary(startDate, endDate time.Time) (*repository.SalesSummary, error) {
	return s.txRepo.GetSalesSummary(startDate, endDate)
}
