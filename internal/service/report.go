package service

import (
	"context"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/repository"
)

type reportService struct {
	itemRepo     repository.ItemRepository
	borrowerRepo repository.BorrowerRepository
	txRepo       repository.TransactionRepository
	pendingRepo  repository.PendingReturnRepository
}

func NewReportService(itemRepo repository.ItemRepository, borrowerRepo repository.BorrowerRepository, txRepo repository.TransactionRepository, pendingRepo repository.PendingReturnRepository) ReportService {
	return &reportService{
		itemRepo:     itemRepo,
		borrowerRepo: borrowerRepo,
		txRepo:       txRepo,
		pendingRepo:  pendingRepo,
	}
}

func (s *reportService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalItems = int32(len(items))
	for i := range items {
		if items[i].Available() > 0 {
			stats.AvailableItems++
		}
	}

	borrowers, err := s.borrowerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalBorrowers = int32(len(borrowers))

	if stats.OpenBorrows, err = s.txRepo.CountOpen(ctx); err != nil {
		return nil, err
	}
	if stats.PendingReturns, err = s.pendingRepo.CountPending(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if stats.BorrowedToday, err = s.txRepo.SumBorrowedBetween(ctx, dayStart, now); err != nil {
		return nil, err
	}
	if stats.BorrowedThisWeek, err = s.txRepo.SumBorrowedBetween(ctx, weekStart, now); err != nil {
		return nil, err
	}
	if stats.BorrowedThisMonth, err = s.txRepo.SumBorrowedBetween(ctx, monthStart, now); err != nil {
		return nil, err
	}

	return stats, nil
}
