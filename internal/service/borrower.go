package service

import (
	"context"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/repository"
)

type borrowerService struct {
	borrowerRepo repository.BorrowerRepository
}

func NewBorrowerService(borrowerRepo repository.BorrowerRepository) BorrowerService {
	return &borrowerService{borrowerRepo: borrowerRepo}
}

func (s *borrowerService) AddBorrower(ctx context.Context, b *domain.Borrower) error {
	return s.borrowerRepo.Create(ctx, b)
}

func (s *borrowerService) GetBorrower(ctx context.Context, id int32) (*domain.Borrower, error) {
	return s.borrowerRepo.GetByID(ctx, id)
}

func (s *borrowerService) GetBorrowerByRFID(ctx context.Context, rfid string) (*domain.Borrower, error) {
	return s.borrowerRepo.GetByRFID(ctx, rfid)
}

func (s *borrowerService) UpdateBorrower(ctx context.Context, b *domain.Borrower) error {
	return s.borrowerRepo.Update(ctx, b)
}

func (s *borrowerService) ListBorrowers(ctx context.Context) ([]domain.Borrower, error) {
	return s.borrowerRepo.List(ctx)
}

func (s *borrowerService) ArchiveBorrower(ctx context.Context, id int32) error {
	return s.borrowerRepo.Archive(ctx, id)
}

func (s *borrowerService) RestoreBorrower(ctx context.Context, archiveID int32) (*domain.Borrower, error) {
	return s.borrowerRepo.Restore(ctx, archiveID)
}

func (s *borrowerService) ListArchivedBorrowers(ctx context.Context) ([]domain.ArchivedBorrower, error) {
	return s.borrowerRepo.ListArchived(ctx)
}
