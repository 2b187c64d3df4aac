package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/logger"
	"lebs-backend/internal/repository"
)

var ErrNoClaims = errors.New("return submission has no claim lines")

type returnService struct {
	txRepo       repository.TransactionRepository
	pendingRepo  repository.PendingReturnRepository
	borrowerRepo repository.BorrowerRepository
	slips        SlipService
	email        EmailService
}

func NewReturnService(txRepo repository.TransactionRepository, pendingRepo repository.PendingReturnRepository, borrowerRepo repository.BorrowerRepository, slips SlipService, email EmailService) ReturnService {
	return &returnService{
		txRepo:       txRepo,
		pendingRepo:  pendingRepo,
		borrowerRepo: borrowerRepo,
		slips:        slips,
		email:        email,
	}
}

func (s *returnService) Process(ctx context.Context, borrowerRFID string, claims []domain.ReturnClaim, staffName string) (*domain.ReturnReceipt, error) {
	if len(claims) == 0 {
		return nil, ErrNoClaims
	}

	borrower, err := s.borrowerRepo.GetByRFID(ctx, borrowerRFID)
	if err != nil {
		return nil, fmt.Errorf("borrower card: %w", err)
	}

	returnedOn := time.Now()
	credited, ids, err := s.txRepo.ApplyReturns(ctx, borrower.ID, claims, returnedOn)
	if err != nil {
		return nil, err
	}

	receipt := s.buildReceipt(borrower, staffName, returnedOn, credited, ids)
	go s.deliverReturnReceipt(receipt)
	return receipt, nil
}

func (s *returnService) Submit(ctx context.Context, borrowerRFID string, claims []domain.ReturnClaim) (*domain.PendingReturn, error) {
	if len(claims) == 0 {
		return nil, ErrNoClaims
	}

	borrower, err := s.borrowerRepo.GetByRFID(ctx, borrowerRFID)
	if err != nil {
		return nil, fmt.Errorf("borrower card: %w", err)
	}

	// The claim is taken at face value here; validation happens inside
	// the reconciler when staff approve.
	pr := &domain.PendingReturn{
		BorrowerID: borrower.ID,
		Claims:     claims,
		Status:     domain.PendingReturnStatusPending,
	}
	if err := s.pendingRepo.Create(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

func (s *returnService) ListPending(ctx context.Context) ([]domain.PendingReturn, error) {
	return s.pendingRepo.ListPending(ctx)
}

func (s *returnService) GetPending(ctx context.Context, pendingID int32) (*domain.PendingReturn, error) {
	return s.pendingRepo.GetByID(ctx, pendingID)
}

func (s *returnService) Approve(ctx context.Context, pendingID int32, staffName string) (*domain.ReturnReceipt, error) {
	returnedOn := time.Now()
	pr, credited, ids, err := s.pendingRepo.Approve(ctx, pendingID, returnedOn)
	if err != nil {
		return nil, err
	}

	borrower, err := s.borrowerRepo.GetByID(ctx, pr.BorrowerID)
	if err != nil {
		// The return is already committed; ship the receipt without
		// borrower details rather than failing the approval.
		logger.Warn("borrower lookup failed after approval", "pending_id", pendingID, "error", err)
		borrower = &domain.Borrower{ID: pr.BorrowerID}
	}

	receipt := s.buildReceipt(borrower, staffName, returnedOn, credited, ids)
	go s.deliverReturnReceipt(receipt)
	return receipt, nil
}

func (s *returnService) Decline(ctx context.Context, pendingID int32) error {
	return s.pendingRepo.Decline(ctx, pendingID)
}

func (s *returnService) buildReceipt(borrower *domain.Borrower, staffName string, returnedOn time.Time, credited []domain.CreditedItem, ids []int32) *domain.ReturnReceipt {
	refNo := ""
	if len(ids) > 0 {
		refNo = domain.ReferenceNo(ids[0])
	}
	return &domain.ReturnReceipt{
		ReferenceNo:    refNo,
		TransactionIDs: ids,
		Borrower:       borrower,
		StaffName:      staffName,
		ReturnedOn:     returnedOn,
		Items:          credited,
	}
}

func (s *returnService) deliverReturnReceipt(receipt *domain.ReturnReceipt) {
	slipPath, err := s.slips.GenerateReturnSlip(receipt)
	if err != nil {
		logger.Error("return slip generation failed", "reference_no", receipt.ReferenceNo, "error", err)
	}
	if receipt.Borrower == nil || receipt.Borrower.Email == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.email.SendReturnReceipt(ctx, receipt, slipPath); err != nil {
		logger.Error("return receipt email failed", "reference_no", receipt.ReferenceNo, "error", err)
	}
}
