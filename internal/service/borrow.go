package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/logger"
	"lebs-backend/internal/repository"
	"lebs-backend/internal/scanguard"
)

var (
	ErrNoLines       = errors.New("borrow submission has no item lines")
	ErrNotInstructor = errors.New("authorizing card does not belong to an instructor")
	ErrBadQuantity   = errors.New("line quantity must be positive")
)

type borrowService struct {
	txRepo       repository.TransactionRepository
	borrowerRepo repository.BorrowerRepository
	guard        scanguard.Guard
	slips        SlipService
	email        EmailService
}

func NewBorrowService(txRepo repository.TransactionRepository, borrowerRepo repository.BorrowerRepository, guard scanguard.Guard, slips SlipService, email EmailService) BorrowService {
	return &borrowService{
		txRepo:       txRepo,
		borrowerRepo: borrowerRepo,
		guard:        guard,
		slips:        slips,
		email:        email,
	}
}

func (s *borrowService) Issue(ctx context.Context, req IssueRequest) (*domain.BorrowReceipt, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoLines
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrBadQuantity, line.ItemName)
		}
	}

	borrower, err := s.borrowerRepo.GetByRFID(ctx, req.BorrowerRFID)
	if err != nil {
		return nil, fmt.Errorf("borrower card: %w", err)
	}
	instructor, err := s.borrowerRepo.GetByRFID(ctx, req.InstructorRFID)
	if err != nil {
		return nil, fmt.Errorf("instructor card: %w", err)
	}
	if instructor.Role != domain.BorrowerRoleInstructor {
		return nil, ErrNotInstructor
	}

	fingerprint := scanguard.Fingerprint(borrower.RFID, lineKeys(req.Lines))
	fresh, err := s.guard.Claim(ctx, fingerprint)
	if err != nil {
		// A dead guard must not take the counter down with it.
		logger.Warn("scan guard unavailable, accepting submission", "error", err)
	} else if !fresh {
		return nil, domain.ErrDuplicateScan
	}

	issuedOn := time.Now()
	ids, err := s.txRepo.IssueBorrow(ctx, borrower, instructor, req.AdminID, req.Subject, req.Room, req.Lines, issuedOn)
	if err != nil {
		return nil, err
	}

	receipt := &domain.BorrowReceipt{
		ReferenceNo:    domain.ReferenceNo(ids[0]),
		TransactionIDs: ids,
		Borrower:       borrower,
		Instructor:     instructor,
		StaffName:      req.StaffName,
		Subject:        req.Subject,
		Room:           req.Room,
		IssuedOn:       issuedOn,
		Lines:          req.Lines,
	}

	// Slip and email ride after the commit; their failure never unwinds
	// the borrow.
	go s.deliverBorrowReceipt(receipt)

	return receipt, nil
}

func (s *borrowService) deliverBorrowReceipt(receipt *domain.BorrowReceipt) {
	slipPath, err := s.slips.GenerateBorrowSlip(receipt)
	if err != nil {
		logger.Error("borrow slip generation failed", "reference_no", receipt.ReferenceNo, "error", err)
	}
	if receipt.Borrower.Email == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.email.SendBorrowReceipt(ctx, receipt, slipPath); err != nil {
		logger.Error("borrow receipt email failed", "reference_no", receipt.ReferenceNo, "error", err)
	}
}

func (s *borrowService) Get(ctx context.Context, id int32) (*domain.Transaction, error) {
	return s.txRepo.GetByID(ctx, id)
}

func (s *borrowService) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error) {
	return s.txRepo.ListByBorrower(ctx, borrowerID)
}

func (s *borrowService) ListOpenByRFID(ctx context.Context, rfid string) (*domain.Borrower, []domain.Transaction, error) {
	borrower, err := s.borrowerRepo.GetByRFID(ctx, rfid)
	if err != nil {
		return nil, nil, err
	}
	open, err := s.txRepo.ListOpenByBorrower(ctx, borrower.ID)
	if err != nil {
		return nil, nil, err
	}
	return borrower, open, nil
}

func (s *borrowService) History(ctx context.Context, limit int32) ([]domain.Transaction, error) {
	return s.txRepo.History(ctx, limit)
}

func lineKeys(lines []domain.BorrowLine) []string {
	keys := make([]string, 0, len(lines))
	for _, l := range lines {
		keys = append(keys, fmt.Sprintf("%s:%d", l.ItemName, l.Quantity))
	}
	return keys
}
