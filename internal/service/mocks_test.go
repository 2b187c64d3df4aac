package service

import (
	"context"
	"time"

	"lebs-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockAdminRepo
type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}
func (m *MockAdminRepo) GetByID(ctx context.Context, id int32) (*domain.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}
func (m *MockAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}
func (m *MockAdminRepo) SetOTP(ctx context.Context, adminID int32, code string, expiry time.Time) error {
	args := m.Called(ctx, adminID, code, expiry)
	return args.Error(0)
}
func (m *MockAdminRepo) ClearOTP(ctx context.Context, adminID int32) error {
	args := m.Called(ctx, adminID)
	return args.Error(0)
}
func (m *MockAdminRepo) UpdatePassword(ctx context.Context, adminID int32, passwordHash string) error {
	args := m.Called(ctx, adminID, passwordHash)
	return args.Error(0)
}
func (m *MockAdminRepo) UpsertPending(ctx context.Context, pending *domain.PendingAdmin) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}
func (m *MockAdminRepo) GetPendingByEmail(ctx context.Context, email string) (*domain.PendingAdmin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingAdmin), args.Error(1)
}
func (m *MockAdminRepo) PromotePending(ctx context.Context, email, code string) (*domain.Admin, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}
func (m *MockAdminRepo) DeleteStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockBorrowerRepo
type MockBorrowerRepo struct {
	mock.Mock
}

func (m *MockBorrowerRepo) Create(ctx context.Context, b *domain.Borrower) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBorrowerRepo) GetByID(ctx context.Context, id int32) (*domain.Borrower, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}
func (m *MockBorrowerRepo) GetByRFID(ctx context.Context, rfid string) (*domain.Borrower, error) {
	args := m.Called(ctx, rfid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}
func (m *MockBorrowerRepo) Update(ctx context.Context, b *domain.Borrower) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBorrowerRepo) List(ctx context.Context) ([]domain.Borrower, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Borrower), args.Error(1)
}
func (m *MockBorrowerRepo) Archive(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBorrowerRepo) Restore(ctx context.Context, archiveID int32) (*domain.Borrower, error) {
	args := m.Called(ctx, archiveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}
func (m *MockBorrowerRepo) ListArchived(ctx context.Context) ([]domain.ArchivedBorrower, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ArchivedBorrower), args.Error(1)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) GetByName(ctx context.Context, name string) (*domain.Item, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Item), args.Error(1)
}
func (m *MockItemRepo) Archive(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockItemRepo) Restore(ctx context.Context, archiveID int32) (*domain.Item, error) {
	args := m.Called(ctx, archiveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) ListArchived(ctx context.Context) ([]domain.ArchivedItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ArchivedItem), args.Error(1)
}
func (m *MockItemRepo) PurgeExpiredArchives(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) IssueBorrow(ctx context.Context, borrower, instructor *domain.Borrower, adminID *int32, subject, room string, lines []domain.BorrowLine, issuedOn time.Time) ([]int32, error) {
	args := m.Called(ctx, borrower, instructor, adminID, subject, room, lines, issuedOn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockTransactionRepo) ApplyReturns(ctx context.Context, borrowerID int32, claims []domain.ReturnClaim, returnedOn time.Time) ([]domain.CreditedItem, []int32, error) {
	args := m.Called(ctx, borrowerID, claims, returnedOn)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.CreditedItem), args.Get(1).([]int32), args.Error(2)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, borrowerID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListOpenByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, borrowerID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) CountOpen(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockTransactionRepo) SumBorrowedBetween(ctx context.Context, from, to time.Time) (int32, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockTransactionRepo) History(ctx context.Context, limit int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockPendingReturnRepo
type MockPendingReturnRepo struct {
	mock.Mock
}

func (m *MockPendingReturnRepo) Create(ctx context.Context, pr *domain.PendingReturn) error {
	args := m.Called(ctx, pr)
	return args.Error(0)
}
func (m *MockPendingReturnRepo) GetByID(ctx context.Context, id int32) (*domain.PendingReturn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingReturn), args.Error(1)
}
func (m *MockPendingReturnRepo) ListPending(ctx context.Context) ([]domain.PendingReturn, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PendingReturn), args.Error(1)
}
func (m *MockPendingReturnRepo) CountPending(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPendingReturnRepo) Approve(ctx context.Context, pendingID int32, returnedOn time.Time) (*domain.PendingReturn, []domain.CreditedItem, []int32, error) {
	args := m.Called(ctx, pendingID, returnedOn)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.PendingReturn), args.Get(1).([]domain.CreditedItem), args.Get(2).([]int32), args.Error(3)
}
func (m *MockPendingReturnRepo) Decline(ctx context.Context, pendingID int32) error {
	args := m.Called(ctx, pendingID)
	return args.Error(0)
}
func (m *MockPendingReturnRepo) DeclineStale(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// Receipt delivery runs on a goroutine after commit, so the stubs stay
// assertion-free to avoid racing the test body.
type stubEmail struct{}

func (stubEmail) SendOTP(ctx context.Context, email, name, code string) error              { return nil }
func (stubEmail) SendVerificationCode(ctx context.Context, email, name, code string) error { return nil }
func (stubEmail) SendPasswordResetCode(ctx context.Context, email, name, code string) error {
	return nil
}
func (stubEmail) SendBorrowReceipt(ctx context.Context, receipt *domain.BorrowReceipt, slipPath string) error {
	return nil
}
func (stubEmail) SendReturnReceipt(ctx context.Context, receipt *domain.ReturnReceipt, slipPath string) error {
	return nil
}

type stubSlips struct{}

func (stubSlips) GenerateBorrowSlip(receipt *domain.BorrowReceipt) (string, error) {
	return "slips/borrow_test.pdf", nil
}
func (stubSlips) GenerateReturnSlip(receipt *domain.ReturnReceipt) (string, error) {
	return "slips/return_test.pdf", nil
}

// MockEmail is used where sends happen synchronously and can be asserted.
type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendOTP(ctx context.Context, email, name, code string) error {
	args := m.Called(ctx, email, name, code)
	return args.Error(0)
}
func (m *MockEmail) SendVerificationCode(ctx context.Context, email, name, code string) error {
	args := m.Called(ctx, email, name, code)
	return args.Error(0)
}
func (m *MockEmail) SendPasswordResetCode(ctx context.Context, email, name, code string) error {
	args := m.Called(ctx, email, name, code)
	return args.Error(0)
}
func (m *MockEmail) SendBorrowReceipt(ctx context.Context, receipt *domain.BorrowReceipt, slipPath string) error {
	args := m.Called(ctx, receipt, slipPath)
	return args.Error(0)
}
func (m *MockEmail) SendReturnReceipt(ctx context.Context, receipt *domain.ReturnReceipt, slipPath string) error {
	args := m.Called(ctx, receipt, slipPath)
	return args.Error(0)
}

// MockMailer counts delivery attempts for the retry tests.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body, attachmentKey string) error {
	args := m.Called(ctx, to, subject, body, attachmentKey)
	return args.Error(0)
}
