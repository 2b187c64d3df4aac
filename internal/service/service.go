package service

import (
	"context"

	"lebs-backend/internal/domain"
)

type AuthService interface {
	// Login checks the password and, when it matches, emails a one-time
	// code and returns a short-lived token that only unlocks VerifyOTP.
	Login(ctx context.Context, email, password string) (string, error)
	VerifyOTP(ctx context.Context, adminID int32, code string) (string, string, *domain.Admin, error)
	ResendOTP(ctx context.Context, adminID int32) error
	RefreshToken(ctx context.Context, refresh string) (string, string, error)

	// Signup stages the account; VerifySignup promotes it once the
	// emailed code is confirmed.
	Signup(ctx context.Context, firstName, lastName, email, password string) error
	VerifySignup(ctx context.Context, email, code string) (*domain.Admin, error)
	ResendSignupCode(ctx context.Context, email string) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type InventoryService interface {
	AddItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
	UpdateItem(ctx context.Context, item *domain.Item) error
	ListItems(ctx context.Context) ([]domain.Item, error)
	ArchiveItem(ctx context.Context, id int32) error
	RestoreItem(ctx context.Context, archiveID int32) (*domain.Item, error)
	ListArchivedItems(ctx context.Context) ([]domain.ArchivedItem, error)
}

type BorrowerService interface {
	AddBorrower(ctx context.Context, b *domain.Borrower) error
	GetBorrower(ctx context.Context, id int32) (*domain.Borrower, error)
	GetBorrowerByRFID(ctx context.Context, rfid string) (*domain.Borrower, error)
	UpdateBorrower(ctx context.Context, b *domain.Borrower) error
	ListBorrowers(ctx context.Context) ([]domain.Borrower, error)
	ArchiveBorrower(ctx context.Context, id int32) error
	RestoreBorrower(ctx context.Context, archiveID int32) (*domain.Borrower, error)
	ListArchivedBorrowers(ctx context.Context) ([]domain.ArchivedBorrower, error)
}

// IssueRequest is one borrow submission: the borrower and authorizing
// instructor are identified by card, AdminID is nil for kiosk issues.
type IssueRequest struct {
	BorrowerRFID   string              `json:"borrower_rfid"`
	InstructorRFID string              `json:"instructor_rfid"`
	AdminID        *int32              `json:"-"`
	StaffName      string              `json:"-"`
	Subject        string              `json:"subject"`
	Room           string              `json:"room"`
	Lines          []domain.BorrowLine `json:"lines"`
}

type BorrowService interface {
	Issue(ctx context.Context, req IssueRequest) (*domain.BorrowReceipt, error)
	Get(ctx context.Context, id int32) (*domain.Transaction, error)
	ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error)
	ListOpenByRFID(ctx context.Context, rfid string) (*domain.Borrower, []domain.Transaction, error)
	History(ctx context.Context, limit int32) ([]domain.Transaction, error)
}

type ReturnService interface {
	// Process applies the claims immediately at the staff counter.
	Process(ctx context.Context, borrowerRFID string, claims []domain.ReturnClaim, staffName string) (*domain.ReturnReceipt, error)

	// Submit stages a kiosk claim for later staff review.
	Submit(ctx context.Context, borrowerRFID string, claims []domain.ReturnClaim) (*domain.PendingReturn, error)
	ListPending(ctx context.Context) ([]domain.PendingReturn, error)
	GetPending(ctx context.Context, pendingID int32) (*domain.PendingReturn, error)
	Approve(ctx context.Context, pendingID int32, staffName string) (*domain.ReturnReceipt, error)
	Decline(ctx context.Context, pendingID int32) error
}

type ReportService interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

type EmailService interface {
	SendOTP(ctx context.Context, email, name, code string) error
	SendVerificationCode(ctx context.Context, email, name, code string) error
	SendPasswordResetCode(ctx context.Context, email, name, code string) error
	SendBorrowReceipt(ctx context.Context, receipt *domain.BorrowReceipt, slipPath string) error
	SendReturnReceipt(ctx context.Context, receipt *domain.ReturnReceipt, slipPath string) error
}

// SlipService renders borrow and return slips to PDF and returns the
// storage key of the rendered file.
type SlipService interface {
	GenerateBorrowSlip(receipt *domain.BorrowReceipt) (string, error)
	GenerateReturnSlip(receipt *domain.ReturnReceipt) (string, error)
}
