package repository

import (
	"context"
	"time"

	"lebs-backend/internal/domain"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id int32) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	SetOTP(ctx context.Context, adminID int32, code string, expiry time.Time) error
	ClearOTP(ctx context.Context, adminID int32) error
	UpdatePassword(ctx context.Context, adminID int32, passwordHash string) error

	// Signup staging
	UpsertPending(ctx context.Context, pending *domain.PendingAdmin) error
	GetPendingByEmail(ctx context.Context, email string) (*domain.PendingAdmin, error)
	PromotePending(ctx context.Context, email, code string) (*domain.Admin, error)
	DeleteStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}

type BorrowerRepository interface {
	Create(ctx context.Context, b *domain.Borrower) error
	GetByID(ctx context.Context, id int32) (*domain.Borrower, error)
	GetByRFID(ctx context.Context, rfid string) (*domain.Borrower, error)
	Update(ctx context.Context, b *domain.Borrower) error
	List(ctx context.Context) ([]domain.Borrower, error)
	Archive(ctx context.Context, id int32) error
	Restore(ctx context.Context, archiveID int32) (*domain.Borrower, error)
	ListArchived(ctx context.Context) ([]domain.ArchivedBorrower, error)
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	GetByName(ctx context.Context, name string) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	List(ctx context.Context) ([]domain.Item, error)
	Archive(ctx context.Context, id int32) error
	Restore(ctx context.Context, archiveID int32) (*domain.Item, error)
	ListArchived(ctx context.Context) ([]domain.ArchivedItem, error)
	PurgeExpiredArchives(ctx context.Context) (int64, error)
}

type TransactionRepository interface {
	// IssueBorrow creates one transaction row per line and reserves
	// stock atomically; nothing is committed if any line has
	// insufficient stock.
	IssueBorrow(ctx context.Context, borrower *domain.Borrower, instructor *domain.Borrower, adminID *int32, subject, room string, lines []domain.BorrowLine, issuedOn time.Time) ([]int32, error)

	// ApplyReturns runs the reconciler over the borrower's open rows in
	// one storage transaction: FIFO allocation, per-row credit updates,
	// and the ledger recompute for each touched item. Returns the
	// credited lines and the mutated transaction ids; ErrNothingReturned
	// if no claim matched an open row.
	ApplyReturns(ctx context.Context, borrowerID int32, claims []domain.ReturnClaim, returnedOn time.Time) ([]domain.CreditedItem, []int32, error)

	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error)
	ListOpenByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error)
	CountOpen(ctx context.Context) (int32, error)
	SumBorrowedBetween(ctx context.Context, from, to time.Time) (int32, error)
	History(ctx context.Context, limit int32) ([]domain.Transaction, error)
}

type PendingReturnRepository interface {
	Create(ctx context.Context, pr *domain.PendingReturn) error
	GetByID(ctx context.Context, id int32) (*domain.PendingReturn, error)
	ListPending(ctx context.Context) ([]domain.PendingReturn, error)
	CountPending(ctx context.Context) (int32, error)

	// Approve consumes the staging row and applies the stored claims via
	// the reconciler, all inside one storage transaction. A concurrent
	// approval of the same row gets ErrAlreadyProcessed.
	Approve(ctx context.Context, pendingID int32, returnedOn time.Time) (*domain.PendingReturn, []domain.CreditedItem, []int32, error)

	// Decline deletes the staging row with no reconciler invocation.
	Decline(ctx context.Context, pendingID int32) error

	DeclineStale(ctx context.Context, olderThan time.Time) (int64, error)
}
