package domain

import "errors"

var (
	// ErrNotFound covers missing borrowers, items, transactions and
	// pending returns looked up by id or RFID.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock rejects an issue whose requested quantity
	// exceeds quantity - borrowed. No transaction row is created.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNothingReturned means no claim line matched any open
	// transaction row; the submission is a no-op and nothing was
	// persisted.
	ErrNothingReturned = errors.New("no items were returned")

	// ErrAlreadyProcessed guards pending-return double approval: the
	// staging row was consumed by a concurrent request.
	ErrAlreadyProcessed = errors.New("pending return already processed")

	// ErrDuplicateScan rejects a borrow submission identical to one
	// committed moments ago (same borrower, same items, same time
	// bucket).
	ErrDuplicateScan = errors.New("duplicate scan")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired code")
)
