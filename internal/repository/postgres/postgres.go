package postgres

import (
	"database/sql"

	"lebs-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AdminRepository
	repository.BorrowerRepository
	repository.ItemRepository
	repository.TransactionRepository
	repository.PendingReturnRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		AdminRepository:         NewAdminRepository(db),
		BorrowerRepository:      NewBorrowerRepository(db),
		ItemRepository:          NewItemRepository(db),
		TransactionRepository:   NewTransactionRepository(db),
		PendingReturnRepository: NewPendingReturnRepository(db),
	}
}
