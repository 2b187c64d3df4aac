package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/repository"
)

type borrowerRepository struct {
	db *sql.DB
}

func NewBorrowerRepository(db *sql.DB) repository.BorrowerRepository {
	return &borrowerRepository{db: db}
}

const borrowerColumns = `user_id, rfid, borrower_no, first_name, last_name, COALESCE(department, ''), COALESCE(course, ''), role, COALESCE(email, ''), COALESCE(image_path, '')`

func (r *borrowerRepository) Create(ctx context.Context, b *domain.Borrower) error {
	if b.Role == "" {
		b.Role = domain.BorrowerRoleStudent
	}
	query := `INSERT INTO borrowers (rfid, borrower_no, first_name, last_name, department, course, role, email, image_path)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING user_id`
	return r.db.QueryRowContext(ctx, query, b.RFID, b.BorrowerNo, b.FirstName, b.LastName, b.Department, b.Course, b.Role, b.Email, b.ImagePath).Scan(&b.ID)
}

func (r *borrowerRepository) GetByID(ctx context.Context, id int32) (*domain.Borrower, error) {
	return r.get(ctx, `SELECT `+borrowerColumns+` FROM borrowers WHERE user_id = $1`, id)
}

func (r *borrowerRepository) GetByRFID(ctx context.Context, rfid string) (*domain.Borrower, error) {
	return r.get(ctx, `SELECT `+borrowerColumns+` FROM borrowers WHERE rfid = $1`, rfid)
}

func (r *borrowerRepository) get(ctx context.Context, query string, arg interface{}) (*domain.Borrower, error) {
	b := &domain.Borrower{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&b.ID, &b.RFID, &b.BorrowerNo, &b.FirstName, &b.LastName, &b.Department, &b.Course, &b.Role, &b.Email, &b.ImagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *borrowerRepository) Update(ctx context.Context, b *domain.Borrower) error {
	query := `UPDATE borrowers SET rfid=$1, borrower_no=$2, first_name=$3, last_name=$4, department=$5, course=$6, role=$7, email=$8, image_path=$9 WHERE user_id=$10`
	_, err := r.db.ExecContext(ctx, query, b.RFID, b.BorrowerNo, b.FirstName, b.LastName, b.Department, b.Course, b.Role, b.Email, b.ImagePath, b.ID)
	return err
}

func (r *borrowerRepository) List(ctx context.Context) ([]domain.Borrower, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+borrowerColumns+` FROM borrowers ORDER BY last_name ASC, first_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var borrowers []domain.Borrower
	for rows.Next() {
		var b domain.Borrower
		if err := rows.Scan(&b.ID, &b.RFID, &b.BorrowerNo, &b.FirstName, &b.LastName, &b.Department, &b.Course, &b.Role, &b.Email, &b.ImagePath); err != nil {
			return nil, err
		}
		borrowers = append(borrowers, b)
	}
	return borrowers, rows.Err()
}

func (r *borrowerRepository) Archive(ctx context.Context, id int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `INSERT INTO archive_borrowers (rfid, borrower_no, first_name, last_name, department, course, role, email, image_path, archived_on)
	           SELECT rfid, borrower_no, first_name, last_name, department, course, role, email, image_path, $2
	           FROM borrowers WHERE user_id = $1`
	result, err := tx.ExecContext(ctx, insert, id, time.Now())
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	// The delete cascades to the borrower's transactions and staged
	// returns. Items still held by the borrower lose their open rows, so
	// their counters must be rewritten afterwards.
	openItems, err := openItemIDs(ctx, tx, id)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM borrowers WHERE user_id = $1`, id); err != nil {
		return err
	}

	for _, itemID := range openItems {
		if err := recomputeLedger(ctx, tx, itemID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func openItemIDs(ctx context.Context, tx *sql.Tx, borrowerID int32) ([]int32, error) {
	query := `SELECT DISTINCT item_id FROM transactions WHERE user_id = $1 AND returned_qty < borrowed_qty`
	rows, err := tx.QueryContext(ctx, query, borrowerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *borrowerRepository) Restore(ctx context.Context, archiveID int32) (*domain.Borrower, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	b := &domain.Borrower{}
	query := `SELECT rfid, borrower_no, first_name, last_name, COALESCE(department, ''), COALESCE(course, ''), role, COALESCE(email, ''), COALESCE(image_path, '')
	          FROM archive_borrowers WHERE archive_id = $1`
	err = tx.QueryRowContext(ctx, query, archiveID).Scan(&b.RFID, &b.BorrowerNo, &b.FirstName, &b.LastName, &b.Department, &b.Course, &b.Role, &b.Email, &b.ImagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	insert := `INSERT INTO borrowers (rfid, borrower_no, first_name, last_name, department, course, role, email, image_path)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING user_id`
	if err := tx.QueryRowContext(ctx, insert, b.RFID, b.BorrowerNo, b.FirstName, b.LastName, b.Department, b.Course, b.Role, b.Email, b.ImagePath).Scan(&b.ID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM archive_borrowers WHERE archive_id = $1`, archiveID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *borrowerRepository) ListArchived(ctx context.Context) ([]domain.ArchivedBorrower, error) {
	query := `SELECT archive_id, rfid, borrower_no, first_name, last_name, COALESCE(department, ''), COALESCE(course, ''), role, COALESCE(email, ''), COALESCE(image_path, ''), archived_on
	          FROM archive_borrowers ORDER BY archived_on DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var archived []domain.ArchivedBorrower
	for rows.Next() {
		var a domain.ArchivedBorrower
		if err := rows.Scan(&a.ArchiveID, &a.RFID, &a.BorrowerNo, &a.FirstName, &a.LastName, &a.Department, &a.Course, &a.Role, &a.Email, &a.ImagePath, &a.ArchivedOn); err != nil {
			return nil, err
		}
		archived = append(archived, a)
	}
	return archived, rows.Err()
}
