package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/repository"
)

type pendingReturnRepository struct {
	db *sql.DB
}

func NewPendingReturnRepository(db *sql.DB) repository.PendingReturnRepository {
	return &pendingReturnRepository{db: db}
}

func (r *pendingReturnRepository) Create(ctx context.Context, pr *domain.PendingReturn) error {
	claims, err := json.Marshal(pr.Claims)
	if err != nil {
		return err
	}
	pr.Status = domain.PendingReturnStatusPending
	query := `INSERT INTO pending_returns (user_id, return_data, status, created_on)
	          VALUES ($1, $2, 'pending', $3) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, pr.BorrowerID, claims, now).Scan(&pr.ID); err != nil {
		return err
	}
	pr.CreatedOn = now
	return nil
}

func (r *pendingReturnRepository) GetByID(ctx context.Context, id int32) (*domain.PendingReturn, error) {
	pr := &domain.PendingReturn{}
	var claims []byte
	query := `SELECT id, user_id, return_data, status, created_on FROM pending_returns WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&pr.ID, &pr.BorrowerID, &claims, &pr.Status, &pr.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(claims, &pr.Claims); err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *pendingReturnRepository) ListPending(ctx context.Context) ([]domain.PendingReturn, error) {
	query := `SELECT id, user_id, return_data, status, created_on FROM pending_returns WHERE status = 'pending' ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []domain.PendingReturn
	for rows.Next() {
		var pr domain.PendingReturn
		var claims []byte
		if err := rows.Scan(&pr.ID, &pr.BorrowerID, &claims, &pr.Status, &pr.CreatedOn); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(claims, &pr.Claims); err != nil {
			return nil, err
		}
		pending = append(pending, pr)
	}
	return pending, rows.Err()
}

func (r *pendingReturnRepository) CountPending(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM pending_returns WHERE status = 'pending'`).Scan(&count)
	return count, err
}

// Approve consumes the staging row and runs the reconciler against the
// stored claims under one transaction. The row lock taken by the fetch
// serializes concurrent approvals; the loser finds the row gone and gets
// ErrAlreadyProcessed.
func (r *pendingReturnRepository) Approve(ctx context.Context, pendingID int32, returnedOn time.Time) (*domain.PendingReturn, []domain.CreditedItem, []int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	defer tx.Rollback()

	pr := &domain.PendingReturn{}
	var claims []byte
	fetch := `SELECT id, user_id, return_data, status, created_on FROM pending_returns WHERE id = $1 AND status = 'pending' FOR UPDATE`
	err = tx.QueryRowContext(ctx, fetch, pendingID).Scan(&pr.ID, &pr.BorrowerID, &claims, &pr.Status, &pr.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil, domain.ErrAlreadyProcessed
	}
	if err != nil {
		return nil, nil, nil, err
	}
	if err := json.Unmarshal(claims, &pr.Claims); err != nil {
		return nil, nil, nil, err
	}

	credited, ids, err := applyReturnsTx(ctx, tx, pr.BorrowerID, pr.Claims, returnedOn)
	if err != nil {
		return nil, nil, nil, err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM pending_returns WHERE id = $1 AND status = 'pending'`, pendingID)
	if err != nil {
		return nil, nil, nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, nil, nil, err
	}
	if n == 0 {
		return nil, nil, nil, domain.ErrAlreadyProcessed
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, nil, err
	}
	pr.Status = domain.PendingReturnStatusApproved
	return pr, credited, ids, nil
}

func (r *pendingReturnRepository) Decline(ctx context.Context, pendingID int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pending_returns WHERE id = $1 AND status = 'pending'`, pendingID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

func (r *pendingReturnRepository) DeclineStale(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pending_returns WHERE status = 'pending' AND created_on < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
