package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/reconcile"
	"lebs-backend/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) IssueBorrow(ctx context.Context, borrower *domain.Borrower, instructor *domain.Borrower, adminID *int32, subject, room string, lines []domain.BorrowLine, issuedOn time.Time) ([]int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ids []int32
	for _, line := range lines {
		var itemID int32
		err := tx.QueryRowContext(ctx, `SELECT item_id FROM inventory WHERE item_name = $1`, line.ItemName).Scan(&itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if err != nil {
			return nil, err
		}

		// Conditional reservation: the guard and the increment are one
		// statement, so two concurrent issues cannot both take the last
		// unit.
		reserve := `UPDATE inventory
		            SET borrowed = borrowed + $1,
		                status = CASE WHEN borrowed + $1 < quantity THEN 'Available' ELSE 'Unavailable' END
		            WHERE item_id = $2 AND borrowed + $1 <= quantity`
		result, err := tx.ExecContext(ctx, reserve, line.Quantity, itemID)
		if err != nil {
			return nil, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, domain.ErrInsufficientStock
		}

		insert := `INSERT INTO transactions (user_id, admin_id, instructor_id, instructor_rfid, subject, room, rfid, item_id, borrowed_qty, returned_qty, borrowed_on, before_condition)
		           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11) RETURNING borrow_id`
		var id int32
		if err := tx.QueryRowContext(ctx, insert, borrower.ID, adminID, instructor.ID, instructor.RFID, subject, room, borrower.RFID, itemID, line.Quantity, issuedOn, line.BeforeCondition).Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *transactionRepository) ApplyReturns(ctx context.Context, borrowerID int32, claims []domain.ReturnClaim, returnedOn time.Time) ([]domain.CreditedItem, []int32, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	credited, ids, err := applyReturnsTx(ctx, tx, borrowerID, claims, returnedOn)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return credited, ids, nil
}

// applyReturnsTx is the reconciler commit path, shared with pending-return
// approval so both run under the caller's transaction boundary. All row
// mutations for one submission either commit together or not at all.
func applyReturnsTx(ctx context.Context, tx *sql.Tx, borrowerID int32, claims []domain.ReturnClaim, returnedOn time.Time) ([]domain.CreditedItem, []int32, error) {
	var credited []domain.CreditedItem
	var touchedIDs []int32

	for _, claim := range claims {
		// Lenient per-row policy: a non-positive quantity contributes
		// nothing and fails nothing.
		if claim.Quantity <= 0 || claim.ItemName == "" {
			continue
		}

		open, err := lockOpenRows(ctx, tx, borrowerID, claim.ItemName)
		if err != nil {
			return nil, nil, err
		}
		if len(open) == 0 {
			continue
		}
		itemID := open[0].ItemID

		credits, total := reconcile.Allocate(claim, open)
		if total == 0 {
			continue
		}

		for _, c := range credits {
			update := `UPDATE transactions
			           SET returned_qty = $1, after_condition = $2, returned_on = $3
			           WHERE borrow_id = $4`
			if _, err := tx.ExecContext(ctx, update, c.NewReturnedQty, c.Condition, returnedOn, c.TransactionID); err != nil {
				return nil, nil, err
			}
			touchedIDs = append(touchedIDs, c.TransactionID)
		}

		if err := recomputeLedger(ctx, tx, itemID); err != nil {
			return nil, nil, err
		}

		credited = append(credited, domain.CreditedItem{
			ItemName:  claim.ItemName,
			Claimed:   claim.Quantity,
			Credited:  total,
			Condition: claim.Condition,
		})
	}

	if len(credited) == 0 {
		return nil, nil, domain.ErrNothingReturned
	}
	return credited, touchedIDs, nil
}

// lockOpenRows fetches the borrower's open rows for one item, oldest
// first, locked for the rest of the transaction.
func lockOpenRows(ctx context.Context, tx *sql.Tx, borrowerID int32, itemName string) ([]reconcile.OpenRow, error) {
	query := `SELECT t.borrow_id, t.item_id, t.borrowed_qty, t.returned_qty
	          FROM transactions t
	          JOIN inventory i ON t.item_id = i.item_id
	          WHERE t.user_id = $1 AND i.item_name = $2 AND t.returned_qty < t.borrowed_qty
	          ORDER BY t.borrow_id ASC
	          FOR UPDATE OF t`
	rows, err := tx.QueryContext(ctx, query, borrowerID, itemName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var open []reconcile.OpenRow
	for rows.Next() {
		var row reconcile.OpenRow
		if err := rows.Scan(&row.TransactionID, &row.ItemID, &row.BorrowedQty, &row.ReturnedQty); err != nil {
			return nil, err
		}
		open = append(open, row)
	}
	return open, rows.Err()
}

// recomputeLedger rewrites the item's borrowed counter from the open
// transaction rows in one statement, so concurrent reconciler runs can
// never lose an update.
func recomputeLedger(ctx context.Context, tx *sql.Tx, itemID int32) error {
	query := `UPDATE inventory
	          SET borrowed = GREATEST((SELECT COALESCE(SUM(borrowed_qty - returned_qty), 0) FROM transactions WHERE item_id = $1), 0),
	              status = CASE
	                  WHEN GREATEST((SELECT COALESCE(SUM(borrowed_qty - returned_qty), 0) FROM transactions WHERE item_id = $1), 0) < quantity THEN 'Available'
	                  ELSE 'Unavailable'
	              END
	          WHERE item_id = $1`
	_, err := tx.ExecContext(ctx, query, itemID)
	return err
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	query := `SELECT borrow_id, user_id, admin_id, instructor_id, instructor_rfid, subject, room, rfid, item_id, borrowed_qty, returned_qty, borrowed_on, COALESCE(before_condition, ''), COALESCE(after_condition, ''), returned_on
	          FROM transactions WHERE borrow_id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.BorrowerID, &t.AdminID, &t.InstructorID, &t.InstructorRFID, &t.Subject, &t.Room, &t.RFID, &t.ItemID, &t.BorrowedQty, &t.ReturnedQty, &t.BorrowedOn, &t.BeforeCondition, &t.AfterCondition, &t.ReturnedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *transactionRepository) ListByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error) {
	query := `SELECT borrow_id, user_id, admin_id, instructor_id, instructor_rfid, subject, room, rfid, item_id, borrowed_qty, returned_qty, borrowed_on, COALESCE(before_condition, ''), COALESCE(after_condition, ''), returned_on
	          FROM transactions WHERE user_id = $1 ORDER BY borrow_id DESC`
	return r.queryTransactions(ctx, query, borrowerID)
}

func (r *transactionRepository) ListOpenByBorrower(ctx context.Context, borrowerID int32) ([]domain.Transaction, error) {
	query := `SELECT borrow_id, user_id, admin_id, instructor_id, instructor_rfid, subject, room, rfid, item_id, borrowed_qty, returned_qty, borrowed_on, COALESCE(before_condition, ''), COALESCE(after_condition, ''), returned_on
	          FROM transactions WHERE user_id = $1 AND returned_qty < borrowed_qty ORDER BY borrow_id ASC`
	return r.queryTransactions(ctx, query, borrowerID)
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.BorrowerID, &t.AdminID, &t.InstructorID, &t.InstructorRFID, &t.Subject, &t.Room, &t.RFID, &t.ItemID, &t.BorrowedQty, &t.ReturnedQty, &t.BorrowedOn, &t.BeforeCondition, &t.AfterCondition, &t.ReturnedOn); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *transactionRepository) CountOpen(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE returned_qty < borrowed_qty`).Scan(&count)
	return count, err
}

func (r *transactionRepository) SumBorrowedBetween(ctx context.Context, from, to time.Time) (int32, error) {
	var sum int32
	query := `SELECT COALESCE(SUM(borrowed_qty), 0) FROM transactions WHERE borrowed_on >= $1 AND borrowed_on < $2`
	err := r.db.QueryRowContext(ctx, query, from, to).Scan(&sum)
	return sum, err
}

func (r *transactionRepository) History(ctx context.Context, limit int32) ([]domain.Transaction, error) {
	query := `SELECT borrow_id, user_id, admin_id, instructor_id, instructor_rfid, subject, room, rfid, item_id, borrowed_qty, returned_qty, borrowed_on, COALESCE(before_condition, ''), COALESCE(after_condition, ''), returned_on
	          FROM transactions ORDER BY borrowed_on DESC LIMIT $1`
	return r.queryTransactions(ctx, query, limit)
}
