package postgres

import (
	"context"
	"testing"
	"time"

	"lebs-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTransactionRepository_ApplyReturns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewTransactionRepository(db)
	ctx := context.Background()
	returnedOn := time.Now()

	t.Run("FIFO split across two rows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT t.borrow_id, t.item_id, t.borrowed_qty, t.returned_qty").
			WithArgs(int32(3), "Multimeter").
			WillReturnRows(sqlmock.NewRows([]string{"borrow_id", "item_id", "borrowed_qty", "returned_qty"}).
				AddRow(10, 7, 2, 0).
				AddRow(11, 7, 3, 0))
		mock.ExpectExec("UPDATE transactions").
			WithArgs(int32(2), "Good", returnedOn, int32(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE transactions").
			WithArgs(int32(2), "Good", returnedOn, int32(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE inventory").
			WithArgs(int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		credited, ids, err := repo.ApplyReturns(ctx, 3, []domain.ReturnClaim{
			{ItemName: "Multimeter", Quantity: 4, Condition: "Good"},
		}, returnedOn)

		assert.NoError(t, err)
		assert.Equal(t, []int32{10, 11}, ids)
		assert.Len(t, credited, 1)
		assert.Equal(t, int32(4), credited[0].Credited)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing matched is a rolled-back no-op", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT t.borrow_id, t.item_id, t.borrowed_qty, t.returned_qty").
			WithArgs(int32(3), "Multimeter").
			WillReturnRows(sqlmock.NewRows([]string{"borrow_id", "item_id", "borrowed_qty", "returned_qty"}))
		mock.ExpectRollback()

		credited, ids, err := repo.ApplyReturns(ctx, 3, []domain.ReturnClaim{
			{ItemName: "Multimeter", Quantity: 4, Condition: "Good"},
		}, returnedOn)

		assert.ErrorIs(t, err, domain.ErrNothingReturned)
		assert.Nil(t, credited)
		assert.Nil(t, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid quantities are skipped without touching rows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		credited, _, err := repo.ApplyReturns(ctx, 3, []domain.ReturnClaim{
			{ItemName: "Multimeter", Quantity: 0, Condition: "Good"},
			{ItemName: "Mallet", Quantity: -2, Condition: "Good"},
		}, returnedOn)

		assert.ErrorIs(t, err, domain.ErrNothingReturned)
		assert.Nil(t, credited)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure on second item rolls back the first", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT t.borrow_id, t.item_id, t.borrowed_qty, t.returned_qty").
			WithArgs(int32(3), "Multimeter").
			WillReturnRows(sqlmock.NewRows([]string{"borrow_id", "item_id", "borrowed_qty", "returned_qty"}).
				AddRow(10, 7, 2, 0))
		mock.ExpectExec("UPDATE transactions").
			WithArgs(int32(2), "Good", returnedOn, int32(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE inventory").
			WithArgs(int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT t.borrow_id, t.item_id, t.borrowed_qty, t.returned_qty").
			WithArgs(int32(3), "Mallet").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		credited, _, err := repo.ApplyReturns(ctx, 3, []domain.ReturnClaim{
			{ItemName: "Multimeter", Quantity: 2, Condition: "Good"},
			{ItemName: "Mallet", Quantity: 1, Condition: "Good"},
		}, returnedOn)

		assert.Error(t, err)
		assert.Nil(t, credited)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_IssueBorrow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewTransactionRepository(db)
	ctx := context.Background()
	issuedOn := time.Now()

	borrower := &domain.Borrower{ID: 3, RFID: "CARD-3"}
	instructor := &domain.Borrower{ID: 9, RFID: "CARD-9"}
	adminID := int32(1)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT item_id FROM inventory").
			WithArgs("Claw Hammer").
			WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(7))
		mock.ExpectExec("UPDATE inventory").
			WithArgs(int32(2), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(borrower.ID, &adminID, instructor.ID, instructor.RFID, "Physics Lab", "Room 402", borrower.RFID, int32(7), int32(2), issuedOn, "Good").
			WillReturnRows(sqlmock.NewRows([]string{"borrow_id"}).AddRow(41))
		mock.ExpectCommit()

		ids, err := repo.IssueBorrow(ctx, borrower, instructor, &adminID, "Physics Lab", "Room 402", []domain.BorrowLine{
			{ItemName: "Claw Hammer", Quantity: 2, BeforeCondition: "Good"},
		}, issuedOn)

		assert.NoError(t, err)
		assert.Equal(t, []int32{41}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient stock creates no rows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT item_id FROM inventory").
			WithArgs("Oscilloscope").
			WillReturnRows(sqlmock.NewRows([]string{"item_id"}).AddRow(27))
		mock.ExpectExec("UPDATE inventory").
			WithArgs(int32(5), int32(27)).
			WillReturnResult(sqlmock.NewResult(0, 0)) // guard failed
		mock.ExpectRollback()

		ids, err := repo.IssueBorrow(ctx, borrower, instructor, &adminID, "Physics Lab", "Room 402", []domain.BorrowLine{
			{ItemName: "Oscilloscope", Quantity: 5, BeforeCondition: "Good"},
		}, issuedOn)

		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Nil(t, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPendingReturnRepository_Approve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPendingReturnRepository(db)
	ctx := context.Background()
	returnedOn := time.Now()

	t.Run("Success consumes the staging row", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, user_id, return_data, status, created_on FROM pending_returns").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "return_data", "status", "created_on"}).
				AddRow(5, 3, []byte(`[{"item_name":"Multimeter","quantity":1,"condition":"Good"}]`), "pending", time.Now()))
		mock.ExpectQuery("SELECT t.borrow_id, t.item_id, t.borrowed_qty, t.returned_qty").
			WithArgs(int32(3), "Multimeter").
			WillReturnRows(sqlmock.NewRows([]string{"borrow_id", "item_id", "borrowed_qty", "returned_qty"}).
				AddRow(10, 7, 2, 0))
		mock.ExpectExec("UPDATE transactions").
			WithArgs(int32(1), "Good", returnedOn, int32(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE inventory").
			WithArgs(int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM pending_returns").
			WithArgs(int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		pr, credited, ids, err := repo.Approve(ctx, 5, returnedOn)

		assert.NoError(t, err)
		assert.Equal(t, domain.PendingReturnStatusApproved, pr.Status)
		assert.Len(t, credited, 1)
		assert.Equal(t, []int32{10}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second approval of the same row conflicts", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, user_id, return_data, status, created_on FROM pending_returns").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "return_data", "status", "created_on"})) // row gone
		mock.ExpectRollback()

		_, _, _, err := repo.Approve(ctx, 5, returnedOn)

		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
