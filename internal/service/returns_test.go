package service

import (
	"context"
	"testing"
	"time"

	"lebs-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReturnService_Process(t *testing.T) {
	ctx := context.Background()
	borrower := &domain.Borrower{ID: 3, RFID: "CARD-3", FirstName: "Ana", LastName: "Lim"}
	claims := []domain.ReturnClaim{{ItemName: "Multimeter", Quantity: 2, Condition: "Good"}}

	t.Run("Success surfaces claimed versus credited", func(t *testing.T) {
		txRepo := new(MockTransactionRepo)
		borrowerRepo := new(MockBorrowerRepo)
		svc := NewReturnService(txRepo, new(MockPendingReturnRepo), borrowerRepo, stubSlips{}, stubEmail{})

		credited := []domain.CreditedItem{{ItemName: "Multimeter", Claimed: 2, Credited: 1, Condition: "Good"}}
		borrowerRepo.On("GetByRFID", ctx, "CARD-3").Return(borrower, nil)
		txRepo.On("ApplyReturns", ctx, int32(3), claims, mock.AnythingOfType("time.Time")).
			Return(credited, []int32{10}, nil)

		receipt, err := svc.Process(ctx, "CARD-3", claims, "Dana Cruz")

		assert.NoError(t, err)
		assert.Equal(t, "0000010", receipt.ReferenceNo)
		assert.Equal(t, credited, receipt.Items)
		assert.Equal(t, "Dana Cruz", receipt.StaffName)
		txRepo.AssertExpectations(t)
	})

	t.Run("nothing returned propagates", func(t *testing.T) {
		txRepo := new(MockTransactionRepo)
		borrowerRepo := new(MockBorrowerRepo)
		svc := NewReturnService(txRepo, new(MockPendingReturnRepo), borrowerRepo, stubSlips{}, stubEmail{})

		borrowerRepo.On("GetByRFID", ctx, "CARD-3").Return(borrower, nil)
		txRepo.On("ApplyReturns", ctx, int32(3), claims, mock.AnythingOfType("time.Time")).
			Return(nil, nil, domain.ErrNothingReturned)

		_, err := svc.Process(ctx, "CARD-3", claims, "Dana Cruz")
		assert.ErrorIs(t, err, domain.ErrNothingReturned)
	})

	t.Run("empty claims", func(t *testing.T) {
		svc := NewReturnService(new(MockTransactionRepo), new(MockPendingReturnRepo), new(MockBorrowerRepo), stubSlips{}, stubEmail{})

		_, err := svc.Process(ctx, "CARD-3", nil, "Dana Cruz")
		assert.ErrorIs(t, err, ErrNoClaims)
	})
}

func TestReturnService_Submit(t *testing.T) {
	ctx := context.Background()
	borrower := &domain.Borrower{ID: 3, RFID: "CARD-3"}
	claims := []domain.ReturnClaim{{ItemName: "Multimeter", Quantity: 2, Condition: "Good"}}

	t.Run("stages the claim untouched", func(t *testing.T) {
		pendingRepo := new(MockPendingReturnRepo)
		borrowerRepo := new(MockBorrowerRepo)
		svc := NewReturnService(new(MockTransactionRepo), pendingRepo, borrowerRepo, stubSlips{}, stubEmail{})

		borrowerRepo.On("GetByRFID", ctx, "CARD-3").Return(borrower, nil)
		pendingRepo.On("Create", ctx, mock.AnythingOfType("*domain.PendingReturn")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.PendingReturn).ID = 5
			}).Return(nil)

		pr, err := svc.Submit(ctx, "CARD-3", claims)

		assert.NoError(t, err)
		assert.Equal(t, int32(5), pr.ID)
		assert.Equal(t, int32(3), pr.BorrowerID)
		assert.Equal(t, claims, pr.Claims)
		assert.Equal(t, domain.PendingReturnStatusPending, pr.Status)
	})

	t.Run("unknown card", func(t *testing.T) {
		borrowerRepo := new(MockBorrowerRepo)
		svc := NewReturnService(new(MockTransactionRepo), new(MockPendingReturnRepo), borrowerRepo, stubSlips{}, stubEmail{})

		borrowerRepo.On("GetByRFID", ctx, "CARD-X").Return(nil, domain.ErrNotFound)

		_, err := svc.Submit(ctx, "CARD-X", claims)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReturnService_Approve(t *testing.T) {
	ctx := context.Background()
	borrower := &domain.Borrower{ID: 3, FirstName: "Ana", LastName: "Lim"}

	t.Run("Success builds a receipt from the reconciled rows", func(t *testing.T) {
		pendingRepo := new(MockPendingReturnRepo)
		borrowerRepo := new(MockBorrowerRepo)
		svc := NewReturnService(new(MockTransactionRepo), pendingRepo, borrowerRepo, stubSlips{}, stubEmail{})

		pr := &domain.PendingReturn{ID: 5, BorrowerID: 3, Status: domain.PendingReturnStatusApproved}
		credited := []domain.CreditedItem{{ItemName: "Multimeter", Claimed: 1, Credited: 1, Condition: "Good"}}
		pendingRepo.On("Approve", ctx, int32(5), mock.AnythingOfType("time.Time")).
			Return(pr, credited, []int32{10}, nil)
		borrowerRepo.On("GetByID", ctx, int32(3)).Return(borrower, nil)

		receipt, err := svc.Approve(ctx, 5, "Dana Cruz")

		assert.NoError(t, err)
		assert.Equal(t, "0000010", receipt.ReferenceNo)
		assert.Equal(t, borrower, receipt.Borrower)
		assert.Equal(t, credited, receipt.Items)
		pendingRepo.AssertExpectations(t)
	})

	t.Run("double approval conflicts", func(t *testing.T) {
		pendingRepo := new(MockPendingReturnRepo)
		svc := NewReturnService(new(MockTransactionRepo), pendingRepo, new(MockBorrowerRepo), stubSlips{}, stubEmail{})

		pendingRepo.On("Approve", ctx, int32(5), mock.AnythingOfType("time.Time")).
			Return(nil, nil, nil, domain.ErrAlreadyProcessed)

		_, err := svc.Approve(ctx, 5, "Dana Cruz")
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	})
}

func TestEmailService_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("recovers on a later attempt", func(t *testing.T) {
		mailer := new(MockMailer)
		svc := &emailService{mailer: mailer, backoff: time.Millisecond}

		mailer.On("Send", ctx, "ana@lab.edu", "Your login code", mock.AnythingOfType("string"), "").
			Return(assert.AnError).Twice()
		mailer.On("Send", ctx, "ana@lab.edu", "Your login code", mock.AnythingOfType("string"), "").
			Return(nil).Once()

		err := svc.SendOTP(ctx, "ana@lab.edu", "Ana Lim", "482913")
		assert.NoError(t, err)
		mailer.AssertExpectations(t)
	})

	t.Run("gives up after three failed attempts", func(t *testing.T) {
		mailer := new(MockMailer)
		svc := &emailService{mailer: mailer, backoff: time.Millisecond}

		mailer.On("Send", ctx, "ana@lab.edu", "Your login code", mock.AnythingOfType("string"), "").
			Return(assert.AnError).Times(emailMaxAttempts)

		err := svc.SendOTP(ctx, "ana@lab.edu", "Ana Lim", "482913")
		assert.Error(t, err)
		mailer.AssertExpectations(t)
	})
}
