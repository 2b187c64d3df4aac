package reconcile

import (
	"testing"

	"lebs-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestAllocate_FIFO(t *testing.T) {
	// Two open rows for the same borrower+item, outstanding 2 and 3,
	// oldest first. A claim of 4 must close the oldest row fully and
	// credit 2 against the second, leaving outstanding 1 there.
	open := []OpenRow{
		{TransactionID: 10, ItemID: 7, BorrowedQty: 2, ReturnedQty: 0},
		{TransactionID: 11, ItemID: 7, BorrowedQty: 3, ReturnedQty: 0},
	}

	credits, credited := Allocate(domain.ReturnClaim{ItemName: "Multimeter", Quantity: 4, Condition: "Good"}, open)

	assert.Equal(t, int32(4), credited)
	assert.Len(t, credits, 2)
	assert.Equal(t, int32(10), credits[0].TransactionID)
	assert.Equal(t, int32(2), credits[0].Credit)
	assert.Equal(t, int32(2), credits[0].NewReturnedQty)
	assert.Equal(t, int32(11), credits[1].TransactionID)
	assert.Equal(t, int32(2), credits[1].Credit)
	assert.Equal(t, int32(2), credits[1].NewReturnedQty) // outstanding 1 remains
}

func TestAllocate_NoOverCredit(t *testing.T) {
	open := []OpenRow{
		{TransactionID: 1, ItemID: 3, BorrowedQty: 3, ReturnedQty: 1},
	}

	credits, credited := Allocate(domain.ReturnClaim{Quantity: 10, Condition: "Good"}, open)

	// Over-return is truncated to the outstanding balance, and no row is
	// pushed past its borrowed quantity.
	assert.Equal(t, int32(2), credited)
	assert.Len(t, credits, 1)
	assert.LessOrEqual(t, credits[0].NewReturnedQty, int32(3))
	assert.Equal(t, int32(3), credits[0].NewReturnedQty)
}

func TestAllocate_InvalidQuantitySkipped(t *testing.T) {
	open := []OpenRow{
		{TransactionID: 1, ItemID: 3, BorrowedQty: 2, ReturnedQty: 0},
	}

	for _, qty := range []int32{0, -1} {
		credits, credited := Allocate(domain.ReturnClaim{Quantity: qty}, open)
		assert.Nil(t, credits)
		assert.Equal(t, int32(0), credited)
	}
}

func TestAllocate_SkipsClosedRows(t *testing.T) {
	open := []OpenRow{
		{TransactionID: 1, ItemID: 3, BorrowedQty: 2, ReturnedQty: 2}, // closed
		{TransactionID: 2, ItemID: 3, BorrowedQty: 2, ReturnedQty: 0},
	}

	credits, credited := Allocate(domain.ReturnClaim{Quantity: 1, Condition: "Good"}, open)

	assert.Equal(t, int32(1), credited)
	assert.Len(t, credits, 1)
	assert.Equal(t, int32(2), credits[0].TransactionID)
}

func TestAllocate_StopsEarlyWhenSatisfied(t *testing.T) {
	open := []OpenRow{
		{TransactionID: 1, ItemID: 3, BorrowedQty: 5, ReturnedQty: 0},
		{TransactionID: 2, ItemID: 3, BorrowedQty: 5, ReturnedQty: 0},
	}

	credits, credited := Allocate(domain.ReturnClaim{Quantity: 3, Condition: "Good"}, open)

	assert.Equal(t, int32(3), credited)
	assert.Len(t, credits, 1)
	assert.Equal(t, int32(3), credits[0].NewReturnedQty)
}

func TestAllocate_ConcreteScenario(t *testing.T) {
	// Item X: quantity 5, borrowed 5. T1 (borrowed 3) older than T2
	// (borrowed 2). Claim of 4: T1 closes at 3, T2 moves to 1 returned,
	// so the recomputed ledger is 5-4=1 outstanding and the item flips
	// back to Available.
	open := []OpenRow{
		{TransactionID: 1, ItemID: 9, BorrowedQty: 3, ReturnedQty: 0},
		{TransactionID: 2, ItemID: 9, BorrowedQty: 2, ReturnedQty: 0},
	}

	credits, credited := Allocate(domain.ReturnClaim{ItemName: "Oscilloscope", Quantity: 4, Condition: "Good"}, open)

	assert.Equal(t, int32(4), credited)
	assert.Equal(t, int32(3), credits[0].NewReturnedQty)
	assert.Equal(t, int32(1), credits[1].NewReturnedQty)

	var outstanding int32
	for i, row := range open {
		outstanding += row.BorrowedQty - credits[i].NewReturnedQty
	}
	assert.Equal(t, int32(1), outstanding)
}
