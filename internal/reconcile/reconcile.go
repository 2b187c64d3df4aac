// Package reconcile implements the allocation step of return processing:
// mapping a borrower's claimed return quantities onto their open
// transaction rows, oldest first. It is pure bookkeeping; the repository
// layer applies the resulting plan inside a storage transaction.
package reconcile

import "lebs-backend/internal/domain"

// OpenRow is the slice of a transaction row the allocator needs.
type OpenRow struct {
	TransactionID int32
	ItemID        int32
	BorrowedQty   int32
	ReturnedQty   int32
}

// RowCredit is one planned mutation: add Credit to the row's returned
// quantity and stamp the after-condition.
type RowCredit struct {
	TransactionID  int32
	ItemID         int32
	NewReturnedQty int32
	Credit         int32
	Condition      string
}

// Allocate walks open rows in the order given (callers pass them ordered
// by transaction id ascending) and credits the claim against each row's
// outstanding balance until the claim is satisfied. A claim larger than
// the total outstanding balance is truncated; the shortfall shows up as
// credited < claimed in the returned total.
func Allocate(claim domain.ReturnClaim, open []OpenRow) ([]RowCredit, int32) {
	if claim.Quantity <= 0 {
		return nil, 0
	}

	var credits []RowCredit
	remaining := claim.Quantity
	for _, row := range open {
		outstanding := row.BorrowedQty - row.ReturnedQty
		if outstanding <= 0 {
			continue
		}
		credit := remaining
		if outstanding < credit {
			credit = outstanding
		}
		credits = append(credits, RowCredit{
			TransactionID:  row.TransactionID,
			ItemID:         row.ItemID,
			NewReturnedQty: row.ReturnedQty + credit,
			Credit:         credit,
			Condition:      claim.Condition,
		})
		remaining -= credit
		if remaining == 0 {
			break
		}
	}
	return credits, claim.Quantity - remaining
}
