package domain

import "time"

type PendingReturnStatus string

const (
	PendingReturnStatusPending  PendingReturnStatus = "pending"
	PendingReturnStatusApproved PendingReturnStatus = "approved"
	PendingReturnStatusDeclined PendingReturnStatus = "declined"
)

// ReturnClaim is one borrower-declared "I am returning N of item X" line.
type ReturnClaim struct {
	ItemName  string `json:"item_name"`
	Quantity  int32  `json:"quantity"`
	Condition string `json:"condition"`
}

// PendingReturn is a kiosk-submitted return claim awaiting an
// administrator decision. Approval runs the reconciler and deletes the
// row in one storage transaction; decline deletes it with no side
// effects. Both outcomes are terminal.
type PendingReturn struct {
	ID         int32               `json:"id"`
	BorrowerID int32               `json:"borrower_id"`
	Claims     []ReturnClaim       `json:"claims"`
	Status     PendingReturnStatus `json:"status"`
	CreatedOn  time.Time           `json:"created_on"`
}

// CreditedItem is one line of a return receipt: how much of a claim was
// actually applied against open transaction rows.
type CreditedItem struct {
	ItemName  string `json:"item_name"`
	Claimed   int32  `json:"claimed"`
	Credited  int32  `json:"credited"`
	Condition string `json:"condition"`
}

// ReturnReceipt summarizes a committed return for the slip and email.
type ReturnReceipt struct {
	ReferenceNo    string         `json:"reference_no"`
	TransactionIDs []int32        `json:"transaction_ids"`
	Borrower       *Borrower      `json:"borrower"`
	StaffName      string         `json:"staff_name"`
	ReturnedOn     time.Time      `json:"returned_on"`
	Items          []CreditedItem `json:"items"`
}
