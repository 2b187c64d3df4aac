package domain

import (
	"fmt"
	"time"
)

// Transaction is one borrow event line: one row per item issued. The row
// stays open until ReturnedQty reaches BorrowedQty; partial returns move
// ReturnedQty in steps and the reconciler may split one claimed return
// across several rows.
type Transaction struct {
	ID              int32      `json:"id"`
	BorrowerID      int32      `json:"borrower_id"`
	AdminID         *int32     `json:"admin_id,omitempty"` // nil for kiosk-issued rows
	InstructorID    int32      `json:"instructor_id"`
	InstructorRFID  string     `json:"instructor_rfid"`
	Subject         string     `json:"subject"`
	Room            string     `json:"room"`
	RFID            string     `json:"rfid"`
	ItemID          int32      `json:"item_id"`
	BorrowedQty     int32      `json:"borrowed_qty"`
	ReturnedQty     int32      `json:"returned_qty"`
	BorrowedOn      time.Time  `json:"borrowed_on"`
	BeforeCondition string     `json:"before_condition"`
	AfterCondition  string     `json:"after_condition"`
	ReturnedOn      *time.Time `json:"returned_on,omitempty"`
}

// Open reports whether the row still has units out.
func (t *Transaction) Open() bool {
	return t.ReturnedQty < t.BorrowedQty
}

// Outstanding is the number of units not yet returned on this row.
func (t *Transaction) Outstanding() int32 {
	return t.BorrowedQty - t.ReturnedQty
}

// ReferenceNo formats a transaction id the way slips print it.
func ReferenceNo(id int32) string {
	return fmt.Sprintf("%07d", id)
}

// BorrowLine is one requested item on an issue submission.
type BorrowLine struct {
	ItemName        string `json:"item_name"`
	Quantity        int32  `json:"quantity"`
	BeforeCondition string `json:"before_condition"`
}

// BorrowReceipt summarizes a committed issue for the slip and email.
type BorrowReceipt struct {
	ReferenceNo    string       `json:"reference_no"`
	TransactionIDs []int32      `json:"transaction_ids"`
	Borrower       *Borrower    `json:"borrower"`
	Instructor     *Borrower    `json:"instructor"`
	StaffName      string       `json:"staff_name"`
	Subject        string       `json:"subject"`
	Room           string       `json:"room"`
	IssuedOn       time.Time    `json:"issued_on"`
	Lines          []BorrowLine `json:"lines"`
}
