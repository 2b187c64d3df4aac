package domain

import "time"

type BorrowerRole string

const (
	BorrowerRoleStudent    BorrowerRole = "Student"
	BorrowerRoleInstructor BorrowerRole = "Instructor"
	BorrowerRoleStaff      BorrowerRole = "Staff"
)

// Borrower is an RFID-badged member of the lab. Instructors double as the
// authorizing party on borrow transactions.
type Borrower struct {
	ID         int32        `json:"id"`
	RFID       string       `json:"rfid"`
	BorrowerNo string       `json:"borrower_no"` // school-issued ID printed on slips
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Department string       `json:"department"`
	Course     string       `json:"course"`
	Role       BorrowerRole `json:"role"`
	Email      string       `json:"email"`
	ImagePath  string       `json:"image_path,omitempty"`
}

func (b *Borrower) FullName() string {
	return b.FirstName + " " + b.LastName
}

type ArchivedBorrower struct {
	ArchiveID  int32        `json:"archive_id"`
	RFID       string       `json:"rfid"`
	BorrowerNo string       `json:"borrower_no"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Department string       `json:"department"`
	Course     string       `json:"course"`
	Role       BorrowerRole `json:"role"`
	Email      string       `json:"email"`
	ImagePath  string       `json:"image_path,omitempty"`
	ArchivedOn time.Time    `json:"archived_on"`
}
