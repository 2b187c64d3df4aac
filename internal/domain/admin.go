package domain

import "time"

// Admin is a laboratory staff account. OTP and OTPExpiry hold the
// in-flight login code between the password step and the OTP step.
type Admin struct {
	ID           int32      `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	OTP          *string    `json:"-"`
	OTPExpiry    *time.Time `json:"-"`
	CreatedOn    time.Time  `json:"created_on"`
}

func (a *Admin) FullName() string {
	return a.FirstName + " " + a.LastName
}

// PendingAdmin is an unverified signup. The row is promoted into admins
// when the emailed verification code is confirmed, and purged by the
// maintenance job if it goes stale.
type PendingAdmin struct {
	ID               int32     `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	VerificationCode string    `json:"-"`
	CreatedOn        time.Time `json:"created_on"`
}
