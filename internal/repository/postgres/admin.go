package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/repository"
)

type adminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `INSERT INTO admins (first_name, last_name, email, password, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING admin_id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, admin.FirstName, admin.LastName, admin.Email, admin.PasswordHash, now).Scan(&admin.ID); err != nil {
		return err
	}
	admin.CreatedOn = now
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int32) (*domain.Admin, error) {
	return r.get(ctx, `SELECT admin_id, first_name, last_name, email, password, otp, otp_expiry, created_on FROM admins WHERE admin_id = $1`, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.get(ctx, `SELECT admin_id, first_name, last_name, email, password, otp, otp_expiry, created_on FROM admins WHERE email = $1`, email)
}

func (r *adminRepository) get(ctx context.Context, query string, arg interface{}) (*domain.Admin, error) {
	a := &domain.Admin{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.OTP, &a.OTPExpiry, &a.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *adminRepository) SetOTP(ctx context.Context, adminID int32, code string, expiry time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET otp = $1, otp_expiry = $2 WHERE admin_id = $3`, code, expiry, adminID)
	return err
}

func (r *adminRepository) ClearOTP(ctx context.Context, adminID int32) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET otp = NULL, otp_expiry = NULL WHERE admin_id = $1`, adminID)
	return err
}

func (r *adminRepository) UpdatePassword(ctx context.Context, adminID int32, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET password = $1 WHERE admin_id = $2`, passwordHash, adminID)
	return err
}

// UpsertPending refreshes the staged signup when the email already has
// one, so resubmitting the form reissues a code instead of failing on
// the unique constraint.
func (r *adminRepository) UpsertPending(ctx context.Context, pending *domain.PendingAdmin) error {
	query := `INSERT INTO pending_admins (first_name, last_name, email, password, verification_code, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (email) DO UPDATE
	          SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
	              password = EXCLUDED.password, verification_code = EXCLUDED.verification_code,
	              created_on = EXCLUDED.created_on
	          RETURNING pending_id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, pending.FirstName, pending.LastName, pending.Email, pending.PasswordHash, pending.VerificationCode, now).Scan(&pending.ID); err != nil {
		return err
	}
	pending.CreatedOn = now
	return nil
}

func (r *adminRepository) GetPendingByEmail(ctx context.Context, email string) (*domain.PendingAdmin, error) {
	p := &domain.PendingAdmin{}
	query := `SELECT pending_id, first_name, last_name, email, password, verification_code, created_on FROM pending_admins WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash, &p.VerificationCode, &p.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PromotePending moves a verified signup from pending_admins into admins
// in one transaction.
func (r *adminRepository) PromotePending(ctx context.Context, email, code string) (*domain.Admin, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p := &domain.PendingAdmin{}
	fetch := `SELECT pending_id, first_name, last_name, email, password FROM pending_admins WHERE email = $1 AND verification_code = $2 FOR UPDATE`
	err = tx.QueryRowContext(ctx, fetch, email, code).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvalidOTP
	}
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
	}
	insert := `INSERT INTO admins (first_name, last_name, email, password, created_on) VALUES ($1, $2, $3, $4, $5) RETURNING admin_id`
	now := time.Now()
	if err := tx.QueryRowContext(ctx, insert, admin.FirstName, admin.LastName, admin.Email, admin.PasswordHash, now).Scan(&admin.ID); err != nil {
		return nil, err
	}
	admin.CreatedOn = now

	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_admins WHERE pending_id = $1`, p.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *adminRepository) DeleteStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pending_admins WHERE created_on < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
