package service

import (
	"context"
	"errors"
	"time"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/repository"
	"lebs-backend/internal/security"
)

type authService struct {
	adminRepo repository.AdminRepository
	email     EmailService
	tokens    security.TokenManager
	otpTTL    time.Duration
}

func NewAuthService(adminRepo repository.AdminRepository, email EmailService, tokens security.TokenManager, otpTTL time.Duration) AuthService {
	return &authService{
		adminRepo: adminRepo,
		email:     email,
		tokens:    tokens,
		otpTTL:    otpTTL,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !security.VerifyPassword(admin.PasswordHash, password) {
		return "", domain.ErrInvalidCredentials
	}

	code, err := security.GenerateOTP()
	if err != nil {
		return "", err
	}
	if err := s.adminRepo.SetOTP(ctx, admin.ID, code, time.Now().Add(s.otpTTL)); err != nil {
		return "", err
	}
	if err := s.email.SendOTP(ctx, admin.Email, admin.FullName(), code); err != nil {
		return "", err
	}

	return s.tokens.GenerateOTPToken(admin.ID, admin.Email)
}

func (s *authService) VerifyOTP(ctx context.Context, adminID int32, code string) (string, string, *domain.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return "", "", nil, err
	}
	if admin.OTP == nil || admin.OTPExpiry == nil {
		return "", "", nil, domain.ErrInvalidOTP
	}
	if *admin.OTP != code || time.Now().After(*admin.OTPExpiry) {
		return "", "", nil, domain.ErrInvalidOTP
	}

	if err := s.adminRepo.ClearOTP(ctx, admin.ID); err != nil {
		return "", "", nil, err
	}

	access, refresh, err := s.issueTokens(admin)
	return access, refresh, admin, err
}

func (s *authService) ResendOTP(ctx context.Context, adminID int32) error {
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}

	code, err := security.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.adminRepo.SetOTP(ctx, admin.ID, code, time.Now().Add(s.otpTTL)); err != nil {
		return err
	}
	return s.email.SendOTP(ctx, admin.Email, admin.FullName(), code)
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	admin, err := s.adminRepo.GetByID(ctx, claims.AdminID)
	if err != nil {
		return "", "", err
	}
	return s.issueTokens(admin)
}

func (s *authService) Signup(ctx context.Context, firstName, lastName, email, password string) error {
	// A live account wins over any staged signup for the same address.
	if _, err := s.adminRepo.GetByEmail(ctx, email); err == nil {
		return domain.ErrInvalidCredentials
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	code, err := security.GenerateOTP()
	if err != nil {
		return err
	}

	pending := &domain.PendingAdmin{
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		PasswordHash:     hash,
		VerificationCode: code,
	}
	if err := s.adminRepo.UpsertPending(ctx, pending); err != nil {
		return err
	}

	return s.email.SendVerificationCode(ctx, email, firstName+" "+lastName, code)
}

func (s *authService) VerifySignup(ctx context.Context, email, code string) (*domain.Admin, error) {
	return s.adminRepo.PromotePending(ctx, email, code)
}

func (s *authService) ResendSignupCode(ctx context.Context, email string) error {
	pending, err := s.adminRepo.GetPendingByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := security.GenerateOTP()
	if err != nil {
		return err
	}
	pending.VerificationCode = code
	if err := s.adminRepo.UpsertPending(ctx, pending); err != nil {
		return err
	}
	return s.email.SendVerificationCode(ctx, pending.Email, pending.FirstName+" "+pending.LastName, code)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// Do not reveal which addresses have accounts.
		return nil
	}
	if err != nil {
		return err
	}

	code, err := security.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.adminRepo.SetOTP(ctx, admin.ID, code, time.Now().Add(s.otpTTL)); err != nil {
		return err
	}
	return s.email.SendPasswordResetCode(ctx, admin.Email, admin.FullName(), code)
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return domain.ErrInvalidOTP
	}
	if admin.OTP == nil || admin.OTPExpiry == nil {
		return domain.ErrInvalidOTP
	}
	if *admin.OTP != code || time.Now().After(*admin.OTPExpiry) {
		return domain.ErrInvalidOTP
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.adminRepo.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return err
	}
	return s.adminRepo.ClearOTP(ctx, admin.ID)
}

func (s *authService) issueTokens(admin *domain.Admin) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(admin.ID, admin.Email, admin.FullName())
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(admin.ID, admin.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
