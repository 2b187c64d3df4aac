package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"lebs-backend/internal/security"
	"lebs-backend/internal/service"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Auth          service.AuthService
	Inventory     service.InventoryService
	Borrowers     service.BorrowerService
	Borrows       service.BorrowService
	Returns       service.ReturnService
	Reports       service.ReportService
	Tokens        security.TokenManager
	StagedReturns bool
	FilesDir      string
}

// NewRouter wires the full API. Three surfaces share it: the public auth
// endpoints, the token-guarded staff API, and the unauthenticated kiosk
// endpoints driven by RFID taps.
func NewRouter(cfg RouterConfig) *mux.Router {
	authHandler := NewAuthHandler(cfg.Auth)
	inventoryHandler := NewInventoryHandler(cfg.Inventory)
	borrowerHandler := NewBorrowerHandler(cfg.Borrowers)
	borrowHandler := NewBorrowHandler(cfg.Borrows)
	returnHandler := NewReturnHandler(cfg.Returns, cfg.StagedReturns)
	reportHandler := NewReportHandler(cfg.Reports)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	// Public auth endpoints
	auth := r.PathPrefix("/api/v1/auth").Subrouter()
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	auth.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	auth.HandleFunc("/signup/verify", authHandler.VerifySignup).Methods("POST")
	auth.HandleFunc("/signup/resend", authHandler.ResendSignupCode).Methods("POST")
	auth.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods("POST")
	auth.HandleFunc("/reset-password", authHandler.ResetPassword).Methods("POST")

	// OTP step, reachable only with the token from /login
	otp := r.PathPrefix("/api/v1/auth").Subrouter()
	otp.Use(AuthMiddleware(cfg.Tokens, security.TokenTypeOTPPending))
	otp.HandleFunc("/verify-otp", authHandler.VerifyOTP).Methods("POST")
	otp.HandleFunc("/resend-otp", authHandler.ResendOTP).Methods("POST")

	// Staff API
	staff := r.PathPrefix("/api/v1").Subrouter()
	staff.Use(AuthMiddleware(cfg.Tokens, security.TokenTypeAccess))

	staff.HandleFunc("/items", inventoryHandler.List).Methods("GET")
	staff.HandleFunc("/items", inventoryHandler.Create).Methods("POST")
	staff.HandleFunc("/items/archived", inventoryHandler.ListArchived).Methods("GET")
	staff.HandleFunc("/items/archived/{id}/restore", inventoryHandler.Restore).Methods("POST")
	staff.HandleFunc("/items/{id}", inventoryHandler.Get).Methods("GET")
	staff.HandleFunc("/items/{id}", inventoryHandler.Update).Methods("PUT")
	staff.HandleFunc("/items/{id}/archive", inventoryHandler.Archive).Methods("POST")

	staff.HandleFunc("/borrowers", borrowerHandler.List).Methods("GET")
	staff.HandleFunc("/borrowers", borrowerHandler.Create).Methods("POST")
	staff.HandleFunc("/borrowers/archived", borrowerHandler.ListArchived).Methods("GET")
	staff.HandleFunc("/borrowers/archived/{id}/restore", borrowerHandler.Restore).Methods("POST")
	staff.HandleFunc("/borrowers/{id}", borrowerHandler.Get).Methods("GET")
	staff.HandleFunc("/borrowers/{id}", borrowerHandler.Update).Methods("PUT")
	staff.HandleFunc("/borrowers/{id}/archive", borrowerHandler.Archive).Methods("POST")
	staff.HandleFunc("/borrowers/{id}/transactions", borrowHandler.ListByBorrower).Methods("GET")

	staff.HandleFunc("/borrows", borrowHandler.Issue).Methods("POST")
	staff.HandleFunc("/borrows/history", borrowHandler.History).Methods("GET")
	staff.HandleFunc("/borrows/{id}", borrowHandler.Get).Methods("GET")
	staff.HandleFunc("/returns", returnHandler.Process).Methods("POST")
	staff.HandleFunc("/returns/pending", returnHandler.ListPending).Methods("GET")
	staff.HandleFunc("/returns/pending/{id}", returnHandler.GetPending).Methods("GET")
	staff.HandleFunc("/returns/pending/{id}/approve", returnHandler.Approve).Methods("POST")
	staff.HandleFunc("/returns/pending/{id}/decline", returnHandler.Decline).Methods("POST")

	staff.HandleFunc("/reports/dashboard", reportHandler.Dashboard).Methods("GET")

	// Kiosk endpoints: no staff token, driven by card taps
	kiosk := r.PathPrefix("/api/v1/kiosk").Subrouter()
	kiosk.HandleFunc("/borrower", borrowerHandler.GetByRFID).Methods("GET")
	kiosk.HandleFunc("/open", borrowHandler.OpenByRFID).Methods("GET")
	kiosk.HandleFunc("/borrows", borrowHandler.KioskIssue).Methods("POST")
	kiosk.HandleFunc("/returns", returnHandler.KioskSubmit).Methods("POST")

	// Generated slips and photos
	if cfg.FilesDir != "" {
		r.PathPrefix("/files/").Handler(
			http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.FilesDir))))
	}

	return r
}
