package http

import (
	"net/http"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/service"
)

type ReturnHandler struct {
	returns       service.ReturnService
	stagedReturns bool
}

func NewReturnHandler(returns service.ReturnService, stagedReturns bool) *ReturnHandler {
	return &ReturnHandler{returns: returns, stagedReturns: stagedReturns}
}

type returnRequest struct {
	BorrowerRFID string               `json:"borrower_rfid"`
	Claims       []domain.ReturnClaim `json:"claims"`
}

// Process applies a return immediately at the staff counter.
func (h *ReturnHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if !decodeBody(w, r, &req) {
		return
	}

	claims := StaffFromContext(r.Context())
	receipt, err := h.returns.Process(r.Context(), req.BorrowerRFID, req.Claims, claims.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// KioskSubmit stages a self-service return claim for staff review. When
// staging is disabled the kiosk return surface is off entirely.
func (h *ReturnHandler) KioskSubmit(w http.ResponseWriter, r *http.Request) {
	if !h.stagedReturns {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "self-service returns are disabled"})
		return
	}

	var req returnRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pr, err := h.returns.Submit(r.Context(), req.BorrowerRFID, req.Claims)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, pr)
}

func (h *ReturnHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.returns.ListPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *ReturnHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	pr, err := h.returns.GetPending(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pr)
}

func (h *ReturnHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	claims := StaffFromContext(r.Context())
	receipt, err := h.returns.Approve(r.Context(), id, claims.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *ReturnHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.returns.Decline(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}
