package http

import (
	"net/http"
	"strconv"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/service"
)

type BorrowHandler struct {
	borrows service.BorrowService
}

func NewBorrowHandler(borrows service.BorrowService) *BorrowHandler {
	return &BorrowHandler{borrows: borrows}
}

type issueRequest struct {
	BorrowerRFID   string              `json:"borrower_rfid"`
	InstructorRFID string              `json:"instructor_rfid"`
	Subject        string              `json:"subject"`
	Room           string              `json:"room"`
	Lines          []domain.BorrowLine `json:"lines"`
}

// Issue commits a borrow at the staff counter. The staff identity from
// the access token is recorded on the transaction rows and the slip.
func (h *BorrowHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	claims := StaffFromContext(r.Context())
	receipt, err := h.borrows.Issue(r.Context(), service.IssueRequest{
		BorrowerRFID:   req.BorrowerRFID,
		InstructorRFID: req.InstructorRFID,
		AdminID:        &claims.AdminID,
		StaffName:      claims.Name,
		Subject:        req.Subject,
		Room:           req.Room,
		Lines:          req.Lines,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// KioskIssue commits a self-service borrow. No staff token is involved;
// the instructor card is the authorization.
func (h *BorrowHandler) KioskIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := h.borrows.Issue(r.Context(), service.IssueRequest{
		BorrowerRFID:   req.BorrowerRFID,
		InstructorRFID: req.InstructorRFID,
		Subject:        req.Subject,
		Room:           req.Room,
		Lines:          req.Lines,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// Get returns a single transaction row, used by the slip reprint screen.
func (h *BorrowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tx, err := h.borrows.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *BorrowHandler) ListByBorrower(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	txs, err := h.borrows.ListByBorrower(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// OpenByRFID lists a borrower's outstanding items, keyed by card tap.
func (h *BorrowHandler) OpenByRFID(w http.ResponseWriter, r *http.Request) {
	rfid := r.URL.Query().Get("rfid")
	if rfid == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "rfid is required"})
		return
	}

	borrower, open, err := h.borrows.ListOpenByRFID(r.Context(), rfid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"borrower":     borrower,
		"transactions": open,
	})
}

func (h *BorrowHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := int64(100)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	txs, err := h.borrows.History(r.Context(), int32(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
