package http

import (
	"net/http"

	"lebs-backend/internal/domain"
	"lebs-backend/internal/service"
)

type BorrowerHandler struct {
	borrowers service.BorrowerService
}

func NewBorrowerHandler(borrowers service.BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{borrowers: borrowers}
}

func (h *BorrowerHandler) List(w http.ResponseWriter, r *http.Request) {
	borrowers, err := h.borrowers.ListBorrowers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, borrowers)
}

func (h *BorrowerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.borrowers.GetBorrower(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// GetByRFID resolves a tapped card to its borrower. The kiosk calls this
// before showing the cart screen.
func (h *BorrowerHandler) GetByRFID(w http.ResponseWriter, r *http.Request) {
	rfid := r.URL.Query().Get("rfid")
	if rfid == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "rfid is required"})
		return
	}
	b, err := h.borrowers.GetBorrowerByRFID(r.Context(), rfid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BorrowerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b domain.Borrower
	if !decodeBody(w, r, &b) {
		return
	}
	if b.RFID == "" || b.FirstName == "" || b.LastName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "rfid, first name and last name are required"})
		return
	}

	if err := h.borrowers.AddBorrower(r.Context(), &b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BorrowerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var b domain.Borrower
	if !decodeBody(w, r, &b) {
		return
	}
	b.ID = id

	if err := h.borrowers.UpdateBorrower(r.Context(), &b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BorrowerHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.borrowers.ArchiveBorrower(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

func (h *BorrowerHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.borrowers.RestoreBorrower(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BorrowerHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	archived, err := h.borrowers.ListArchivedBorrowers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, archived)
}
