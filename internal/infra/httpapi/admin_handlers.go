package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"layanan_publik_tracker/internal/app"
	"layanan_publik_tracker/internal/domain/submission"
	idb "layanan_publik_tracker/internal/infra/database"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type submissionResponse struct {
	ID           string    `json:"id"`
	TrackingCode string    `json:"tracking_code"`
	Nama         string    `json:"nama"`
	NIK          string    `json:"nik"`
	Email        *string   `json:"email"`
	NoWA         string    `json:"no_wa"`
	JenisLayanan string    `json:"jenis_layanan"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toSubmissionResponse(s *submission.Submission) submissionResponse {
	var email *string
	if s.Email.Valid {
		email = &s.Email.String
	}
	return submissionResponse{
		ID:           s.ID.String(),
		TrackingCode: s.TrackingCode,
		Nama:         s.Nama,
		NIK:          s.NIK,
		Email:        email,
		NoWA:         s.NoWA,
		JenisLayanan: string(s.JenisLayanan),
		Status:       string(s.Status),
		StatusLabel:  s.Status.Label(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	filter := submission.ListFilter{
		Status:       submission.Status(r.URL.Query().Get("status")),
		JenisLayanan: submission.ServiceType(r.URL.Query().Get("jenis_layanan")),
		OrderAsc:     r.URL.Query().Get("order") == "asc",
	}

	subs, err := s.submissions.List(r.Context(), filter)
	if err != nil {
		s.logger.Errorf("Error listing submissions: %v", err)
		writeMessage(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	responses := make([]submissionResponse, 0, len(subs))
	for _, sub := range subs {
		responses = append(responses, toSubmissionResponse(sub))
	}
	writeJSON(w, http.StatusOK, responses)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "ID pengajuan tidak valid")
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body permintaan tidak valid")
		return
	}

	result, err := s.submissions.Transition(r.Context(), id, submission.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidStatus):
			writeMessage(w, http.StatusBadRequest, "Status tidak valid")
		case errors.Is(err, app.ErrSameStatus):
			writeMessage(w, http.StatusBadRequest, "Status tidak berubah")
		case errors.Is(err, idb.ErrSubmissionNotFound):
			writeMessage(w, http.StatusNotFound, "Pengajuan tidak ditemukan")
		default:
			s.logger.Errorf("Error updating submission %s status: %v", id, err)
			writeMessage(w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"old_status": result.OldStatus,
		"new_status": result.NewStatus,
	})
}

type bulkStatusRequest struct {
	SubmissionIDs []string `json:"submissionIds"`
	Status        string   `json:"status"`
}

func (s *Server) handleBulkStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body permintaan tidak valid")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.SubmissionIDs))
	for _, raw := range req.SubmissionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("ID pengajuan tidak valid: %s", raw))
			return
		}
		ids = append(ids, id)
	}

	updated, err := s.submissions.TransitionBulk(r.Context(), ids, submission.Status(req.Status))
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.Is(err, app.ErrInvalidStatus):
			writeMessage(w, http.StatusBadRequest, "Status tidak valid")
		case errors.As(err, &verr):
			writeFieldErrors(w, verr.Fields)
		default:
			s.logger.Errorf("Error in bulk status update: %v", err)
			writeMessage(w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"updated_count": updated,
		"status":        req.Status,
		"message":       fmt.Sprintf("%d pengajuan berhasil diupdate", updated),
	})
}
