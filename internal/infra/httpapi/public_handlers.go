package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"layanan_publik_tracker/internal/app"
	idb "layanan_publik_tracker/internal/infra/database"

	"github.com/go-chi/chi/v5"
)

type createSubmissionRequest struct {
	Nama         string `json:"nama"`
	NIK          string `json:"nik"`
	Email        string `json:"email"`
	NoWA         string `json:"no_wa"`
	JenisLayanan string `json:"jenis_layanan"`
	Consent      bool   `json:"consent"`
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Body permintaan tidak valid")
		return
	}

	result, err := s.submissions.Create(r.Context(), app.CreateInput{
		Nama:         req.Nama,
		NIK:          req.NIK,
		Email:        req.Email,
		NoWA:         req.NoWA,
		JenisLayanan: req.JenisLayanan,
		Consent:      req.Consent,
	})
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			writeFieldErrors(w, verr.Fields)
		case errors.Is(err, app.ErrTrackingCodeConflict):
			writeMessage(w, http.StatusConflict, "Gagal membuat kode tracking unik, silakan coba lagi")
		default:
			s.logger.Errorf("Error creating submission: %v", err)
			writeMessage(w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":       true,
		"tracking_code": result.TrackingCode,
		"message":       "Pengajuan berhasil dibuat",
	})
}

type statusViewResponse struct {
	TrackingCode      string    `json:"tracking_code"`
	Nama              string    `json:"nama"`
	JenisLayanan      string    `json:"jenis_layanan"`
	JenisLayananLabel string    `json:"jenis_layanan_label"`
	Status            string    `json:"status"`
	StatusLabel       string    `json:"status_label"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (s *Server) handleCheckStatus(w http.ResponseWriter, r *http.Request) {
	trackingCode := chi.URLParam(r, "trackingCode")
	last4 := r.URL.Query().Get("last4_nik")

	view, err := s.lookup.Check(r.Context(), trackingCode, last4)
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			writeFieldErrors(w, verr.Fields)
		case errors.Is(err, idb.ErrSubmissionNotFound):
			writeMessage(w, http.StatusNotFound, msgLookupRejected)
		case errors.Is(err, app.ErrForbidden):
			writeMessage(w, http.StatusForbidden, msgLookupRejected)
		default:
			s.logger.Errorf("Error checking submission status: %v", err)
			writeMessage(w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	writeJSON(w, http.StatusOK, statusViewResponse{
		TrackingCode:      view.TrackingCode,
		Nama:              view.Nama,
		JenisLayanan:      string(view.JenisLayanan),
		JenisLayananLabel: view.JenisLayananLabel,
		Status:            string(view.Status),
		StatusLabel:       view.StatusLabel,
		CreatedAt:         view.CreatedAt,
		UpdatedAt:         view.UpdatedAt,
	})
}
