package httpapi

import (
	"encoding/json"
	"net/http"
)

const msgInternalError = "Terjadi kesalahan internal server"

// msgLookupRejected is shared by not-found and forbidden lookup responses so
// the body never reveals whether a tracking code exists.
const msgLookupRejected = "Pengajuan tidak ditemukan atau data verifikasi tidak cocok"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"message": "Validasi gagal",
		"errors":  fields,
	})
}
