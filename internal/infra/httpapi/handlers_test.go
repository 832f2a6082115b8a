package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"layanan_publik_tracker/internal/app"
	"layanan_publik_tracker/internal/domain/notification"
	idb "layanan_publik_tracker/internal/infra/database"
	"layanan_publik_tracker/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "test-admin-token"

// noopSender satisfies notification.Sender without talking to any provider.
type noopSender struct {
	channel notification.Channel
}

func (s noopSender) Channel() notification.Channel { return s.channel }

func (s noopSender) Send(context.Context, notification.Message) (string, error) {
	return "MSG-" + string(s.channel), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	subs := idb.NewMemorySubmissionRepository()
	logs := idb.NewMemoryNotificationLogRepository()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	notifier := app.NewNotifier(
		logs,
		noopSender{channel: notification.ChannelWhatsApp},
		noopSender{channel: notification.ChannelEmail},
		m, logger, "http://localhost:8080", time.Second,
	)
	service := app.NewSubmissionService(subs, notifier, m, logger)
	lookup := app.NewLookupService(subs, logger)

	server := NewServer(service, lookup, logger, testAdminToken)
	return server.NewRouter(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"nama":          "Budi",
		"nik":           "1234567890123456",
		"no_wa":         "081234567890",
		"jenis_layanan": "KTP",
		"consent":       true,
	}
}

// createViaAPI submits a valid request and returns the tracking code.
func createViaAPI(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/submissions", validCreateBody(), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	code, _ := body["tracking_code"].(string)
	require.NotEmpty(t, code)
	return code
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSubmissionEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/submissions", validCreateBody(), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Pengajuan berhasil dibuat", body["message"])
	assert.Regexp(t, regexp.MustCompile(`^LYN-\d{8}-\d{5}$`), body["tracking_code"])
}

func TestCreateSubmissionEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/submissions", map[string]interface{}{
		"nama": "", "nik": "123", "no_wa": "555", "jenis_layanan": "", "consent": false,
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Validasi gagal", body["message"])
	fields, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Nama wajib diisi", fields["nama"])
	assert.Equal(t, "NIK harus 16 digit", fields["nik"])
	assert.Contains(t, fields, "no_wa")
	assert.Contains(t, fields, "jenis_layanan")
	assert.Contains(t, fields, "consent")
}

func TestCreateSubmissionEndpointBadJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Body permintaan tidak valid", decodeBody(t, rec)["message"])
}

func TestCheckStatusEndpoint(t *testing.T) {
	router := newTestRouter(t)
	code := createViaAPI(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/submissions/"+code+"?last4_nik=3456", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, code, body["tracking_code"])
	assert.Equal(t, "Budi", body["nama"])
	assert.Equal(t, "PENGAJUAN_BARU", body["status"])
	assert.Equal(t, "Pengajuan Baru", body["status_label"])
	assert.NotContains(t, body, "nik")
	assert.NotContains(t, body, "no_wa")
}

func TestCheckStatusRejectionBodiesAreIdentical(t *testing.T) {
	router := newTestRouter(t)
	code := createViaAPI(t, router)

	wrongLast4 := doJSON(t, router, http.MethodGet, "/api/submissions/"+code+"?last4_nik=9999", nil, "")
	unknownCode := doJSON(t, router, http.MethodGet, "/api/submissions/LYN-20260101-00001?last4_nik=3456", nil, "")

	assert.Equal(t, http.StatusForbidden, wrongLast4.Code)
	assert.Equal(t, http.StatusNotFound, unknownCode.Code)
	assert.Equal(t, wrongLast4.Body.String(), unknownCode.Body.String(),
		"a wrong last-4 and an unknown code must be indistinguishable from the body")
}

func TestCheckStatusEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/submissions/LYN-20260101-00001?last4_nik=ab", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	fields, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "last4_nik")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, tc := range []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"wrong token", "wrong-token"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, "/api/admin/submissions", nil, tc.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Tidak terautentikasi", decodeBody(t, rec)["message"])
		})
	}
}

func TestAdminListSubmissions(t *testing.T) {
	router := newTestRouter(t)
	code := createViaAPI(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/admin/submissions", nil, testAdminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, code, listed[0]["tracking_code"])
	assert.Equal(t, "1234567890123456", listed[0]["nik"], "admins see the full NIK")
	assert.Nil(t, listed[0]["email"])
}

func TestAdminTransition(t *testing.T) {
	router := newTestRouter(t)
	createViaAPI(t, router)

	listRec := doJSON(t, router, http.MethodGet, "/api/admin/submissions", nil, testAdminToken)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listed))
	id := listed[0]["id"].(string)

	rec := doJSON(t, router, http.MethodPatch, "/api/admin/submissions/"+id+"/status",
		map[string]string{"status": "DIPROSES"}, testAdminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "PENGAJUAN_BARU", body["old_status"])
	assert.Equal(t, "DIPROSES", body["new_status"])

	// Repeating the same transition is a client error.
	rec = doJSON(t, router, http.MethodPatch, "/api/admin/submissions/"+id+"/status",
		map[string]string{"status": "DIPROSES"}, testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status tidak berubah", decodeBody(t, rec)["message"])
}

func TestAdminTransitionErrors(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPatch, "/api/admin/submissions/not-a-uuid/status",
		map[string]string{"status": "DIPROSES"}, testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ID pengajuan tidak valid", decodeBody(t, rec)["message"])

	unknown := uuid.New().String()
	rec = doJSON(t, router, http.MethodPatch, "/api/admin/submissions/"+unknown+"/status",
		map[string]string{"status": "DIPROSES"}, testAdminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Pengajuan tidak ditemukan", decodeBody(t, rec)["message"])

	rec = doJSON(t, router, http.MethodPatch, "/api/admin/submissions/"+unknown+"/status",
		map[string]string{"status": "DIARSIPKAN"}, testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status tidak valid", decodeBody(t, rec)["message"])
}

func TestAdminBulkStatus(t *testing.T) {
	router := newTestRouter(t)
	createViaAPI(t, router)
	createViaAPI(t, router)

	listRec := doJSON(t, router, http.MethodGet, "/api/admin/submissions", nil, testAdminToken)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)

	ids := []string{listed[0]["id"].(string), listed[1]["id"].(string)}
	rec := doJSON(t, router, http.MethodPatch, "/api/admin/submissions/bulk-status",
		map[string]interface{}{"submissionIds": ids, "status": "SELESAI"}, testAdminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["updated_count"])
	assert.Equal(t, "2 pengajuan berhasil diupdate", body["message"])
}

func TestAdminBulkStatusValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPatch, "/api/admin/submissions/bulk-status",
		map[string]interface{}{"submissionIds": []string{}, "status": "SELESAI"}, testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/admin/submissions/bulk-status",
		map[string]interface{}{"submissionIds": []string{"nope"}, "status": "SELESAI"}, testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, fmt.Sprintf("ID pengajuan tidak valid: %s", "nope"), decodeBody(t, rec)["message"])

	rec = doJSON(t, router, http.MethodPatch, "/api/admin/submissions/bulk-status",
		map[string]interface{}{"submissionIds": []string{uuid.New().String()}, "status": "NOPE"}, testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status tidak valid", decodeBody(t, rec)["message"])
}
