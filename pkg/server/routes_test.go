package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admitdesk/config"
	"github.com/admitdesk/admitdesk/pkg/auth"
	"github.com/admitdesk/admitdesk/pkg/chatbot"
	"github.com/admitdesk/admitdesk/pkg/filestore"
	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/store/memory"
)

const testSecret = "test-secret"

func newTestAppState(authRequired bool) *models.AppState {
	db := memory.NewDB()
	return &models.AppState{
		KnowledgeStore: memory.NewKnowledgeStore(db),
		AdmissionStore: memory.NewAdmissionStore(db),
		DocumentStore:  memory.NewDocumentStore(db),
		PaymentStore:   memory.NewPaymentStore(db),
		GuardianStore:  memory.NewGuardianStore(db),
		EntryTestStore: memory.NewEntryTestStore(db),
		FileStore:      filestore.New(afero.NewMemMapFs()),
		StoreCloser:    db,
		Config: &config.Config{
			Server: config.ServerConfig{
				WebEnabled:     true,
				MaxRequestSize: 1 << 16,
			},
			Auth: config.AuthConfig{
				Secret:   testSecret,
				Required: authRequired,
			},
			Uploads: config.UploadsConfig{
				MaxSize: 1 << 20,
			},
		},
	}
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func submitApplication(t *testing.T, h http.Handler) (int64, string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/admissions/submit_application", models.CreateAdmissionRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+44 20 7946 0000",
		Program:   "Computer Science",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	code := body["admission_code"].(string)

	rec = doJSON(t, h, http.MethodGet, "/api/admissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode(t, rec)["results"].([]any)
	require.NotEmpty(t, results)
	last := results[len(results)-1].(map[string]any)
	return int64(last["id"].(float64)), code
}

func TestRoot(t *testing.T) {
	router := setupRouter(newTestAppState(false))

	rec := doJSON(t, router, http.MethodGet, "/api/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Welcome to University Admission Assistant API", body["message"])
	assert.Equal(t, "API is running", body["status"])
	assert.Contains(t, body["build"], "version")
}

func TestVersionHeaderAndHeartbeat(t *testing.T) {
	router := setupRouter(newTestAppState(false))

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(versionHeader))
}

func TestQuery(t *testing.T) {
	appState := newTestAppState(false)
	router := setupRouter(appState)
	ctx := context.Background()

	category, err := appState.KnowledgeStore.CreateCategory(ctx, &models.CreateIntentCategoryRequest{
		Name:     "fees",
		Keywords: "fee, tuition",
	})
	require.NoError(t, err)
	_, err = appState.KnowledgeStore.CreateResponse(ctx, &models.CreateResponseRequest{
		CategoryID:   category.ID,
		ResponseText: "Tuition is 5000 per semester.",
	})
	require.NoError(t, err)

	t.Run("match", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/query", map[string]string{"query": "What is the TUITION?"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "fees", body["category"])
		assert.Equal(t, "Tuition is 5000 per semester.", body["response"])
	})

	t.Run("no match", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/query/", map[string]string{"query": "hostel rooms"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "no_match", body["status"])
		assert.Nil(t, body["category"])
		assert.Equal(t, chatbot.FallbackResponse, body["response"])
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitApplicationAndCheckStatus(t *testing.T) {
	router := setupRouter(newTestAppState(false))

	id, code := submitApplication(t, router)
	assert.NotEmpty(t, code)

	rec := doJSON(t, router, http.MethodPost, "/api/entry-tests", map[string]any{"admission_id": id})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = doJSON(t, router, http.MethodPost, "/api/guardians", map[string]any{
		"admission_id": id,
		"name":         "Anne Byron",
		"relation":     "mother",
		"phone":        "020 7946 0001",
		"occupation":   "mathematician",
		"income":       "1000.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/admissions/%d/check_status", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, false, body["entry_test_unlocked"])
	details := body["application_details"].(map[string]any)
	assert.Equal(t, code, details["admission_code"])
	for _, key := range []string{"guardians", "documents", "payments", "entry_test"} {
		assert.Contains(t, details, key)
	}
	entryTest := details["entry_test"].(map[string]any)
	assert.Equal(t, "scheduled", entryTest["status"])
	assert.Len(t, details["guardians"], 1)

	rec = doJSON(t, router, http.MethodGet, "/api/admissions/999/check_status", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/admissions/submit_application", map[string]string{
		"first_name": "Ada",
		"email":      "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decode(t, rec)["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "last_name")
}

func uploadRequest(t *testing.T, fields map[string]string, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload_document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadDocument(t *testing.T) {
	appState := newTestAppState(false)
	router := setupRouter(appState)
	admissionID, code := submitApplication(t, router)

	t.Run("stored", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, map[string]string{
			"admission_code": code,
			"document_type":  "transcript",
		}, "transcript.pdf", "pdf-bytes"))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Equal(t, "Document uploaded successfully", body["message"])

		documents, err := appState.DocumentStore.ListByAdmission(context.Background(), admissionID)
		require.NoError(t, err)
		require.Len(t, documents, 1)
		assert.Equal(t, "transcript", documents[0].DocumentType)
		assert.False(t, documents[0].Verified)

		rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/documents/%d/file", documents[0].ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pdf-bytes", rec.Body.String())
	})

	t.Run("unknown admission code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, map[string]string{
			"admission_code": "8d3c1e0a-0000-4000-8000-000000000000",
			"document_type":  "transcript",
		}, "transcript.pdf", "pdf-bytes"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, map[string]string{"admission_code": "nope"}, "", ""))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		errs := decode(t, rec)["errors"].(map[string]any)
		assert.Contains(t, errs, "admission_code")
		assert.Contains(t, errs, "document_type")
	})
}

func TestProcessPaymentIsPending(t *testing.T) {
	router := setupRouter(newTestAppState(false))
	_, code := submitApplication(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/payments/process_payment", map[string]any{
		"admission_code": code,
		"payment_type":   "application_fee",
		"amount":         decimal.RequireFromString("150.00"),
		"transaction_id": "txn-001",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Payment initiated successfully", body["message"])
	assert.Equal(t, "pending", body["status"])

	rec = doJSON(t, router, http.MethodPost, "/api/payments/process_payment", map[string]any{
		"admission_code": strings.ToUpper(code),
		"payment_type":   "tuition",
		"amount":         decimal.RequireFromString("900.00"),
		"transaction_id": "txn-002",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/payments/process_payment", map[string]any{
		"admission_code": "not-a-code",
		"payment_type":   "tuition",
		"amount":         decimal.RequireFromString("900.00"),
		"transaction_id": "txn-003",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["errors"], "admission_code")
}

func TestEntryTestToggle(t *testing.T) {
	appState := newTestAppState(false)
	router := setupRouter(appState)
	admissionID, _ := submitApplication(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/entry-tests", map[string]any{"admission_id": admissionID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entryTestID := int64(decode(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/entry-tests/%d/check_access", entryTestID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["entry_test_unlocked"])

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/entry-tests/%d/toggle_access", entryTestID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Entry test access granted", body["message"])
	assert.Equal(t, true, body["entry_test_unlocked"])

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/admissions/%d/toggle_entry_test", admissionID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Entry test access revoked", decode(t, rec)["message"])
}

func TestChildListsEmptyForAdmission(t *testing.T) {
	router := setupRouter(newTestAppState(false))
	admissionID, _ := submitApplication(t, router)

	for _, resource := range []string{"entry-tests", "payments", "documents", "guardians"} {
		for _, id := range []int64{admissionID, 999} {
			rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/%s?admission_id=%d", resource, id), nil)
			require.Equal(t, http.StatusOK, rec.Code, resource)
			assert.Equal(t, []any{}, decode(t, rec)["results"], resource)
		}
	}

	rec := doJSON(t, router, http.MethodPost, "/api/entry-tests", map[string]any{"admission_id": admissionID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/entry-tests?admission_id=%d", admissionID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["results"], 1)
}

func TestAdminRoutesRequireJWT(t *testing.T) {
	appState := newTestAppState(true)
	router := setupRouter(appState)

	rec := doJSON(t, router, http.MethodGet, "/api/admissions", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/admin/", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// public routes stay open
	rec = doJSON(t, router, http.MethodPost, "/api/query", map[string]string{"query": "hello"})
	assert.Equal(t, http.StatusOK, rec.Code)

	token := auth.GenerateJWT(appState.Config, 0)
	req := httptest.NewRequest(http.MethodGet, "/api/admissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebPages(t *testing.T) {
	router := setupRouter(newTestAppState(false))
	admissionID, _ := submitApplication(t, router)

	for _, path := range []string{
		"/admin/",
		"/admin/admissions",
		fmt.Sprintf("/admin/admissions/%d", admissionID),
		"/admin/knowledge",
	} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", path)
	}

	req := httptest.NewRequest(
		http.MethodPost,
		fmt.Sprintf("/admin/admissions/%d/toggle-entry-test", admissionID),
		nil,
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/admissions/%d", admissionID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["entry_test_unlocked"])
}

func TestWebDisabled(t *testing.T) {
	appState := newTestAppState(false)
	appState.Config.Server.WebEnabled = false
	router := setupRouter(appState)

	rec := doJSON(t, router, http.MethodGet, "/admin/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
