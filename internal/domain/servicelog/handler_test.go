package servicelog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinlog/clinlog/internal/platform/auth"
)

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	repo := newMockRepo()
	svc := NewService(repo, newMockResolver(), zerolog.Nop())
	h := NewHandler(svc, zerolog.Nop())
	e := echo.New()
	return h, repo, e
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID string) echo.Context {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRolesKey, []string{"clinician"})
	c := e.NewContext(req.WithContext(ctx), rec)
	return c
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Timestamp string `json:"timestamp"`
}

const validBody = `{
	"clientId": 1,
	"activityId": 1,
	"serviceDate": "2024-03-01",
	"patientCount": 2,
	"patientEntries": [
		{"appointmentType": "new", "outcomeId": 1},
		{"appointmentType": "followup", "outcomeId": "2"}
	]
}`

func TestHandler_Submit(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/service-logs", strings.NewReader(validBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")

	if err := h.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if !env.Success || env.Timestamp == "" {
		t.Errorf("expected success envelope with timestamp, got %s", rec.Body.String())
	}

	var result SubmissionResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.ServiceLog.UserID != "user-1" {
		t.Errorf("expected owning user user-1, got %s", result.ServiceLog.UserID)
	}
	if result.ServiceLog.ClientID != 1 || result.ServiceLog.ActivityID != 1 {
		t.Errorf("expected canonical numeric ids, got %d/%d",
			result.ServiceLog.ClientID, result.ServiceLog.ActivityID)
	}
	// The string outcome id "2" must come back as the number 2.
	if result.PatientEntries[1].OutcomeID != 2 {
		t.Errorf("expected normalized outcome id 2, got %d", result.PatientEntries[1].OutcomeID)
	}
	want := Totals{TotalEntries: 2, NewPatients: 1, FollowupPatients: 1}
	if result.Totals != want {
		t.Errorf("expected totals %+v, got %+v", want, result.Totals)
	}
}

func TestHandler_Submit_ValidationFailure(t *testing.T) {
	h, repo, e := newTestHandler()

	body := strings.Replace(validBody, `"patientCount": 2`, `"patientCount": 3`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/service-logs", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")

	if err := h.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var env testEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %+v", env.Error)
	}
	if !strings.Contains(env.Error.Message, "2") || !strings.Contains(env.Error.Message, "3") {
		t.Errorf("message should reference both counts: %s", env.Error.Message)
	}
	if len(env.Error.Details) == 0 {
		t.Error("expected field-error details")
	}
	if len(repo.logs) != 0 {
		t.Error("rejected submission must persist nothing")
	}
}

func TestHandler_Submit_MalformedBody(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/service-logs", strings.NewReader(`{"clientId": `))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")

	if err := h.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Submit_StorageFailure(t *testing.T) {
	h, repo, e := newTestHandler()
	repo.failParent = true

	req := httptest.NewRequest(http.MethodPost, "/api/v1/service-logs", strings.NewReader(validBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")

	if err := h.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var env testEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Error == nil || env.Error.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected INTERNAL_ERROR, got %+v", env.Error)
	}
	// The storage cause must never reach the caller.
	if strings.Contains(env.Error.Message, "connection") {
		t.Errorf("storage cause leaked: %s", env.Error.Message)
	}
}

func TestHandler_Submit_Draft(t *testing.T) {
	h, _, e := newTestHandler()

	body := strings.TrimSuffix(strings.TrimSpace(validBody), "}") + `, "isDraft": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/service-logs", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")

	if err := h.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var env testEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	var result SubmissionResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !result.ServiceLog.IsDraft {
		t.Error("expected isDraft true in response")
	}
	if result.ServiceLog.SubmittedAt != nil {
		t.Error("draft must have null submittedAt")
	}
}

func TestHandler_Get(t *testing.T) {
	h, _, e := newTestHandler()

	created, err := h.svc.Submit(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")
	c.SetParamNames("id")
	c.SetParamValues(created.ServiceLog.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_Get_InvalidID(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_List(t *testing.T) {
	h, _, e := newTestHandler()

	if _, err := h.svc.Submit(context.Background(), "user-1", validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := h.svc.Submit(context.Background(), "user-2", validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/service-logs?limit=10", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user-1")

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env testEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	var page struct {
		Data  []*ServiceLog `json:"data"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("unmarshal page: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 {
		t.Errorf("expected only the user's own log, got total=%d len=%d", page.Total, len(page.Data))
	}
}
