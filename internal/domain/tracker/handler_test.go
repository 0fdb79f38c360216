package tracker

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func setupHandler(repo *mockRepo) *echo.Echo {
	e := echo.New()
	h := NewHandler(NewService(repo))
	h.RegisterRoutes(e.Group("/api/v1"))
	return e
}

func TestHandleSimulate(t *testing.T) {
	repo := &mockRepo{}
	e := setupHandler(repo)

	body := `{
		"patient_id": "pat-1",
		"start": "2026-05-01",
		"end": "2026-05-02",
		"schedule": [{"name": "Metoprolol", "time": "08:00"}],
		"seed": 42
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate/tracker", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		PatientID string    `json:"patient_id"`
		Count     int       `json:"count"`
		Readings  []Reading `json:"readings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 48 || len(resp.Readings) != 48 {
		t.Errorf("count = %d, readings = %d, want 48", resp.Count, len(resp.Readings))
	}
	if len(repo.readings) != 48 {
		t.Errorf("store holds %d readings, want 48", len(repo.readings))
	}
}

func TestHandleSimulate_BadDates(t *testing.T) {
	e := setupHandler(&mockRepo{})

	for _, body := range []string{
		`{"patient_id": "pat-1", "start": "May 1st", "end": "2026-05-02"}`,
		`{"patient_id": "pat-1", "start": "2026-05-01", "end": "soon"}`,
		`{"patient_id": "pat-1", "start": "2026-05-02", "end": "2026-05-01"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate/tracker", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleSimulate_StorageFailureIsServerError(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("copy failed")}
	e := setupHandler(repo)

	body := `{"patient_id": "pat-1", "start": "2026-05-01", "end": "2026-05-02"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate/tracker", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleListReadings(t *testing.T) {
	repo := &mockRepo{readings: sampleReadings()}
	e := setupHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/pat-1/readings?from=2026-05-01&to=2026-05-10", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data  []Reading `json:"data"`
		Total int       `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 2 || len(resp.Data) != 2 {
		t.Errorf("total = %d, data = %d, want 2", resp.Total, len(resp.Data))
	}
}

func TestHandleExportCSV(t *testing.T) {
	repo := &mockRepo{readings: sampleReadings()}
	e := setupHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/readings.csv?from=2026-05-01&to=2026-05-10", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "text/csv" {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Errorf("got %d lines, want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,patient_id,") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestHandleExportNDJSON(t *testing.T) {
	repo := &mockRepo{readings: sampleReadings()}
	e := setupHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/readings.ndjson?from=2026-05-01&to=2026-05-10", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/x-ndjson" {
		t.Errorf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}
