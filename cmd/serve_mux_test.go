package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestServeMux_Health(t *testing.T) {
	mux := newServeMux(nil, newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServeMux_PostAudits_InvalidBody(t *testing.T) {
	mux := newServeMux(nil, newTestStore(t))

	req := httptest.NewRequest(http.MethodPost, "/audits", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestServeMux_PostAudits_MissingFields(t *testing.T) {
	mux := newServeMux(nil, newTestStore(t))

	body, _ := json.Marshal(map[string]string{"client": "Acme Plumbing"})
	req := httptest.NewRequest(http.MethodPost, "/audits", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "required")
}

func TestServeMux_GetRuns(t *testing.T) {
	st := newTestStore(t)
	mux := newServeMux(nil, st)

	run := &model.Run{
		ID:        "run-1",
		Client:    "Acme Plumbing",
		Domain:    "acme.test",
		RunDate:   "2026-08-01",
		Status:    model.RunStatusComplete,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.SaveRun(context.Background(), run))

	req := httptest.NewRequest(http.MethodGet, "/runs?client=Acme+Plumbing", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Runs []model.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, "run-1", resp.Runs[0].ID)
}

func TestServeMux_GetRunByID(t *testing.T) {
	st := newTestStore(t)
	mux := newServeMux(nil, st)

	run := &model.Run{
		ID:        "run-1",
		Client:    "Acme Plumbing",
		Domain:    "acme.test",
		RunDate:   "2026-08-01",
		Status:    model.RunStatusComplete,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.SaveRun(context.Background(), run))

	req := httptest.NewRequest(http.MethodGet, "/runs/run-1", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got model.Run
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "acme.test", got.Domain)
}

func TestServeMux_GetRunByID_NotFound(t *testing.T) {
	mux := newServeMux(nil, newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/runs/ghost", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "run not found")
}
