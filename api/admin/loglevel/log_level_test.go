// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(level *slog.LevelVar) *mux.Router {
	router := mux.NewRouter()
	New(level).Mount(router, "/admin/loglevel")
	return router
}

func call(t *testing.T, router *mux.Router, method, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, "/admin/loglevel", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr.Code, strings.TrimSpace(rr.Body.String())
}

func currentLevel(t *testing.T, body string) string {
	t.Helper()
	var res Response
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	return res.CurrentLevel
}

func TestLogLevel(t *testing.T) {
	var level slog.LevelVar
	level.Set(slog.LevelInfo)
	router := newRouter(&level)

	code, body := call(t, router, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "INFO", currentLevel(t, body))

	for name, want := range map[string]string{"debug": "DEBUG", "warn": "WARN", "error": "ERROR", "info": "INFO"} {
		code, body = call(t, router, http.MethodPost, `{"level":"`+name+`"}`)
		assert.Equal(t, http.StatusOK, code, name)
		assert.Equal(t, want, currentLevel(t, body), name)
		assert.Equal(t, want, level.Level().String(), name)
	}

	code, body = call(t, router, http.MethodPost, `{"level":"trace"}`)
	assert.Equal(t, http.StatusOK, code)
	code, body = call(t, router, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, slog.Level(-8).String(), currentLevel(t, body))
}

func TestLogLevelBadRequest(t *testing.T) {
	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	router := newRouter(&level)

	tests := []struct {
		body string
		want string
	}{
		{`{"level":"loud"}`, "Invalid verbosity level"},
		{`{"verbosity":"debug"}`, `Invalid request body: json: unknown field "verbosity"`},
		{`{"level":`, "Invalid request body: unexpected EOF"},
	}
	for _, tt := range tests {
		code, body := call(t, router, http.MethodPost, tt.body)
		assert.Equal(t, http.StatusBadRequest, code, tt.body)
		assert.Equal(t, tt.want, body, tt.body)
	}
	// unchanged
	assert.Equal(t, slog.LevelWarn, level.Level())
}
