package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"animal-safety-hub/pkg/middleware"
	"animal-safety-hub/pkg/response"
	"animal-safety-hub/services/report-service/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// testApp wires the router with no storage behind it; only paths that are
// rejected before any database access are exercised here.
func testApp(authDisabled bool) *App {
	return &App{
		cfg: Config{
			AuthDisabled: authDisabled,
			CORSOrigins:  []string{"http://localhost:3000"},
		},
		transitions: models.PermissiveTransitions(),
	}
}

func doRequest(t *testing.T, app *App, method, target, body string, header http.Header) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, req)

	var envelope response.APIResponse
	if rec.Body.Len() > 0 && strings.Contains(rec.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func TestSubmitReportRejectsInvalidJSON(t *testing.T) {
	rec, env := doRequest(t, testApp(true), http.MethodPost, "/api/reports", "{not json", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
}

func TestSubmitReportRejectsMissingFields(t *testing.T) {
	rec, env := doRequest(t, testApp(true), http.MethodPost, "/api/reports", `{}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
	require.Len(t, env.Errors, 5)
}

func TestStatusLookupRejectsMalformedID(t *testing.T) {
	rec, env := doRequest(t, testApp(true), http.MethodGet, "/api/reports/not-an-id/status", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
}

func TestUpdateStatusRejectsMalformedID(t *testing.T) {
	rec, _ := doRequest(t, testApp(true), http.MethodPatch,
		"/api/admin/reports/xyz/status", `{"status":"resolved"}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	rec, env := doRequest(t, testApp(true), http.MethodPatch,
		"/api/admin/reports/656d6f636b6964656d6f636b/status", `{"status":"archived"}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, env.Message, "archived")
}

func TestAddNoteRejectsEmptyNote(t *testing.T) {
	rec, _ := doRequest(t, testApp(true), http.MethodPost,
		"/api/admin/reports/656d6f636b6964656d6f636b/notes", `{"note":""}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRejectsMalformedID(t *testing.T) {
	rec, _ := doRequest(t, testApp(true), http.MethodDelete, "/api/admin/reports/zzz", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	claims := middleware.UserClaims{
		UserID: "u1",
		Name:   "Test Admin",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTSecret())
	require.NoError(t, err)
	return token
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	rec, env := doRequest(t, testApp(false), http.MethodDelete, "/api/admin/reports/zzz", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.Success)
}

func TestAdminRoutesRejectInsufficientRole(t *testing.T) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+adminToken(t, "viewer"))

	rec, _ := doRequest(t, testApp(false), http.MethodDelete, "/api/admin/reports/zzz", "", header)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRolePassesGate(t *testing.T) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+adminToken(t, "admin"))

	// a malformed ID reaches the handler, proving the gate let the request in
	rec, _ := doRequest(t, testApp(false), http.MethodDelete, "/api/admin/reports/zzz", "", header)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	rec, _ := doRequest(t, testApp(true), http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
