package main

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"animal-safety-hub/pkg/middleware"
	"animal-safety-hub/services/report-service/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTeamFor(t *testing.T) {
	cases := []struct {
		incident models.IncidentType
		team     string
	}{
		{models.IncidentCruelty, "cruelty_investigations"},
		{models.IncidentHoarding, "cruelty_investigations"},
		{models.IncidentInjury, "emergency_rescue"},
		{models.IncidentStray, "animal_control"},
		{models.IncidentIllegal, "law_enforcement_liaison"},
		{models.IncidentEnvironment, "environmental_response"},
		{models.IncidentType("something_else"), "general"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.team, teamFor(tc.incident), "incident %s", tc.incident)
	}
}

func TestNormalizeTeam(t *testing.T) {
	require.Equal(t, "animal_control", normalizeTeam(" Animal-Control "))
	require.Equal(t, "emergency_rescue", normalizeTeam("emergency rescue"))
	require.Equal(t, "general", normalizeTeam("general"))
}

func staffToken(t *testing.T, role, team string) string {
	t.Helper()
	claims := middleware.UserClaims{
		UserID: "staff1",
		Name:   "On-call Staff",
		Role:   role,
		Team:   team,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTSecret())
	require.NoError(t, err)
	return token
}

func clientCount() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(clients)
}

func TestSubscribeRejectsMissingToken(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notifications/subscribe", nil)

	subscribeHandler(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSubscribeUnregistersOnDisconnect(t *testing.T) {
	go handleClients()

	srv := httptest.NewServer(http.HandlerFunc(subscribeHandler))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	url := srv.URL + "?token=" + staffToken(t, "admin", "general")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// handshake event confirms the stream is live before we drop it
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "), "unexpected SSE line %q", line)

	require.Eventually(t, func() bool { return clientCount() == 1 },
		2*time.Second, 10*time.Millisecond, "subscriber never registered")

	cancel()

	// the handler must notice the dropped connection and unregister itself
	require.Eventually(t, func() bool { return clientCount() == 0 },
		2*time.Second, 10*time.Millisecond, "subscriber leaked after disconnect")
}
