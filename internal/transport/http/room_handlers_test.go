package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tutorcall-signal/internal/auth"
	"github.com/vovakirdan/tutorcall-signal/internal/core"
)

func TestGetRoomOccupancy(t *testing.T) {
	req := require.New(t)
	cfg := testConfig()
	disabledLogger := zerolog.Nop()

	registry := core.NewRegistry()
	relay := core.NewRelay(registry, &disabledLogger, 0)
	router := NewRouter(relay, &cfg, &disabledLogger)

	registry.Admit("room-42", core.NewPeer("p1", "", 1))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/rooms/room-42", nil))
	req.Equal(http.StatusOK, resp.Code)

	var room RoomResponse
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &room))
	req.Equal(RoomResponse{RoomID: "room-42", Occupancy: 1, Capacity: core.RoomCapacity}, room)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/rooms/unknown", nil))
	req.Equal(http.StatusOK, resp.Code)
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &room))
	req.Zero(room.Occupancy)
}

func TestStatsRequiresAdminPassword(t *testing.T) {
	req := require.New(t)

	hash, err := auth.HashAdminPassword("operator-pass")
	req.NoError(err)

	cfg := testConfig()
	cfg.AdminPasswordHash = hash
	disabledLogger := zerolog.Nop()

	registry := core.NewRegistry()
	relay := core.NewRelay(registry, &disabledLogger, 0)
	router := NewRouter(relay, &cfg, &disabledLogger)

	registry.Admit("a", core.NewPeer("p1", "", 1))
	registry.Admit("a", core.NewPeer("p2", "", 1))
	registry.Admit("b", core.NewPeer("p3", "", 1))

	// Test 1: no credentials
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	req.Equal(http.StatusUnauthorized, resp.Code)
	req.NotEmpty(resp.Header().Get("WWW-Authenticate"))

	// Test 2: wrong password
	r := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	r.SetBasicAuth("admin", "nope")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, r)
	req.Equal(http.StatusUnauthorized, resp.Code)

	// Test 3: correct password
	r = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	r.SetBasicAuth("admin", "operator-pass")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, r)
	req.Equal(http.StatusOK, resp.Code)

	var stats StatsResponse
	req.NoError(json.Unmarshal(resp.Body.Bytes(), &stats))
	req.Equal(StatsResponse{Rooms: 2, Peers: 3}, stats)
}

func TestStatsOpenWithoutAdminPassword(t *testing.T) {
	cfg := testConfig()
	disabledLogger := zerolog.Nop()
	router := NewRouter(core.NewRelay(core.NewRegistry(), &disabledLogger, 0), &cfg, &disabledLogger)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, resp.Code)
}
