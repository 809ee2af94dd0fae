package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/liveroom/internal/adapters/signal"
	"github.com/dkeye/liveroom/internal/app"
	"github.com/dkeye/liveroom/internal/app/orch"
	"github.com/dkeye/liveroom/internal/config"
	"github.com/dkeye/liveroom/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Mode:         "test",
		Port:         8080,
		StaticPath:   t.TempDir() + "/missing",
		ReadLimit:    65536,
		PingPeriod:   time.Minute,
		WriteTimeout: time.Second,
		SendBuffer:   16,
		Secret:       "test-secret",
		STUNURLs:     []string{"stun:stun.l.google.com:19302"},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig(t)
	reg := app.NewRegistry()
	rooms := app.NewRoomManager(reg)
	o := orch.New(reg, rooms, app.NewRouter(reg, rooms, app.SimplePolicy{Action: app.DropFrame}))
	ctrl := signal.NewSignalWSController(o, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(SetupRouter(ctx, cfg, o, ctrl))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func write(t *testing.T, ws *websocket.Conn, raw string) {
	t.Helper()
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func read(t *testing.T, ws *websocket.Conn) domain.Envelope {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env domain.Envelope
	require.NoError(t, ws.ReadJSON(&env))
	return env
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestClientTokenCookie(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var names []string
	for _, c := range resp.Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, sessionName)
}

func TestICEServersEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var body struct {
		ICEServers []struct {
			URLs []string `json:"urls"`
		} `json:"iceServers"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/ice-servers", &body))
	require.Len(t, body.ICEServers, 1)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, body.ICEServers[0].URLs)
}

func TestUnknownRoom404(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/rooms/nope", nil))
}

func TestSignalingOverWebSocket(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv)
	write(t, alice, `{"type":"create-room","roomId":"r1","from":"alice","username":"Alice"}`)
	assert.Equal(t, "users-list", read(t, alice).Type)
	assert.Equal(t, "join-success", read(t, alice).Type)

	bob := dial(t, srv)
	write(t, bob, `{"type":"join","roomId":"r1","from":"bob","username":"Bob"}`)
	assert.Equal(t, "users-list", read(t, bob).Type)
	assert.Equal(t, "join-success", read(t, bob).Type)
	assert.Equal(t, "host-updated", read(t, bob).Type)

	joined := read(t, alice)
	assert.Equal(t, "user-joined", joined.Type)
	assert.EqualValues(t, "bob", joined.From)
	assert.Equal(t, "host-updated", read(t, alice).Type)

	var list struct {
		Rooms []domain.RoomInfo `json:"rooms"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/rooms", &list))
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, domain.RoomInfo{ID: "r1", MemberCount: 2, HostID: "alice"}, list.Rooms[0])

	var snap domain.RoomSnapshot
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/rooms/r1", &snap))
	assert.Len(t, snap.Members, 2)

	write(t, alice, `{"type":"offer","to":"bob","data":{"sdp":"v=0"}}`)
	offer := read(t, bob)
	assert.Equal(t, "offer", offer.Type)
	assert.JSONEq(t, `{"sdp":"v=0"}`, string(offer.Data))

	require.NoError(t, bob.Close())
	left := read(t, alice)
	assert.Equal(t, "user-left", left.Type)
	assert.EqualValues(t, "bob", left.From)
}

func TestHostDisconnectPromotesNext(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv)
	write(t, alice, `{"type":"create-room","roomId":"r1","from":"alice"}`)
	read(t, alice)
	read(t, alice)

	bob := dial(t, srv)
	write(t, bob, `{"type":"join","roomId":"r1","from":"bob"}`)
	for i := 0; i < 3; i++ {
		read(t, bob)
	}

	require.NoError(t, alice.Close())
	assert.Equal(t, "user-left", read(t, bob).Type)
	updated := read(t, bob)
	require.Equal(t, "host-updated", updated.Type)

	var d domain.HostData
	require.NoError(t, json.Unmarshal(updated.Data, &d))
	assert.EqualValues(t, "bob", d.HostID)
}
