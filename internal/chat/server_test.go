package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelaygo/internal/services/auth"
)

type rxFrame struct {
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body"`
}

func newWsTestServer(t *testing.T) (*httptest.Server, auth.IAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authSvc := auth.NewAuthService("ws-test-secret", "admin", "hunter2hunter2")
	gateway := NewGateway(NewHub(), time.Second)
	wsSrv := NewWsServer(gateway, authSvc)

	engine := gin.New()
	engine.GET("/ws", wsSrv.Handle)

	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)
	return ts, authSvc
}

func dialWs(t *testing.T, ts *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) rxFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f rxFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHandshakeRejectsInvalidToken(t *testing.T) {
	ts, _ := newWsTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=bogus"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandshakeAdmitsGuest(t *testing.T) {
	ts, authSvc := newWsTestServer(t)
	dto, err := authSvc.LoginGuest("alice")
	require.NoError(t, err)

	conn := dialWs(t, ts, dto.AccessToken)

	f := readFrame(t, conn)
	require.Equal(t, "roomList", f.Event)
	var rooms []string
	require.NoError(t, json.Unmarshal(f.Body, &rooms))
	assert.Equal(t, []string{"Lobby", "Privé A", "Privé B", "Privé C"}, rooms)

	f = readFrame(t, conn)
	require.Equal(t, "users", f.Event)
	var users []RoomUser
	require.NoError(t, json.Unmarshal(f.Body, &users))
	assert.Equal(t, []RoomUser{{Username: "alice", Role: "user"}}, users)

	f = readFrame(t, conn)
	require.Equal(t, "joinedRoom", f.Event)
	var room string
	require.NoError(t, json.Unmarshal(f.Body, &room))
	assert.Equal(t, "Lobby", room)
}

func TestMessageOverWire(t *testing.T) {
	ts, authSvc := newWsTestServer(t)
	dto, err := authSvc.LoginGuest("alice")
	require.NoError(t, err)

	conn := dialWs(t, ts, dto.AccessToken)
	for i := 0; i < 3; i++ {
		readFrame(t, conn) // admission frames
	}

	err = conn.WriteJSON(Envelope{
		Event: "message",
		Body:  json.RawMessage(`{"content":"hi"}`),
	})
	require.NoError(t, err)

	f := readFrame(t, conn)
	require.Equal(t, "message", f.Event)
	var payload MessagePayload
	require.NoError(t, json.Unmarshal(f.Body, &payload))
	assert.Equal(t, "alice", payload.Sender)
	assert.Equal(t, "hi", payload.Content)
	assert.Equal(t, "Lobby", payload.Room)
}

func TestUnknownEventDroppedWithoutReply(t *testing.T) {
	ts, authSvc := newWsTestServer(t)
	dto, err := authSvc.LoginGuest("alice")
	require.NoError(t, err)

	conn := dialWs(t, ts, dto.AccessToken)
	for i := 0; i < 3; i++ {
		readFrame(t, conn)
	}

	require.NoError(t, conn.WriteJSON(Envelope{Event: "selfDestruct"}))

	// The connection stays usable and the next valid event still works.
	require.NoError(t, conn.WriteJSON(Envelope{
		Event: "message",
		Body:  json.RawMessage(`{"content":"still here"}`),
	}))
	f := readFrame(t, conn)
	assert.Equal(t, "message", f.Event)
}
