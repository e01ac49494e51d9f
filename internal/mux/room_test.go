package mux

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdempoker-server/pkg/room"
)

func testServer(t *testing.T) (*httptest.Server, *room.Lobby) {
	t.Helper()

	lobby := room.NewLobby(room.DefaultOptions())
	lobby.StartShift()

	ts := httptest.NewServer(NewMux("test", lobby))
	t.Cleanup(ts.Close)

	return ts, lobby
}

func TestPostRoom(t *testing.T) {
	a := assert.New(t)
	ts, _ := testServer(t)

	var created createRoomResponse
	assertPost(t, ts, "/room", createRoomRequest{Name: "friday game"}, &created, 201)
	a.Equal("friday game", created.Name)
	a.Equal(6, len(created.Code))
	a.False(created.HasPassword)

	var locked createRoomResponse
	assertPost(t, ts, "/room", createRoomRequest{Name: "locked", Password: "hunter2"}, &locked, 201)
	a.True(locked.HasPassword)

	var errResp errorResponse
	assertPost(t, ts, "/room", createRoomRequest{Name: "  "}, &errResp, 400)
	a.Equal("room name is required", errResp.Message)

	assertPost(t, ts, "/room", createRoomRequest{Name: strings.Repeat("x", 51)}, &errResp, 400)
	a.Equal("room name is too long", errResp.Message)

	assertPost(t, ts, "/room", "{bad json", &errResp, 400)
}

func TestGetRooms(t *testing.T) {
	a := assert.New(t)
	ts, _ := testServer(t)

	var rooms []room.RoomSummary
	assertGet(t, ts, "/room", &rooms, 200)
	a.Equal(0, len(rooms))

	var created createRoomResponse
	assertPost(t, ts, "/room", createRoomRequest{Name: "table one"}, &created, 201)

	assertGet(t, ts, "/room", &rooms, 200)
	require.Equal(t, 1, len(rooms))
	a.Equal(created.Code, rooms[0].Code)
	a.Equal(8, rooms[0].MaxSeats)
	a.Equal(0, rooms[0].Occupied)
}

func TestRoomWebSocket(t *testing.T) {
	a := assert.New(t)
	ts, _ := testServer(t)

	var created createRoomResponse
	assertPost(t, ts, "/room", createRoomRequest{Name: "ws table", Password: "pw"}, &created, 201)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/room/" + created.Code + "/ws"

	// wrong password is rejected before the upgrade
	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?password=nope", nil)
	a.Error(err)
	require.NotNil(t, resp)
	a.Equal(403, resp.StatusCode)

	// unknown room is a 404
	_, resp, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/room/ZZZZZZ/ws", nil)
	a.Error(err)
	require.NotNil(t, resp)
	a.Equal(404, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?password=pw&name=alice", nil)
	require.NoError(t, err)
	defer conn.Close()

	// joining produces at least the activity-feed backlog
	_ = conn.SetReadDeadline(time.Now().Add(time.Second * 5))

	sawLogs := false
	for i := 0; i < 5 && !sawLogs; i++ {
		var res room.Response
		require.NoError(t, conn.ReadJSON(&res))
		if res.Key == "logs" {
			sawLogs = true
		}
	}
	a.True(sawLogs)
}
