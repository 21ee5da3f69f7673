package slideshow

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/gokatarajesh/mechanics-site/pkg/http/ws"
)

func newWSServer(t *testing.T) (*Controller, *ws.Hub, *manualScheduler, string) {
	t.Helper()
	ctrl, sched := newTestController(t)
	hub := ws.NewHub(zerolog.Nop())
	h := NewWSHandler(ctrl, hub, websocket.Upgrader{}, zerolog.Nop())

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)
	return ctrl, hub, sched, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialSlidesWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "websocket dial failed")
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}, requestID string) {
	t.Helper()
	msg, err := ws.NewMessage(msgType, payload)
	require.NoError(t, err)
	msg.RequestID = requestID
	conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
	require.NoError(t, conn.WriteJSON(msg))
}

func waitFor(t *testing.T, conn *websocket.Conn, msgType string) ws.Message {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var msg ws.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg
		}
	}
	t.Fatalf("timed out waiting for %s", msgType)
	return ws.Message{}
}

func waitForViewers(t *testing.T, hub *ws.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Count() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestWSCommandAndBroadcast(t *testing.T) {
	ctrl, hub, _, url := newWSServer(t)
	mountSpec(t, ctrl, NewVirtualPage(), ContainerSpec{ID: "laws", Slides: 3})

	conn := dialSlidesWS(t, url)
	waitForViewers(t, hub, 1)

	send(t, conn, ws.TypeSlideCommand, ws.SlideCommandPayload{ContainerID: "laws", Action: ws.ActionNext}, "r1")

	changed := waitFor(t, conn, ws.TypeSlideChanged)
	var ch ws.SlideChangedPayload
	require.NoError(t, json.Unmarshal(changed.Payload, &ch))
	assert.Equal(t, ws.SlideChangedPayload{ContainerID: "laws", Index: 1, Source: string(SourceNext)}, ch)

	ack := waitFor(t, conn, ws.TypeCommandAck)
	assert.Equal(t, "r1", ack.RequestID)
	var ackPayload ws.CommandAckPayload
	require.NoError(t, json.Unmarshal(ack.Payload, &ackPayload))
	assert.Equal(t, 1, ackPayload.Index)
}

func TestWSTimerTicksReachSubscribers(t *testing.T) {
	ctrl, hub, sched, url := newWSServer(t)
	page := NewVirtualPage()
	mountSpec(t, ctrl, page, ContainerSpec{ID: "hero", Slides: 2})
	mountSpec(t, ctrl, page, ContainerSpec{ID: "laws", Slides: 2})

	conn := dialSlidesWS(t, url)
	waitForViewers(t, hub, 1)
	send(t, conn, ws.TypeSubscribe, ws.SubscribePayload{ContainerIDs: []string{"laws"}}, "")
	send(t, conn, ws.TypePing, struct{}{}, "sync")
	waitFor(t, conn, ws.TypePong)

	sched.fire(0)
	sched.fire(1)

	msg := waitFor(t, conn, ws.TypeSlideChanged)
	var ch ws.SlideChangedPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &ch))
	assert.Equal(t, "laws", ch.ContainerID)
	assert.Equal(t, string(SourceTimer), ch.Source)
}

func TestWSLegacyAndErrors(t *testing.T) {
	ctrl, hub, _, url := newWSServer(t)
	mountSpec(t, ctrl, NewVirtualPage(), ContainerSpec{ID: "first", Slides: 3})

	conn := dialSlidesWS(t, url)
	waitForViewers(t, hub, 1)

	send(t, conn, ws.TypeSlideCommand, ws.SlideCommandPayload{Action: ws.ActionCurrent, N: 3}, "")
	ack := waitFor(t, conn, ws.TypeCommandAck)
	var ackPayload ws.CommandAckPayload
	require.NoError(t, json.Unmarshal(ack.Payload, &ackPayload))
	assert.Equal(t, 2, ackPayload.Index)

	send(t, conn, ws.TypeSlideCommand, ws.SlideCommandPayload{ContainerID: "first", Action: "jump"}, "")
	errMsg := waitFor(t, conn, ws.TypeError)
	var payload ws.ErrorPayload
	require.NoError(t, json.Unmarshal(errMsg.Payload, &payload))
	assert.Equal(t, "unknown_action", payload.Code)

	send(t, conn, ws.TypeSlideCommand, ws.SlideCommandPayload{ContainerID: "nope", Action: ws.ActionNext}, "")
	errMsg = waitFor(t, conn, ws.TypeError)
	require.NoError(t, json.Unmarshal(errMsg.Payload, &payload))
	assert.Equal(t, "container_not_found", payload.Code)

	send(t, conn, "shout", struct{}{}, "")
	errMsg = waitFor(t, conn, ws.TypeError)
	require.NoError(t, json.Unmarshal(errMsg.Payload, &payload))
	assert.Equal(t, "unknown_message_type", payload.Code)
}
