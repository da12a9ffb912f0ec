package monitor

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systemsleep/sleepctl/internal/protocol"
	"github.com/systemsleep/sleepctl/internal/scheduler"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer()
	require.NoError(t, s.Listen("127.0.0.1:0"))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func dial(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+s.Addr()+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (s *Server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func waitForClients(t *testing.T, s *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.clientCount() == n },
		2*time.Second, 5*time.Millisecond)
}

func TestPublishReachesWatcher(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s)
	waitForClients(t, s, 1)

	b := NewBroadcaster("run-1", s)
	b.OnTick(2, 90*time.Second, 25)

	var ev protocol.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))

	assert.Equal(t, protocol.EventTick, ev.Type)
	assert.Equal(t, "run-1", ev.RunID)
	assert.Equal(t, 2, ev.Cycle)
	assert.Equal(t, 90, ev.RemainingSeconds)
	assert.Equal(t, float64(25), ev.Percent)
}

func TestTerminalEventCarriesPhase(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s)
	waitForClients(t, s, 1)

	b := NewBroadcaster("run-2", s)
	b.OnTerminal(scheduler.Cancelled, "countdown interrupted by user")

	var ev protocol.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))

	assert.Equal(t, protocol.EventTerminal, ev.Type)
	assert.Equal(t, "cancelled", ev.Phase)
	assert.Equal(t, "countdown interrupted by user", ev.Message)
}

func TestStatusEventForCountdownlessRun(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s)
	waitForClients(t, s, 1)

	b := NewBroadcaster("run-3", s)
	b.Status("sleep prevention active (User requested via sleepctl)")

	var ev protocol.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))

	assert.Equal(t, protocol.EventPhase, ev.Type)
	assert.Equal(t, "run-3", ev.RunID)
	assert.Equal(t, "waiting", ev.Phase)
	assert.Contains(t, ev.Message, "sleep prevention active")
}

func TestPublishFansOut(t *testing.T) {
	s := startServer(t)
	a := dial(t, s)
	b := dial(t, s)
	waitForClients(t, s, 2)

	s.Publish(protocol.Event{Type: protocol.EventPhase, Message: "counting"})

	for _, conn := range []*websocket.Conn{a, b} {
		var ev protocol.Event
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, "counting", ev.Message)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	s := startServer(t)
	conn := dial(t, s)
	waitForClients(t, s, 1)

	conn.Close()
	waitForClients(t, s, 0)

	// Publishing with no watchers must not block or panic.
	s.Publish(protocol.Event{Type: protocol.EventTick})
}

func TestPublishNeverBlocksOnSlowClient(t *testing.T) {
	s := startServer(t)
	dial(t, s) // never read from, so its buffer fills
	waitForClients(t, s, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < clientBacklog*3; i++ {
			s.Publish(protocol.Event{Type: protocol.EventTick, Cycle: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow client")
	}
}
