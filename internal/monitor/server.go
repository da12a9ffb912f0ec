// Package monitor streams scheduler events over websockets so a second
// terminal can watch a live countdown.
package monitor

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/systemsleep/sleepctl/internal/protocol"
)

const (
	writeTimeout  = 10 * time.Second
	clientBacklog = 64
)

// Server broadcasts published events to every connected watcher. Each
// client has its own buffered send channel drained by a single writer
// goroutine; a slow client drops events rather than blocking the run.
type Server struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	ln      net.Listener
	httpSrv *http.Server
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan protocol.Event
}

// NewServer creates an unstarted Server.
func NewServer() *Server {
	return &Server{
		clients: make(map[*client]struct{}),
	}
}

// Listen binds addr and serves the /ws endpoint in the background. The
// bind error is returned synchronously so a bad --listen flag fails fast.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.httpSrv = &http.Server{Handler: s}
	s.mu.Unlock()

	go func() { _ = s.httpSrv.Serve(ln) }()
	return nil
}

// Addr returns the bound address, for logging and tests.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close stops the listener and disconnects all watchers.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	srv := s.httpSrv
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()

	if srv != nil {
		return srv.Close()
	}
	return nil
}

// Publish fans an event out to every connected watcher. Never blocks.
func (s *Server) Publish(ev protocol.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- ev:
		default:
			// Buffer full — drop rather than stall the scheduler goroutine.
		}
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/ws" {
		http.NotFound(w, r)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn, send: make(chan protocol.Event, clientBacklog)}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

// writeLoop is the single goroutine writing to one client connection.
func (s *Server) writeLoop(c *client) {
	for ev := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(ev); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readLoop discards inbound frames; its only job is detecting disconnects.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()
}
