package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrServerClosed is returned by Serve when it stops before an edited
// record arrived.
var ErrServerClosed = errors.New("record server closed without a result")

// Server hosts one record payload. A client that sends the handshake gets
// the payload; the first JSON array a client sends back is the result.
type Server struct {
	handshake string
	payload   []byte
	upgrader  websocket.Upgrader
	results   chan []byte
	once      sync.Once
}

// NewServer creates a server for payload, a JSON array of rows
func NewServer(handshake string, payload []byte) *Server {
	return &Server{
		handshake: handshake,
		payload:   payload,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		results: make(chan []byte, 1),
	}
}

// Results delivers the edited record, once
func (s *Server) Results() <-chan []byte {
	return s.results
}

func (s *Server) deliver(data []byte) bool {
	delivered := false
	s.once.Do(func() {
		s.results <- data
		delivered = true
	})
	return delivered
}

// ServeHTTP upgrades the request and runs one editing session
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := uuid.New().String()
	log.Printf("[%s] session opened from %s", session, r.RemoteAddr)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[%s] websocket closed, editor probably quit", session)
			} else {
				log.Printf("[%s] read failed: %v", session, err)
			}
			return
		}

		switch {
		case string(message) == s.handshake:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, s.payload); err != nil {
				log.Printf("[%s] failed to send record: %v", session, err)
				return
			}
			log.Printf("[%s] record sent (%d bytes)", session, len(s.payload))

		case isJSONArray(message):
			if s.deliver(message) {
				log.Printf("[%s] edited record received", session)
			}
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
				time.Now().Add(writeWait))
			return

		default:
			log.Printf("[%s] message: %s", session, message)
		}
	}
}

// Serve accepts editor connections on ln until an edited record arrives
// or ctx is cancelled, then shuts the listener down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) ([]byte, error) {
	srv := &http.Server{Handler: s}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	log.Printf("serving websocket on %s", ln.Addr())

	var result []byte
	var err error
	select {
	case result = <-s.results:
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	if result != nil {
		return result, nil
	}
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		err = ErrServerClosed
	}
	return nil, err
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}
