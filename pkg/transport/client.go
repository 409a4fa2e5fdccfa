// Package transport carries records over a websocket: the Client is the
// editor's side of the connection and the Server hosts a record file for
// it.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/metacols/metacols/pkg/codec"
	"github.com/metacols/metacols/pkg/models"
)

// ErrNotConnected is returned by Submit while no connection is open.
var ErrNotConnected = errors.New("websocket is not connected")

const writeWait = 10 * time.Second

// State is the connection lifecycle state
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is something the client reports to the UI.
type Event interface {
	isEvent()
}

// OpenedEvent is sent once the handshake went out on a new connection.
type OpenedEvent struct {
	URL string
}

// RecordEvent carries a decoded record.
type RecordEvent struct {
	Record models.Record
}

// EmptyRecordEvent reports a message holding zero rows. No views should
// be built for it.
type EmptyRecordEvent struct{}

// DecodeErrorEvent reports a message that was not a record. The error
// text has already been sent back to the server.
type DecodeErrorEvent struct {
	Err error
}

// ClosedEvent reports a lost or failed connection and the wait before
// the next attempt.
type ClosedEvent struct {
	Err     error
	RetryIn time.Duration
}

func (OpenedEvent) isEvent()      {}
func (RecordEvent) isEvent()      {}
func (EmptyRecordEvent) isEvent() {}
func (DecodeErrorEvent) isEvent() {}
func (ClosedEvent) isEvent()      {}

// Dialer opens websocket connections. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Client keeps one websocket connection to the record server alive,
// reconnecting after a fixed delay whenever it closes.
type Client struct {
	url       string
	handshake string
	delay     time.Duration
	dialer    Dialer
	events    chan Event

	mu    sync.Mutex
	conn  *websocket.Conn
	state State
}

// Option customizes a Client
type Option func(*Client)

// WithDialer replaces the default websocket dialer
func WithDialer(d Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithURL overrides the configured server URL
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// NewClient creates a client for the configured server
func NewClient(settings models.TransportSettings, opts ...Option) *Client {
	c := &Client{
		url:       settings.URL,
		handshake: settings.Handshake,
		delay:     settings.ReconnectDelay(),
		dialer:    websocket.DefaultDialer,
		events:    make(chan Event, 16),
		state:     StateClosed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the server URL
func (c *Client) URL() string {
	return c.url
}

// Events returns the channel the client reports on
func (c *Client) Events() <-chan Event {
	return c.events
}

// State returns the current connection state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run connects and keeps reconnecting until ctx is cancelled. There is
// no backoff and no retry limit. Run is called once; the events channel
// is closed when it returns.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.events)

	for {
		c.setState(StateConnecting)
		err := c.session(ctx)
		c.setState(StateClosed)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Printf("socket closed, attempting to reconnect in %s: %v", c.delay, err)
		c.emit(ctx, ClosedEvent{Err: err, RetryIn: c.delay})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stop()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	if err := c.send([]byte(c.handshake)); err != nil {
		return fmt.Errorf("failed to send handshake: %w", err)
	}
	log.Printf("socket connected to %s", c.url)
	c.emit(ctx, OpenedEvent{URL: c.url})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.dispatch(ctx, data)
	}
}

func (c *Client) dispatch(ctx context.Context, data []byte) {
	rec, err := codec.DecodeRecord(data)
	switch {
	case errors.Is(err, codec.ErrEmptyRecord):
		log.Printf("received an empty record")
		c.emit(ctx, EmptyRecordEvent{})
	case err != nil:
		log.Printf("received a malformed record: %v", err)
		if sendErr := c.send([]byte(err.Error())); sendErr != nil {
			log.Printf("failed to report decode error: %v", sendErr)
		}
		c.emit(ctx, DecodeErrorEvent{Err: err})
	default:
		c.emit(ctx, RecordEvent{Record: rec})
	}
}

func (c *Client) emit(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

// Submit sends an edited record as one text message.
func (c *Client) Submit(payload []byte) error {
	return c.send(payload)
}

func (c *Client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}
