// Package host implements the client side of the collaboration host
// boundary: request/response operations plus push events carried as
// newline-delimited JSON over a unix socket. The host owns all real state;
// this package only moves frames.
package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/logging/events"
)

// DefaultCallTimeout bounds host round-trips when the caller supplies no
// deadline of its own. A hung host call should fail rather than leave the
// UI loading forever.
const DefaultCallTimeout = 5 * time.Second

// API is the set of host operations the client consumes. Implemented by
// Client and by the in-memory fake in hosttest.
type API interface {
	GetAllWindows(ctx context.Context) (WindowState, error)
	CreateTab(ctx context.Context, req CreateTabRequest) (content.Tab, error)
	ActivateTab(ctx context.Context, windowID, tabID string) error
	CloseTab(ctx context.Context, windowID, tabID string) error
	DetachTab(ctx context.Context, req DetachTabRequest) error
	ProcessSessionID(ctx context.Context, processID string) (string, error)
}

// EventSource provides push-event subscriptions. Each subscription gets its
// own buffered channel; the returned cancel func releases it.
type EventSource interface {
	Subscribe() (<-chan Event, func())
}

// Client talks to the host over a single socket connection.
type Client struct {
	conn net.Conn

	mu      sync.Mutex
	pending map[string]chan responseFrame
	subs    map[int]chan Event
	nextSub int
	closed  bool
	readErr error

	writeMu sync.Mutex
	enc     *json.Encoder
}

// ErrClosed is returned for calls made after the connection is gone.
var ErrClosed = errors.New("host connection closed")

// Dial connects to the host socket and starts the read loop.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial host socket %s: %w", socketPath, err)
	}
	c := newClient(conn)
	events.Host.Connected(socketPath)
	return c, nil
}

// NewClient wraps an established connection; split out from Dial so tests
// can drive the wire protocol over a net.Pipe.
func NewClient(conn net.Conn) *Client {
	return newClient(conn)
}

func newClient(conn net.Conn) *Client {
	c := &Client{
		conn:    conn,
		pending: make(map[string]chan responseFrame),
		subs:    make(map[int]chan Event),
		enc:     json.NewEncoder(conn),
	}
	go c.readLoop()
	return c
}

// Close tears down the connection. In-flight calls fail with ErrClosed and
// subscriber channels are closed.
func (c *Client) Close() error {
	err := c.conn.Close()
	c.fail(ErrClosed)
	return err
}

// Subscribe implements EventSource.
func (c *Client) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan Event, 32)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[id] = ch
	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (c *Client) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var frame responseFrame
		if err := json.Unmarshal(scanner.Bytes(), &frame); err != nil {
			events.Host.DecodeError(err)
			continue
		}
		if frame.Event != "" {
			c.broadcast(Event{Name: frame.Event, Payload: frame.Result})
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[frame.ID]
		if ok {
			delete(c.pending, frame.ID)
		}
		c.mu.Unlock()
		if ok {
			ch <- frame
		}
	}
	err := scanner.Err()
	if err == nil {
		err = ErrClosed
	}
	c.fail(err)
}

func (c *Client) broadcast(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		select {
		case sub <- evt:
		default:
			// Slow subscriber; drop rather than stall the read loop. The
			// registry reconciles through full refreshes, so a dropped
			// change event is recovered on the next one.
			events.Host.EventDropped(evt.Name)
		}
	}
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.readErr = err
	for id, ch := range c.pending {
		delete(c.pending, id)
		ch <- responseFrame{Error: err.Error()}
	}
	for id, sub := range c.subs {
		delete(c.subs, id)
		close(sub)
	}
}

// call performs one request/response round-trip. Applies DefaultCallTimeout
// when ctx carries no deadline.
func (c *Client) call(ctx context.Context, op string, params interface{}, result interface{}) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCallTimeout)
		defer cancel()
	}

	frame := requestFrame{ID: uuid.NewString(), Op: op}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode %s params: %w", op, err)
		}
		frame.Params = raw
	}

	ch := make(chan responseFrame, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[frame.ID] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err := c.enc.Encode(frame)
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, frame.ID)
		c.mu.Unlock()
		return fmt.Errorf("send %s: %w", op, err)
	}
	events.Host.Call(op, frame.ID)

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, frame.ID)
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ctx.Err())
	case resp := <-ch:
		if resp.Error != "" {
			return errors.New(resp.Error)
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decode %s result: %w", op, err)
			}
		}
		return nil
	}
}

// GetAllWindows fetches the host's full window/tab inventory.
func (c *Client) GetAllWindows(ctx context.Context) (WindowState, error) {
	var state WindowState
	err := c.call(ctx, OpGetAllWindows, nil, &state)
	return state, err
}

// CreateTab asks the host to open a tab and returns the created record.
func (c *Client) CreateTab(ctx context.Context, req CreateTabRequest) (content.Tab, error) {
	var tab content.Tab
	err := c.call(ctx, OpCreateTab, req, &tab)
	return tab, err
}

// ActivateTab asks the host to make tabID the active tab of windowID.
func (c *Client) ActivateTab(ctx context.Context, windowID, tabID string) error {
	params := map[string]string{"windowId": windowID, "tabId": tabID}
	return c.call(ctx, OpActivateTab, params, nil)
}

// CloseTab asks the host to close a tab.
func (c *Client) CloseTab(ctx context.Context, windowID, tabID string) error {
	params := map[string]string{"windowId": windowID, "tabId": tabID}
	return c.call(ctx, OpCloseTab, params, nil)
}

// DetachTab asks the host to move a tab into a new OS-level window.
func (c *Client) DetachTab(ctx context.Context, req DetachTabRequest) error {
	return c.call(ctx, OpDetachTab, req, nil)
}

// ProcessSessionID resolves the terminal session attached to a process, if
// any. An empty id with nil error means the process has no session and the
// dashboard view applies.
func (c *Client) ProcessSessionID(ctx context.Context, processID string) (string, error) {
	params := map[string]string{"processId": processID}
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.call(ctx, OpProcessSessionID, params, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}
