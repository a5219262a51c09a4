package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"scenebridge/internal/scene"
)

var ErrClosed = errors.New("bridge connection closed")

var _ scene.Host = (*Client)(nil)

// Client is a scene.Host that talks to the editor over a websocket.
// Calls may be issued concurrently; responses are matched by id.
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex
	nextID  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan response
	err     error

	done      chan struct{}
	closeOnce sync.Once
}

func Dial(ctx context.Context, url string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing scene host %s: %w", url, err)
	}

	c := &Client{
		conn:    conn,
		logger:  logger.With("host", url),
		pending: make(map[uint64]chan response),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	<-c.done
	return err
}

func (c *Client) QueryComponents(ctx context.Context, node string) ([]scene.ComponentSnapshot, error) {
	var raw []map[string]any
	if err := c.call(ctx, MethodQueryComponents, nodeParams{Node: node}, &raw); err != nil {
		return nil, err
	}
	out := make([]scene.ComponentSnapshot, 0, len(raw))
	for _, comp := range raw {
		out = append(out, scene.DecodeComponent(comp))
	}
	return out, nil
}

func (c *Client) QueryComponentMetadata(ctx context.Context, node, componentType string) (map[string]any, error) {
	var meta map[string]any
	if err := c.call(ctx, MethodQueryComponentMetadata, metadataParams{Node: node, ComponentType: componentType}, &meta); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}

func (c *Client) WriteProperty(ctx context.Context, node string, path scene.Path, value any, explicitType string) error {
	if err := path.Validate(); err != nil {
		return err
	}
	return c.call(ctx, MethodSetProperty, setPropertyParams{
		Node:  node,
		Path:  path.String(),
		Value: scene.JSONSafe(value),
		Type:  explicitType,
	}, nil)
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding %s params: %w", method, err)
	}
	id := c.nextID.Add(1)
	data, err := json.Marshal(request{ID: id, Method: method, Params: raw})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	ch := make(chan response, 1)
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
	} else {
		_ = c.conn.SetWriteDeadline(time.Time{})
	}
	err = c.conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("sending %s: %w", method, err)
	}

	start := time.Now()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		c.mu.Lock()
		err := c.err
		c.mu.Unlock()
		return err
	case resp := <-ch:
		c.logger.Debug("host call", "method", method, "id", id, "latency", time.Since(start))
		if resp.Error != nil {
			return &RemoteError{Method: method, Message: resp.Error.Message}
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decoding %s result: %w", method, err)
			}
		}
		return nil
	}
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("scene host connection lost", "error", err)
			}
			c.fail(fmt.Errorf("%w: %v", ErrClosed, err))
			return
		}

		var resp response
		if err := json.Unmarshal(data, &resp); err != nil {
			c.logger.Warn("discarding malformed host message", "error", err)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		c.mu.Unlock()
		if !ok {
			c.logger.Debug("discarding response for unknown call", "id", resp.ID)
			continue
		}
		select {
		case ch <- resp:
		default:
			c.logger.Debug("discarding duplicate response", "id", resp.ID)
		}
	}
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}
