package hass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRPS     = 10
)

// ErrAuthFailed indicates the access token was rejected. Auth failures
// are never retried.
var ErrAuthFailed = errors.New("home assistant authentication failed")

// Client talks to the Home Assistant WebSocket API. It fetches the
// live-configuration snapshot the detection engine consumes; the engine
// itself never performs network I/O.
//
// Calls are issued sequentially over a single connection and rate
// limited to avoid hammering the host.
type Client struct {
	wsURL   string
	token   string
	timeout time.Duration
	limiter *rate.Limiter

	conn   *websocket.Conn
	nextID atomic.Int64
}

// NewClient creates a client for a Home Assistant base URL
// (http://host:8123 or ws://host:8123) and a long-lived access token.
func NewClient(baseURL, token string, timeout time.Duration, rps int) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if rps <= 0 {
		rps = defaultRPS
	}
	return &Client{
		wsURL:   websocketURL(baseURL),
		token:   token,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), rps*2),
	}
}

// Connect dials the WebSocket endpoint and completes the auth
// handshake.
func (c *Client) Connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.wsURL, err)
	}
	c.conn = conn

	if err := c.authenticate(); err != nil {
		_ = conn.Close()
		c.conn = nil
		return err
	}

	slog.Debug("connected to home assistant", slog.String("url", c.wsURL))
	return nil
}

// Close tears down the connection. Safe to call when not connected.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// authenticate performs the auth_required/auth/auth_ok exchange.
func (c *Client) authenticate() error {
	var hello serverMessage
	if err := c.read(&hello); err != nil {
		return fmt.Errorf("read auth_required: %w", err)
	}
	if hello.Type != "auth_required" {
		return fmt.Errorf("unexpected handshake message %q", hello.Type)
	}

	if err := c.write(map[string]any{"type": "auth", "access_token": c.token}); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}

	var verdict serverMessage
	if err := c.read(&verdict); err != nil {
		return fmt.Errorf("read auth result: %w", err)
	}
	switch verdict.Type {
	case "auth_ok":
		return nil
	case "auth_invalid":
		return fmt.Errorf("%w: %s", ErrAuthFailed, verdict.Message)
	default:
		return fmt.Errorf("unexpected auth response %q", verdict.Type)
	}
}

// call sends one command and decodes its result, skipping any
// interleaved event messages.
func (c *Client) call(ctx context.Context, command string, result any) error {
	if c.conn == nil {
		return errors.New("not connected")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	id := c.nextID.Add(1)
	if err := c.write(map[string]any{"id": id, "type": command}); err != nil {
		return fmt.Errorf("send %s: %w", command, err)
	}

	for {
		var msg serverMessage
		if err := c.read(&msg); err != nil {
			return fmt.Errorf("read %s result: %w", command, err)
		}
		if msg.Type != "result" || msg.ID != id {
			continue
		}
		if !msg.Success {
			reason := "unknown error"
			if msg.Error != nil {
				reason = msg.Error.Message
			}
			return fmt.Errorf("%s failed: %s", command, reason)
		}
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(msg.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", command, err)
		}
		return nil
	}
}

func (c *Client) write(payload any) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(payload)
}

func (c *Client) read(msg *serverMessage) error {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	return c.conn.ReadJSON(msg)
}

// serverMessage is the envelope for every frame Home Assistant sends.
type serverMessage struct {
	ID      int64           `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success bool            `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *serverError    `json:"error,omitempty"`
}

type serverError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// websocketURL converts a base URL into the API WebSocket endpoint.
func websocketURL(baseURL string) string {
	u := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	case strings.HasPrefix(u, "ws://"), strings.HasPrefix(u, "wss://"):
	default:
		u = "ws://" + u
	}
	if !strings.HasSuffix(u, "/api/websocket") {
		u += "/api/websocket"
	}
	return u
}
