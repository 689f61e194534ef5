package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

var (
	// ErrChannelUnavailable means the control socket could not be reached.
	ErrChannelUnavailable = errors.New("daemon not running (use 'nanobar start' first)")
	// ErrProtocolTimeout means the daemon accepted but did not answer in time.
	ErrProtocolTimeout = errors.New("daemon did not respond")
)

// DefaultTimeout bounds a client exchange when none is configured.
const DefaultTimeout = 2 * time.Second

// Client sends single requests to the daemon's control socket.
type Client struct {
	path    string
	timeout time.Duration
}

// NewClient returns a client for the socket at path.
func NewClient(path string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{path: path, timeout: timeout}
}

// Path returns the socket path the client dials.
func (c *Client) Path() string {
	return c.path
}

// Send performs one request/response exchange and returns the response word.
func (c *Client) Send(ctx context.Context, request string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", fmt.Errorf("set deadline: %w", err)
		}
	}

	if err := WriteLine(conn, request); err != nil {
		return "", classify(err, "failed to send command")
	}

	resp, _, err := ReadLine(conn)
	if err != nil {
		return "", classify(err, "failed to read response")
	}
	return resp, nil
}

// Ping reports whether a daemon answers pong on the socket.
func (c *Client) Ping(ctx context.Context) bool {
	resp, err := c.Send(ctx, RequestPing)
	return err == nil && resp == ResponsePong
}

func classify(err error, action string) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrProtocolTimeout, action, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrChannelUnavailable, action, err)
}
