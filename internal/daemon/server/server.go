// Package server implements the daemon's command channel: a unix socket
// answering one line-protocol request per connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/nanobar-io/nanobar/internal/ipc"
	"github.com/nanobar-io/nanobar/internal/models"
)

// ErrServerClosed is returned by Serve after Close.
var ErrServerClosed = errors.New("server closed")

// Control is the daemon surface the channel acts on.
type Control interface {
	// Submit stages cmd and requests its execution on the UI thread.
	Submit(cmd models.Command)
	// Visibility returns the current divider state.
	Visibility() models.Visibility
}

// Server is the daemon's command channel.
type Server struct {
	path        string
	listener    net.Listener
	control     Control
	logger      *slog.Logger
	readTimeout time.Duration

	mu        sync.Mutex
	serving   bool
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

// New removes any stale socket at path and binds a fresh one.
// Callers must hold the instance lock: a live daemon's socket is removed too.
func New(path string, control Control, readTimeout time.Duration, logger *slog.Logger) (*Server, error) {
	if control == nil {
		return nil, errors.New("command channel requires a control")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "unix", path)
	if err != nil {
		return nil, fmt.Errorf("%w: listen on socket: %v", ipc.ErrChannelUnavailable, err)
	}

	return &Server{
		path:        path,
		listener:    listener,
		control:     control,
		logger:      logger.With("component", "server"),
		readTimeout: readTimeout,
		done:        make(chan struct{}),
	}, nil
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

// Serve accepts connections one at a time until Close is called.
func (s *Server) Serve() error {
	s.mu.Lock()
	if s.closed || s.serving {
		s.mu.Unlock()
		return ErrServerClosed
	}
	s.serving = true
	s.mu.Unlock()
	defer close(s.done)

	s.logger.Debug("command channel listening", "socket", s.path)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}
		s.handle(conn)
	}
}

// Close stops accepting, waits for the connection in flight to finish its
// response, and removes the socket file.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		serving := s.serving
		s.mu.Unlock()

		err = s.listener.Close()
		if serving {
			<-s.done
		}
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			s.logger.Warn("failed to remove socket", "socket", s.path, "error", rmErr)
		}
	})
	return err
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	if s.readTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(s.readTimeout)); err != nil {
			s.logger.Warn("set deadline failed", "error", err)
			return
		}
	}

	line, tooLong, err := ipc.ReadLine(conn)
	if err != nil {
		s.logger.Warn("read command failed", "error", err)
		return
	}

	resp := ipc.ResponseUnknown
	if !tooLong {
		resp = Respond(s.control, line)
	}
	s.logger.Debug("command handled", "command", line, "response", resp)

	if err := ipc.WriteLine(conn, resp); err != nil {
		s.logger.Warn("write response failed", "command", line, "error", err)
	}
}

// Respond maps one request line to its response, staging mutating commands
// on control.
func Respond(control Control, line string) string {
	switch line {
	case ipc.RequestPing:
		return ipc.ResponsePong
	case ipc.RequestState:
		if control.Visibility() == models.Hidden {
			return ipc.ResponseHidden
		}
		return ipc.ResponseVisible
	}

	if cmd, ok := models.ParseCommand(line); ok {
		control.Submit(cmd)
		return ipc.ResponseOK
	}
	return ipc.ResponseUnknown
}
