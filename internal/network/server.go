// Package network serves the engine over TCP. The protocol is a stream
// of msgpack-encoded Request/Response pairs per connection.
package network

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/kihiko-jay/mini-rdbms/internal/engine"
	"github.com/kihiko-jay/mini-rdbms/internal/sql"
	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// Request is one statement sent by a client.
type Request struct {
	Query string `msgpack:"query"`
}

// Response is the outcome of one statement. Error is set instead of the
// other fields when the statement failed. Row values arrive in the same
// order as Columns.
type Response struct {
	Columns      []string        `msgpack:"columns,omitempty"`
	Rows         [][]value.Value `msgpack:"rows,omitempty"`
	RowsAffected int             `msgpack:"rows_affected"`
	Message      string          `msgpack:"message,omitempty"`
	Error        string          `msgpack:"error,omitempty"`
}

// Server exposes a shared engine to many connections. Execution is
// serialized under a lock: the engine runs one statement at a time.
type Server struct {
	eng    *engine.Engine
	logger *zap.Logger

	mu sync.Mutex
}

// NewServer wraps eng. A nil logger disables access logging.
func NewServer(eng *engine.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{eng: eng, logger: logger}
}

// ListenAndServe binds addr and serves until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer listener.Close()

	s.logger.Info("listening", zap.String("addr", listener.Addr().String()))
	return s.Serve(listener)
}

// Serve accepts connections from l, one goroutine per connection.
func (s *Server) Serve(l net.Listener) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	logger := s.logger.With(zap.String("remote", conn.RemoteAddr().String()))
	logger.Info("client connected")
	defer logger.Info("client disconnected")

	// Use Decoder/Encoder pairs directly on the stream
	decoder := msgpack.NewDecoder(conn)
	encoder := msgpack.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return // Connection closed gracefully
			}
			logger.Error("decode error", zap.Error(err))
			return
		}

		resp := s.exec(req.Query)
		if resp.Error != "" {
			logger.Warn("statement failed",
				zap.String("query", req.Query),
				zap.String("error", resp.Error),
			)
		} else {
			logger.Info("statement ok",
				zap.String("query", req.Query),
				zap.Int("rows_affected", resp.RowsAffected),
				zap.Int("rows_returned", len(resp.Rows)),
			)
		}

		if err := encoder.Encode(resp); err != nil {
			logger.Error("encode error", zap.Error(err))
			return
		}
	}
}

// exec parses and runs one statement under the server lock.
func (s *Server) exec(query string) *Response {
	cmd, err := sql.Parse(query)
	if err != nil {
		return &Response{Error: err.Error()}
	}

	s.mu.Lock()
	result, err := s.eng.Execute(context.Background(), cmd)
	s.mu.Unlock()
	if err != nil {
		return &Response{Error: err.Error()}
	}

	resp := &Response{
		Columns:      result.Columns,
		RowsAffected: result.RowsAffected,
		Message:      result.Message,
	}
	for _, row := range result.Rows {
		resp.Rows = append(resp.Rows, row.Values())
	}
	return resp
}
