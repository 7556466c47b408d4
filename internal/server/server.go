package server

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"tinyserver/internal/config"
	"tinyserver/internal/obs"
	"tinyserver/internal/request"
	"tinyserver/internal/response"
)

// Server accepts and serves one connection at a time. Each connection gets
// a single read, a single response, and is then closed.
type Server struct {
	listener net.Listener
	isClosed atomic.Bool
	handler  Handler
	logger   obs.Logger
	metrics  *obs.Metrics

	// buf is reused for every connection; requests alias it.
	buf     []byte
	current atomic.Pointer[net.Conn]
	done    chan struct{}
}

// Serve binds cfg.Addr and starts the accept loop in the background.
// logger and metrics may be nil.
func Serve(cfg config.Config, handler Handler, logger obs.Logger, metrics *obs.Metrics) (*Server, error) {
	if handler == nil {
		return nil, errors.New("nil handler")
	}
	if logger == nil {
		logger = obs.NopLogger{}
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = config.DefaultBufferSize
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}
	server := &Server{
		listener: ln,
		handler:  handler,
		logger:   logger,
		metrics:  metrics,
		buf:      make([]byte, bufSize),
		done:     make(chan struct{}),
	}

	logger.Logf(obs.Info, "Listening on %s", ln.Addr())
	go server.listen()

	return server, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops accepting, aborts the connection being served, if any, and
// waits for the loop to exit.
func (s *Server) Close() error {
	s.isClosed.Store(true)

	err := s.listener.Close()
	if c := s.current.Load(); c != nil {
		_ = (*c).SetDeadline(time.Now())
	}
	<-s.done

	return err
}

func (s *Server) listen() {
	defer close(s.done)

	for {
		conn, err := s.listener.Accept()

		if s.isClosed.Load() {
			if conn != nil {
				conn.Close()
			}
			return
		}

		if err != nil {
			s.logger.Logf(obs.Error, "Failed to establish a connection: %v", err)
			s.metrics.IOError("accept")
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	s.current.Store(&conn)
	defer func() {
		s.current.Store(nil)
		conn.Close()
	}()

	if s.isClosed.Load() {
		return
	}

	s.metrics.Connection()

	n, err := conn.Read(s.buf)
	if err != nil {
		s.logger.Logf(obs.Error, "Failed to read from connection: %v", err)
		s.metrics.IOError("read")
		return
	}

	data := s.buf[:n]
	s.logger.Logf(obs.Debug, "Received a request: %q", data)

	start := time.Now()
	resp := s.dispatch(data)

	if err := resp.Send(conn); err != nil {
		s.logger.Logf(obs.Error, "Failed to send response: %v", err)
		s.metrics.IOError("write")
	}
	s.metrics.Handled(start)
}

// dispatch parses data and routes the outcome to the handler.
func (s *Server) dispatch(data []byte) *response.Response {
	req, err := request.Parse(data)
	if err != nil {
		var perr request.ParseError
		if !errors.As(err, &perr) {
			perr = request.InvalidRequest
		}
		s.metrics.ParseError(perr.Label())

		if h, ok := s.handler.(BadRequestHandler); ok {
			if resp := h.HandleBadRequest(perr); resp != nil {
				return resp
			}
		}
		return DefaultBadRequest(s.logger, perr)
	}

	s.metrics.Request(req.Method().String())

	resp := s.handler.HandleRequest(req)
	if resp == nil {
		s.logger.Logf(obs.Error, "Handler returned no response for %s %s", req.Method(), req.Path())
		return response.New(response.StatusInternalServerError, nil)
	}

	return resp
}
