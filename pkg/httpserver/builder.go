package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Option func(*Options)

type Options struct {
	port         int
	logger       *zap.Logger
	handler      http.Handler
	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

func WithPort(port int) Option {
	return func(o *Options) {
		o.port = port
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

func WithHandler(handler http.Handler) Option {
	return func(o *Options) {
		o.handler = handler
	}
}

func WithTimeouts(read, write, idle time.Duration) Option {
	return func(o *Options) {
		o.readTimeout = read
		o.writeTimeout = write
		o.idleTimeout = idle
	}
}

type Server struct {
	httpServer *http.Server
	lis        net.Listener
	logger     *zap.Logger
}

// New creates an HTTP server using the builder options. The listener is
// bound immediately so port conflicts surface at construction time.
func New(opts ...Option) (*Server, error) {
	options := &Options{
		port:         8080,
		logger:       zap.NewNop(),
		handler:      http.NotFoundHandler(),
		readTimeout:  15 * time.Second,
		writeTimeout: 30 * time.Second,
		idleTimeout:  60 * time.Second,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.port < 1 || options.port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", options.port)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", options.port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", options.port, err)
	}

	logger := options.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		httpServer: &http.Server{
			Handler:      options.handler,
			ReadTimeout:  options.readTimeout,
			WriteTimeout: options.writeTimeout,
			IdleTimeout:  options.idleTimeout,
		},
		lis:    lis,
		logger: logger.Named("http-server"),
	}, nil
}

// Start runs the server in a goroutine and returns immediately.
func (s *Server) Start() {
	s.logger.Info("HTTP server starting", zap.String("addr", s.lis.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(s.lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the server gracefully, falling back to a hard close when
// the context expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("forced shutdown due to timeout", zap.Error(err))
		if closeErr := s.httpServer.Close(); closeErr != nil {
			return closeErr
		}
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}
