package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Server struct{ *http.Server }

type Option func(*http.Server)

// WithTimeouts задаёт read/write таймауты; нулевое значение - без таймаута.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *http.Server) {
		s.ReadTimeout = read
		s.ReadHeaderTimeout = read
		s.WriteTimeout = write
	}
}

func New(addr string, h http.Handler, opts ...Option) *Server {
	srv := &http.Server{Addr: addr, Handler: h}
	for _, opt := range opts {
		opt(srv)
	}
	return &Server{Server: srv}
}

// Run слушает Addr, пока жив ctx, затем корректно останавливает сервер.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve - как Run, но на готовом listener (удобно в тестах с ":0").
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() { errCh <- s.Server.Serve(ln) }()
	select {
	case <-ctx.Done():
		ctx2, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.Shutdown(ctx2)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
