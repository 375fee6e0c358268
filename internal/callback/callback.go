// Package callback serves the local OAuth redirect exactly once and hands the
// result of the redirect work back to the waiting caller.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/huangsam/hrzones/internal/contract"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownGrace     = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

const successPage = `<!DOCTYPE html>
<html><head><title>hrzones</title></head>
<body><p>Authorization received. You can close this window and return to the terminal.</p>
<script>window.close();</script></body></html>`

// HandlerFunc performs the work triggered by the redirect, using the run context.
type HandlerFunc[T any] func(ctx context.Context, code string) (T, error)

// Config holds listener settings.
type Config struct {
	Host    string
	Port    int // 0 lets the OS pick a free port
	Path    string
	Timeout time.Duration // 0 = wait indefinitely
}

// Synchronizer is a single-use rendezvous between one inbound redirect and Wait.
// Requests are handled one at a time. The first request on Path consumes the
// synchronizer; its result is captured once and every later request is
// answered with 410 Gone without touching the captured result.
type Synchronizer[T any] struct {
	cfg    Config
	handle HandlerFunc[T]

	mu       sync.Mutex
	finished atomic.Bool
	done     chan struct{}
	once     sync.Once
	value    T
	err      error

	// Guarded by mu. The timeout only applies until a request is accepted.
	accepted bool
	expired  bool
	deadline *time.Timer

	runCtx   context.Context
	listener net.Listener
	server   *http.Server
}

// New creates a Synchronizer. Nothing is bound until Listen or Wait is called.
func New[T any](cfg Config, handle HandlerFunc[T]) *Synchronizer[T] {
	s := &Synchronizer[T]{
		cfg:    cfg,
		handle: handle,
		done:   make(chan struct{}),
		runCtx: context.Background(),
	}
	s.server = &http.Server{Handler: s, ReadHeaderTimeout: readHeaderTimeout}
	return s
}

// Listen binds the loopback listener. Call it before starting the authorization
// flow so the redirect can never arrive before the port is open.
func (s *Synchronizer[T]) Listen() error {
	if s.listener != nil {
		return nil
	}
	if !contract.IsLoopbackHost(s.cfg.Host) {
		return fmt.Errorf("callback host %q is not a loopback address", s.cfg.Host)
	}
	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)))
	if err != nil {
		return fmt.Errorf("failed to bind callback listener: %w", err)
	}
	s.listener = ln
	contract.Logger().Debug("Callback listener bound", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Synchronizer[T]) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// RedirectURL returns the URL the provider must redirect to.
func (s *Synchronizer[T]) RedirectURL() string {
	port := s.cfg.Port
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	return "http://" + net.JoinHostPort(s.cfg.Host, strconv.Itoa(port)) + s.cfg.Path
}

// Done reports whether the redirect has been consumed.
func (s *Synchronizer[T]) Done() bool {
	return s.finished.Load()
}

// Close releases the listener when Wait will not be called.
func (s *Synchronizer[T]) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// Wait serves until the redirect has been handled, the configured timeout
// expires before any redirect is accepted, or ctx is cancelled. The redirect
// work runs on ctx, so the timeout never cuts it short. The listener is always
// shut down before Wait returns.
func (s *Synchronizer[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	if err := s.Listen(); err != nil {
		return zero, err
	}
	s.runCtx = ctx

	waitCtx, cancelWait := context.WithCancel(ctx)
	defer cancelWait()
	if s.cfg.Timeout > 0 {
		s.mu.Lock()
		s.deadline = time.AfterFunc(s.cfg.Timeout, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.accepted {
				return
			}
			s.expired = true
			cancelWait()
		})
		s.mu.Unlock()
		defer s.deadline.Stop()
	}

	g, gctx := errgroup.WithContext(waitCtx)
	g.Go(func() error {
		if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("callback listener failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-s.done:
		case <-gctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})
	groupErr := g.Wait()

	select {
	case <-s.done:
		if groupErr != nil {
			contract.LogWarn("Callback listener shutdown", groupErr)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.value, s.err
	default:
	}

	if groupErr != nil {
		return zero, groupErr
	}
	s.mu.Lock()
	expired := s.expired
	s.mu.Unlock()
	if expired {
		return zero, fmt.Errorf("%w: no redirect received within %s", contract.ErrCallbackTimeout, s.cfg.Timeout)
	}
	return zero, ctx.Err()
}

// ServeHTTP implements http.Handler.
func (s *Synchronizer[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != s.cfg.Path {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := contract.Logger()
	if s.finished.Load() {
		log.Warn("Ignoring redirect after completion", zap.String("remote", r.RemoteAddr))
		http.Error(w, "authorization already completed", http.StatusGone)
		return
	}
	if s.expired {
		http.Error(w, "authorization window expired", http.StatusServiceUnavailable)
		return
	}
	s.accepted = true
	if s.deadline != nil {
		s.deadline.Stop()
	}

	var zero T
	query := r.URL.Query()
	if reason := query.Get("error"); reason != "" {
		s.finish(zero, fmt.Errorf("%w: authorization denied: %s", contract.ErrProtocolFault, reason))
		http.Error(w, "authorization denied", http.StatusBadRequest)
		return
	}
	code := query.Get("code")
	if code == "" {
		s.finish(zero, fmt.Errorf("%w: redirect has no code parameter", contract.ErrProtocolFault))
		http.Error(w, "missing code parameter", http.StatusBadRequest)
		return
	}

	log.Debug("Redirect received", zap.String("remote", r.RemoteAddr))
	value, err := s.handle(s.runCtx, code)
	s.finish(value, err)
	if err != nil {
		http.Error(w, "authorization failed, see terminal for details", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, successPage)
}

// finish captures the result and fires the completion signal. Callers hold mu.
func (s *Synchronizer[T]) finish(value T, err error) {
	s.value, s.err = value, err
	s.finished.Store(true)
	s.once.Do(func() { close(s.done) })
}
