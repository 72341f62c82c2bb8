package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "github.com/Akash-repo/service-p/pkg/http"
	applogger "github.com/Akash-repo/service-p/pkg/logger"
)

// Drainer is a component that flushes in-flight work before closing.
type Drainer interface {
	Close(ctx context.Context) error
}

// Closer is a named infrastructure resource released at shutdown.
type Closer struct {
	Name  string
	Close func() error
}

// App encapsulates the application lifecycle.
type App struct {
	httpServer      *xhttp.Server
	drainers        []Drainer
	closers         []Closer
	shutdownTimeout time.Duration
	log             *applogger.Logger
}

// Option configures App.
type Option func(*App)

// WithDrainer registers a component drained after the HTTP server stops.
func WithDrainer(d Drainer) Option {
	return func(a *App) {
		if d != nil {
			a.drainers = append(a.drainers, d)
		}
	}
}

// WithCloser registers a resource closed after every drainer, in registration order.
func WithCloser(name string, fn func() error) Option {
	return func(a *App) {
		if fn != nil {
			a.closers = append(a.closers, Closer{Name: name, Close: fn})
		}
	}
}

// WithShutdownTimeout bounds the whole shutdown sequence.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		a.shutdownTimeout = d
	}
}

// New creates a new App.
func New(httpServer *xhttp.Server, l *applogger.Logger, opts ...Option) *App {
	a := &App{
		httpServer:      httpServer,
		shutdownTimeout: 15 * time.Second,
		log:             l.Named("app"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and shuts down once ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, drains in-flight work, then releases infrastructure.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	for _, d := range a.drainers {
		if err := d.Close(ctx); err != nil {
			a.log.Warn("drain error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("resource", c.Name), applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
