// Package server wraps net/http with graceful shutdown and signal
// handling for the reach daemon.
package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ConfigReloadFunc is called when a SIGHUP asks for a configuration
// reload.
type ConfigReloadFunc func() error

// Options carries the HTTP server timeouts. Zero values fall back to
// defaults suited to sweep workloads, where a response can take as long
// as a full sweep of the loaded graph.
type Options struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (o *Options) applyDefaults() {
	if o.ReadTimeout == 0 {
		o.ReadTimeout = 15 * time.Second
	}
	if o.WriteTimeout == 0 {
		o.WriteTimeout = 60 * time.Second
	}
	if o.ShutdownTimeout == 0 {
		o.ShutdownTimeout = 10 * time.Second
	}
}

// GracefulServer is an HTTP server that drains in-flight requests on
// SIGINT/SIGTERM and reloads configuration on SIGHUP.
type GracefulServer struct {
	server          *http.Server
	shutdownTimeout time.Duration
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
	configReloadFn  ConfigReloadFunc
	configMu        sync.RWMutex
}

// NewGracefulServer creates a server listening on addr.
func NewGracefulServer(addr string, handler http.Handler, opts Options) *GracefulServer {
	opts.applyDefaults()

	return &GracefulServer{
		server: &http.Server{
			Addr:           addr,
			Handler:        handler,
			ReadTimeout:    opts.ReadTimeout,
			WriteTimeout:   opts.WriteTimeout,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		shutdownTimeout: opts.ShutdownTimeout,
		shutdownCh:      make(chan struct{}),
	}
}

// Start serves until the listener fails or a shutdown drains it. A
// clean shutdown returns nil.
func (gs *GracefulServer) Start() error {
	go gs.handleSignals()

	log.Printf("Starting HTTP server on %s", gs.server.Addr)
	if err := gs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Shutdown drains in-flight requests, waiting at most timeout.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		log.Printf("Initiating graceful shutdown (timeout: %v)", timeout)

		if shutdownErr := gs.server.Shutdown(ctx); shutdownErr != nil {
			err = shutdownErr
			log.Printf("Error during shutdown: %v", shutdownErr)
		} else {
			log.Printf("Server shutdown complete")
		}
	})
	return err
}

func (gs *GracefulServer) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGINT, syscall.SIGTERM:
			log.Printf("Received %v signal, starting graceful shutdown...", sig)
			if err := gs.Shutdown(gs.shutdownTimeout); err != nil {
				log.Printf("Shutdown error: %v", err)
				os.Exit(1)
			}
			return

		case syscall.SIGHUP:
			log.Printf("Received SIGHUP signal, triggering configuration reload...")
			if err := gs.ReloadConfig(); err != nil {
				log.Printf("Configuration reload error: %v", err)
			}
		}
	}
}

// IsShuttingDown returns true once shutdown has been initiated.
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel closes when shutdown is initiated.
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetConfigReloadFunc sets the function run on SIGHUP.
func (gs *GracefulServer) SetConfigReloadFunc(fn ConfigReloadFunc) {
	gs.configMu.Lock()
	defer gs.configMu.Unlock()
	gs.configReloadFn = fn
}

// ReloadConfig runs the configured reload function, if any.
func (gs *GracefulServer) ReloadConfig() error {
	gs.configMu.RLock()
	reloadFn := gs.configReloadFn
	gs.configMu.RUnlock()

	if reloadFn == nil {
		log.Printf("Configuration reload requested, but no reload function configured")
		return nil
	}

	log.Printf("Reloading configuration...")
	if err := reloadFn(); err != nil {
		log.Printf("Configuration reload failed: %v", err)
		return err
	}

	log.Printf("Configuration reload complete")
	return nil
}
