package server

import (
	"errors"
	"net/http"
	"syscall"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}
	opts.applyDefaults()

	if opts.ReadTimeout == 0 || opts.WriteTimeout == 0 || opts.ShutdownTimeout == 0 {
		t.Errorf("applyDefaults left a zero timeout: %+v", opts)
	}

	custom := Options{ReadTimeout: 5 * time.Second}
	custom.applyDefaults()
	if custom.ReadTimeout != 5*time.Second {
		t.Errorf("applyDefaults overwrote explicit ReadTimeout: %v", custom.ReadTimeout)
	}
}

func TestGracefulServer_SIGHUPDoesNotShutDown(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), Options{})

	go func() {
		if err := gs.Start(); err != nil {
			t.Logf("Server stopped: %v", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("Failed to send SIGHUP: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	if gs.IsShuttingDown() {
		t.Error("Server should not be shutting down after SIGHUP")
	}

	if err := gs.Shutdown(1 * time.Second); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
}

func TestGracefulServer_ReloadConfig(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), Options{})

	reloadCalled := false
	gs.SetConfigReloadFunc(func() error {
		reloadCalled = true
		return nil
	})

	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() error = %v", err)
	}
	if !reloadCalled {
		t.Error("Config reload function was not called")
	}
}

func TestGracefulServer_ReloadConfigWithError(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), Options{})

	wantErr := errors.New("bad config")
	gs.SetConfigReloadFunc(func() error {
		return wantErr
	})

	if err := gs.ReloadConfig(); !errors.Is(err, wantErr) {
		t.Errorf("ReloadConfig() error = %v, want %v", err, wantErr)
	}
}

func TestGracefulServer_ReloadConfigWithoutFunc(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), Options{})

	if err := gs.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() without a reload func should be a no-op, got %v", err)
	}
}

func TestGracefulServer_ShutdownIdempotent(t *testing.T) {
	gs := NewGracefulServer(":0", okHandler(), Options{})

	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("first Shutdown error: %v", err)
	}
	if err := gs.Shutdown(time.Second); err != nil {
		t.Errorf("second Shutdown should be a no-op, got %v", err)
	}
	if !gs.IsShuttingDown() {
		t.Error("IsShuttingDown should report true after Shutdown")
	}
}
