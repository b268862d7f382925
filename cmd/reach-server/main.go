package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dd0wney/cluso-reach/pkg/api"
	"github.com/dd0wney/cluso-reach/pkg/archive"
	"github.com/dd0wney/cluso-reach/pkg/config"
	"github.com/dd0wney/cluso-reach/pkg/history"
	"github.com/dd0wney/cluso-reach/pkg/logging"
	"github.com/dd0wney/cluso-reach/pkg/server"
	"github.com/dd0wney/cluso-reach/pkg/transport"
	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

// sweepBackend adapts the API server to the nng transport surface.
type sweepBackend struct {
	api *api.Server
}

func (b sweepBackend) Info() transport.InfoResult {
	info := b.api.Info()
	return transport.InfoResult{
		Loaded:   info.Loaded,
		Vertices: info.Vertices,
		Edges:    info.Edges,
	}
}

func (b sweepBackend) Sweep(workers int) (*traverse.SweepResult, error) {
	return b.api.Sweep(workers)
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.ErrorLog("failed to load config", logging.Error(err))
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level))
	logging.SetDefaultLogger(logger)

	logger.Info("Cluso Reach server starting",
		logging.String("host", cfg.Server.Host),
		logging.Int("port", cfg.Server.Port),
		logging.Workers(cfg.Sweep.Workers),
	)

	apiServer, err := api.NewServer(cfg, logger)
	if err != nil {
		logger.Error("failed to create API server", logging.Error(err))
		os.Exit(1)
	}

	if cfg.History.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := history.NewStore(ctx, cfg.History.DSN)
		cancel()
		if err != nil {
			logger.Error("failed to connect sweep history store", logging.Error(err))
			os.Exit(1)
		}
		defer store.Close()
		apiServer.SetHistory(store)
		logger.Info("sweep history enabled")
	}

	if cfg.Archive.Enabled {
		store, err := archive.NewStore(context.Background(), archive.Config{
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Prefix:    cfg.Archive.Prefix,
		})
		if err != nil {
			logger.Error("failed to configure graph archive", logging.Error(err))
			os.Exit(1)
		}
		apiServer.SetArchive(store)
		logger.Info("graph archive enabled",
			logging.String("bucket", cfg.Archive.Bucket),
		)
	}

	if cfg.Transport.Enabled {
		ts, err := transport.NewServer(cfg.Transport.Addr, sweepBackend{api: apiServer}, logger)
		if err != nil {
			logger.Error("failed to start transport", logging.Error(err))
			os.Exit(1)
		}
		defer ts.Close()
	}

	gs := server.NewGracefulServer(apiServer.Addr(), apiServer.Handler(), server.Options{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	// SIGHUP re-reads the config file and applies the log level; listen
	// address changes need a restart
	gs.SetConfigReloadFunc(func() error {
		reloaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		logger.SetLevel(logging.ParseLevel(reloaded.Log.Level))
		logger.Info("configuration reloaded",
			logging.String("log_level", reloaded.Log.Level),
		)
		return nil
	})

	apiServer.StartSystemMetrics(10*time.Second, gs.ShutdownChannel())

	logger.Info("server listening", logging.Addr(apiServer.Addr()))
	if err := gs.Start(); err != nil {
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	}

	logger.Info("server exited")
}
