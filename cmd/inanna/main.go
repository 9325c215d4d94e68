package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		addr        string
		dataDir     string
		writeConfig string
		verbose     bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	pflag.StringVar(&addr, "addr", "", "listen address (overrides config)")
	pflag.StringVar(&dataDir, "data", "", "data directory (overrides config)")
	pflag.StringVar(&writeConfig, "write-config", "", "write the effective config to a YAML file and exit")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}

	if writeConfig != "" {
		return SaveConfig(writeConfig, cfg)
	}

	srv, err := NewServer(cfg, log)
	if err != nil {
		return err
	}
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		// Exports hold the connection while Chrome prints, so the write
		// timeout stays generous.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
