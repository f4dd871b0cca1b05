package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/danielhkuo/calon-vote/auth"
	"github.com/danielhkuo/calon-vote/backend"
	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/router"
)

const (
	startupAttempts = 5
	startupDelay    = 2 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	var err error

	// Parse configuration (loads the dotenv file too)
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL")))
	slog.Info("Configuration loaded", "config", cfg.String())

	ctx := context.Background()

	// Connect the store and wait for it to answer
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("store connection failed", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := backend.WaitReady(ctx, store, startupAttempts, startupDelay); err != nil {
		slog.Error("store ping failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Store ready", "backend", store.Name())

	photos, err := backend.OpenPhotos(ctx, cfg)
	if err != nil {
		slog.Error("photo store setup failed", "backend", cfg.PhotoBackend, "error", err)
		os.Exit(1)
	}
	if c, ok := photos.(io.Closer); ok {
		defer c.Close()
	}

	verifier, err := auth.NewVerifier(cfg)
	if err != nil {
		slog.Error("admin credential setup failed", "error", err)
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(store, photos, verifier, cfg)

	// Create server
	server := http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight votes finish
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// newLogger picks the slog handler from LOG_FORMAT (text or json) and LOG_LEVEL
func newLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil || level == "" {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
