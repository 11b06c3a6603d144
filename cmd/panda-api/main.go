package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isMxy0934/PandaAlpha/internal/api"
	"github.com/isMxy0934/PandaAlpha/internal/app"
	"github.com/isMxy0934/PandaAlpha/internal/lake"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
	"github.com/isMxy0934/PandaAlpha/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.Meta.Close()

	slog.SetDefault(slogx.NewDefault(a.Config.LogLevel))
	slog.Info("serving", "port", a.Config.APIPort, "data_dir", a.Config.DataDir)

	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-quit:
		slog.Info("received signal, shutting down", "sig", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// provideServer builds the API server (for Wire).
func provideServer(cfg *app.Config, reader *lake.Reader, wm *lake.WatermarkLedger, metaStore *meta.Store, log *slog.Logger) *api.Server {
	return api.NewServer(cfg.APIPort, reader, wm, metaStore, log)
}
