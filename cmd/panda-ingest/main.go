package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/isMxy0934/PandaAlpha/internal/app"
	"github.com/isMxy0934/PandaAlpha/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	once := flag.String("once", "", "run a single ingest for the given trade date (YYYY-MM-DD) and exit")
	flag.Parse()

	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.Meta.Close()
	defer a.DP.Close()

	slog.SetDefault(slogx.NewDefault(a.Config.LogLevel))
	slog.Info("using data provider", "provider", a.DP.GetName())
	slog.Info("lake", "parquet_root", a.Config.ParquetRoot(), "watermark", a.Config.WatermarkPath())

	if *once != "" {
		report := a.Pipeline.RunDaily(context.Background(), *once)
		if report.Failed() {
			os.Exit(1)
		}
		return
	}

	app.RunFlow(a.Config, a.Pipeline, a.Meta)
}
