//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/isMxy0934/PandaAlpha/internal/app"
	"github.com/isMxy0934/PandaAlpha/internal/ingest"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
	"github.com/isMxy0934/PandaAlpha/internal/provider"
)

// App holds ingest dependencies built by Wire.
type App struct {
	Config   *app.Config
	Pipeline *ingest.Pipeline
	Meta     *meta.Store
	DP       provider.DataProvider
}

// InitializeApp builds the ingest App via Wire.
// Caller must call a.DP.Close() and a.Meta.Close() when done.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideWatermarkLedger,
		app.ProvideMetaStore,
		app.ProvideDataProvider,
		app.ProvidePipeline,
		wire.Struct(new(App), "Config", "Pipeline", "Meta", "DP"),
	)
	return nil, nil
}
