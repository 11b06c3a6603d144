//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/isMxy0934/PandaAlpha/internal/api"
	"github.com/isMxy0934/PandaAlpha/internal/app"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
)

// App holds API server dependencies built by Wire.
type App struct {
	Config *app.Config
	Server *api.Server
	Meta   *meta.Store
}

// InitializeApp builds the API App via Wire.
// Caller must close a.Meta when shutting down.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideReader,
		app.ProvideWatermarkLedger,
		app.ProvideMetaStore,
		provideServer,
		wire.Struct(new(App), "Config", "Server", "Meta"),
	)
	return nil, nil
}
