// Command server runs the whole storefront API as one process.
package main

import (
	"fmt"
	"os"

	"cardapio-backend/internal/adapter/ginadapter"
	"cardapio-backend/internal/app"
	"cardapio-backend/internal/asset"
	"cardapio-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	var assets asset.Storage
	if cfg.Assets.Dir != "" {
		assets = asset.Dir{Root: cfg.Assets.Dir}
	}

	a := app.New(cfg, "cardapio-server", assets)
	engine := ginadapter.New(ginadapter.Options{
		Dispatcher:     a.Dispatcher,
		Metrics:        a.Metrics,
		Logger:         a.Logger,
		APIPrefix:      cfg.Server.APIPrefix,
		AllowedOrigins: cfg.Server.AllowedOrigins(),
		BodyLimit:      cfg.Server.BodyLimitBytes,
		Production:     cfg.IsProduction(),
	})

	if err := a.Run(":"+cfg.Server.Port, engine); err != nil {
		a.Logger.Fatal().Err(err).Msg("server error")
	}
}
