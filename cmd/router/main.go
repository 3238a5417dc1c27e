// Command router is the single-function variant: one entry point that
// dispatches every path under the platform prefix.
package main

import (
	"fmt"
	"os"

	"cardapio-backend/internal/adapter/chiadapter"
	"cardapio-backend/internal/app"
	"cardapio-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	a := app.New(cfg, "cardapio-router", nil)
	h := chiadapter.New(chiadapter.Options{
		Dispatcher: a.Dispatcher,
		Logger:     a.Logger,
		Prefixes:   []string{cfg.Router.Prefix, cfg.Server.APIPrefix},
		BodyLimit:  cfg.Server.BodyLimitBytes,
	})

	if err := a.Run(":"+cfg.Server.Port, h); err != nil {
		a.Logger.Fatal().Err(err).Msg("server error")
	}
}
