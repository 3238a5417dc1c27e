// Command function serves a single route, named by CARDAPIO_FUNCTION_NAME,
// the way a one-function-per-endpoint platform deploys it.
package main

import (
	"fmt"
	"os"

	"cardapio-backend/internal/adapter/funcadapter"
	"cardapio-backend/internal/app"
	"cardapio-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if cfg.Function.Name == "" {
		fmt.Fprintln(os.Stderr, "CARDAPIO_FUNCTION_NAME is required")
		os.Exit(1)
	}

	a := app.New(cfg, "cardapio-function", nil)
	fn, err := funcadapter.New(funcadapter.Options{
		Dispatcher: a.Dispatcher,
		Logger:     a.Logger,
		Route:      cfg.Function.Name,
		BodyLimit:  cfg.Server.BodyLimitBytes,
	})
	if err != nil {
		a.Logger.Fatal().Err(err).Msg("invalid function")
	}

	port := cfg.Function.Port
	if port == "" {
		port = cfg.Server.Port
	}
	if err := a.Run(":"+port, fn); err != nil {
		a.Logger.Fatal().Err(err).Msg("server error")
	}
}
