// Command locas-server serves the assistant over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/azharlabs/locas/internal/app"
	"github.com/azharlabs/locas/internal/server"
	"github.com/azharlabs/locas/pkg/config"
	"github.com/azharlabs/locas/pkg/logx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load configuration")
	}
	logx.Init(cfg.Production())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assistant, err := app.BuildAssistant(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build assistant")
	}

	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close(context.Background())

	srv := server.New(assistant, st, cfg.Production())
	logx.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := srv.Run(ctx, cfg.ListenAddr); err != nil {
		logx.Fatal().Err(err).Msg("server failed")
	}
}
