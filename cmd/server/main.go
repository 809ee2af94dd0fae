package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/liveroom/internal/adapters/http"
	signaling "github.com/dkeye/liveroom/internal/adapters/signal"
	"github.com/dkeye/liveroom/internal/app"
	"github.com/dkeye/liveroom/internal/app/orch"
	"github.com/dkeye/liveroom/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Err(err).Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	policy, err := app.ParsePolicy(cfg.BackpressurePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("backpressure policy")
	}

	reg := app.NewRegistry()
	rooms := app.NewRoomManager(reg)
	o := orch.New(reg, rooms, app.NewRouter(reg, rooms, policy))
	ctrl := signaling.NewSignalWSController(o, cfg)

	r := router.SetupRouter(ctx, cfg, o, ctrl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("liveroom signaling server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
