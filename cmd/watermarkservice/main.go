package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"watermark-service/internal/app"
	"watermark-service/internal/transport/echo"
	"watermark-service/pkg/logger"
)

const envFilePath = ".env"

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	bootLog := logger.New("info", logger.FormatJSON)

	if err := godotenv.Load(envFilePath); err != nil {
		bootLog.Warn().Msg(".env file not found, using environment variables")
	}

	service, err := app.NewService()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to initialize service")
	}
	defer service.Close()

	cfg := service.Config()
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	server := echo.NewServer(cfg, service, log)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("backend", cfg.Watermark.Backend).Msg("starting watermark service")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
