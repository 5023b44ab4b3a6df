package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/TR404/video-call-app/internal/api/http"
	"github.com/TR404/video-call-app/internal/config"
	"github.com/TR404/video-call-app/internal/relay"
	"github.com/TR404/video-call-app/internal/repository"
	"github.com/TR404/video-call-app/internal/service"
	"github.com/TR404/video-call-app/lib/logger/sl"
	"github.com/TR404/video-call-app/lib/logger/slogpretty"
	"github.com/joho/godotenv"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	registry := relay.NewRegistry()
	router := relay.NewRouter(registry, relay.AddressingMode(cfg.Signaling.AddressingMode), log)

	roomRepo := repository.NewInMemoryRoomRepository()
	roomService := service.NewRoomService(roomRepo, registry, log)

	roomController := httpapi.NewRoomController(roomService, cfg.WebRTC)
	signalController := httpapi.NewSignalController(router, cfg.Signaling, log)

	engine := httpapi.SetupRouter(roomController, signalController)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: engine,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		log.Info("starting application",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("mode", cfg.Signaling.AddressingMode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", sl.Err(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", sl.Err(err))
	}
	log.Info("server exited")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
