// cmd/rotation: el bot que muestra el mapa de ranked y cuánto le queda.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jose-valero/apex-presence-bot/internal/adapters/apexapi"
	"github.com/jose-valero/apex-presence-bot/internal/adapters/discord"
	"github.com/jose-valero/apex-presence-bot/internal/adapters/httpstatus"
	"github.com/jose-valero/apex-presence-bot/internal/app/service"
	"github.com/jose-valero/apex-presence-bot/internal/avatar"
	"github.com/jose-valero/apex-presence-bot/internal/infra/config"
	"github.com/jose-valero/apex-presence-bot/internal/scheduler"
	"github.com/jose-valero/apex-presence-bot/internal/telemetry"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	// logger por defecto sólo para errores de config
	slog.SetDefault(telemetry.NewLogger(os.Stderr, "", ""))

	cfg, err := config.LoadRotation()
	if err != nil {
		slog.Error("config", slog.Any("err", err))
		os.Exit(1)
	}
	slog.SetDefault(telemetry.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat))

	telemetry.Init()
	shutdownTracing, err := telemetry.InitTracing(cfg.OTLPEndpoint, "apex-rotation", version)
	if err != nil {
		slog.Warn("tracing disabled", slog.Any("err", err))
	}
	defer shutdownTracing()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Discord (esperamos READY antes de arrancar el scheduler)
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	s, err := discord.Open(openCtx, cfg.DiscordToken)
	cancel()
	if err != nil {
		slog.Error("discord", slog.Any("err", err))
		os.Exit(1)
	}
	defer s.Close()

	var opts []apexapi.Option
	if cfg.ApexBaseURL != "" {
		opts = append(opts, apexapi.WithBaseURL(cfg.ApexBaseURL))
	}
	api := apexapi.New(cfg.ApexAPIKey, opts...)

	svc := service.NewRotationService(
		api,
		discord.NewPresence(s.Session),
		avatar.NewRenderer(api, avatar.MapProcessor(cfg.Brightness)),
	)

	if cfg.MetricsAddr != "" {
		web := httpstatus.New("rotation", svc, s.Ready)
		go func() {
			if err := web.Start(ctx, cfg.MetricsAddr); err != nil {
				slog.Error("http server", slog.Any("err", err))
			}
		}()
	}

	sch, err := scheduler.New(scheduler.Config{
		Name:     "rotation",
		Interval: cfg.PollInterval,
		Timeout:  cfg.TickTimeout,
	}, svc.Tick)
	if err != nil {
		slog.Error("scheduler", slog.Any("err", err))
		os.Exit(1)
	}

	slog.Info("🗺️ rotation notifier running", slog.Duration("every", cfg.PollInterval), slog.String("version", version))
	sch.Run(ctx)
	slog.Info("bye")
}
