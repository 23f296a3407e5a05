package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attune-labs/attune/internal/api"
	"github.com/attune-labs/attune/internal/bus"
	"github.com/attune-labs/attune/internal/config"
	"github.com/attune-labs/attune/internal/detector"
	"github.com/attune-labs/attune/internal/emotion"
	"github.com/attune-labs/attune/internal/provider"
	"github.com/attune-labs/attune/internal/sampler"
	"github.com/attune-labs/attune/internal/session"
	"github.com/attune-labs/attune/internal/stats"
	"github.com/attune-labs/attune/internal/store"

	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("attune starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Provider chain — priority order, local guaranteed-success tail.
	chain := provider.NewChain(slog.Default(),
		provider.NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.ProviderTimeout),
		provider.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ProviderTimeout),
		provider.NewLocal(),
	)
	for _, st := range chain.List() {
		slog.Info("provider registered", "name", st.Name, "configured", st.Configured)
	}

	// Detector
	det := detector.NewClient(cfg.DetectorURL)
	slog.Info("detector client ready", "url", cfg.DetectorURL)

	// NATS (optional — attune works without the bus, just no events)
	var busClient *bus.Client
	if cfg.NatsURL != "" {
		busClient, err = bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer busClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without event bus")
	}

	// Live sessions + periodic tasks
	registry := session.NewRegistry(cfg.BufferCapacity)
	smp := sampler.New(det, db, busClient, cfg.SampleInterval, cfg.AutosaveInterval, slog.Default())

	// Push-mode detector samples arrive over the bus and feed the same
	// buffers the polling path fills.
	if err := busClient.SubscribeDetectorSamples(func(ds bus.DetectorSample) {
		id, err := uuid.Parse(ds.SessionID)
		if err != nil {
			slog.Warn("push sample with invalid session id", "session_id", ds.SessionID)
			return
		}
		buf, ok := registry.Buffer(id)
		if !ok {
			return
		}
		buf.Append(emotion.Sample{
			Vector:     ds.Emotions,
			Confidence: ds.Confidence,
			CapturedAt: time.Now().UTC(),
			Age:        ds.Age,
			Gender:     ds.Gender,
		})
	}); err != nil {
		slog.Error("failed to subscribe to detector samples", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(ctx, cfg.Port, cfg.APIToken, api.Deps{
		Store:        db,
		Stats:        stats.NewAggregator(db),
		Chain:        chain,
		Sessions:     registry,
		StartSampler: smp.Start,
		Bus:          busClient,
		Window:       cfg.EmotionWindow,
		Logger:       slog.Default(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("attune ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	registry.EndAll()
	cancel()
	slog.Info("attune stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
