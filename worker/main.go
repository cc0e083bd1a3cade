package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"newsbrief/internal/config"
	"newsbrief/internal/dedupe"
	"newsbrief/internal/feeds"
	"newsbrief/internal/logger"
	"newsbrief/internal/models"
	"newsbrief/internal/pipeline"
	"newsbrief/internal/resolve"
	"newsbrief/internal/summarize"
)

type briefingRunner interface {
	Run(ctx context.Context, p pipeline.Params) (*pipeline.Result, error)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func main() {
	_ = godotenv.Load()

	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	orchestrator, err := buildOrchestrator(ctx, cfg.Common, log)
	if err != nil {
		log.Error("init pipeline", slog.Any("err", err))
		os.Exit(1)
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTopic,
		MaxAttempts: 3,
	})
	defer writer.Close()

	window := dedupe.NewWindow(cfg.DedupeCapacity, cfg.DedupeTTL)

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.Duration("interval", cfg.Interval),
		slog.Any("keywords", cfg.Keywords),
	)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	runOnce(ctx, log, orchestrator, writer, window, cfg)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			runOnce(ctx, log, orchestrator, writer, window, cfg)
		}
	}
}

// buildOrchestrator wires the pipeline stages out of one Common config.
func buildOrchestrator(ctx context.Context, cfg config.Common, log *slog.Logger) (*pipeline.Orchestrator, error) {
	registry := feeds.NewRegistry(cfg.TianAPIBase)
	fetcher := feeds.NewFetcher(registry, cfg.TianAPIKey, cfg.FetchTimeout, log)

	var textClient summarize.TextClient
	if cfg.GeminiAPIKey != "" {
		client, err := summarize.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		textClient = client
	} else {
		log.Warn("no summarizer key configured, briefings will carry verbatim bodies")
	}

	return pipeline.New(pipeline.Deps{
		Registry:   registry,
		Fetcher:    fetcher,
		Degrader:   feeds.NewController(fetcher, log),
		Resolver:   resolve.New(resolve.NewArticleExtractor(cfg.ExtractTimeout), cfg.MinUsefulChars, log),
		Summarizer: summarize.New(textClient, cfg.SummaryMaxIn, cfg.SummaryTimeout, log),
		Ranker:     pipeline.NewAuthorityRanker(cfg.AuthoritySources),
		Recency: pipeline.RecencyPolicy{
			WindowDays:       cfg.FreshnessWindowDays,
			UnparseableFresh: cfg.UnparseableFresh,
		},
		PoolSize:     cfg.PoolSize,
		MaxResolvers: cfg.MaxResolvers,
		Log:          log,
	}), nil
}

// runOnce runs the pipeline for every configured keyword and publishes
// the briefings that were not already seen inside the dedupe window. A
// failed keyword never stops the others.
func runOnce(ctx context.Context, log *slog.Logger, runner briefingRunner, writer messageWriter, window *dedupe.Window, cfg *config.Worker) {
	for _, keyword := range cfg.Keywords {
		if ctx.Err() != nil {
			return
		}

		result, err := runner.Run(ctx, pipeline.Params{
			Keyword:    keyword,
			Area:       cfg.Area,
			Feeds:      cfg.Feeds,
			DisplayCap: cfg.DisplayCap,
		})
		if err != nil {
			if errors.Is(err, pipeline.ErrNoFeeds) || errors.Is(err, pipeline.ErrNoFreshItems) {
				log.Warn("empty briefing",
					slog.String("keyword", keyword),
					slog.String("reason", err.Error()),
					slog.Int("failed_feeds", len(result.Diagnostics)),
				)
				continue
			}
			log.Error("briefing run failed", slog.String("keyword", keyword), slog.Any("err", err))
			continue
		}

		published := publishBriefings(ctx, log, writer, window, result.Items)
		log.Info("briefing published",
			slog.String("keyword", keyword),
			slog.Int("items", len(result.Items)),
			slog.Int("new", published),
		)
	}
}

// publishBriefings writes each unseen briefing to Kafka and returns how
// many went out. An item is only recorded in the window after a
// successful write, so failed publishes retry next tick.
func publishBriefings(ctx context.Context, log *slog.Logger, writer messageWriter, window *dedupe.Window, items []models.BriefingItem) int {
	published := 0
	for _, brief := range items {
		key := dedupe.Key(brief.Item)
		if window.Published(key) {
			log.Debug("skipping already published item", slog.String("id", brief.ID))
			continue
		}

		payload, err := json.Marshal(brief)
		if err != nil {
			log.Error("marshal briefing", slog.String("id", brief.ID), slog.Any("err", err))
			continue
		}

		if err := writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(brief.ID),
			Value: payload,
		}); err != nil {
			log.Warn("publish briefing failed", slog.String("id", brief.ID), slog.Any("err", err))
			continue
		}

		window.Record(key)
		published++
	}
	return published
}
