package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"newsbrief/internal/config"
	"newsbrief/internal/feeds"
	"newsbrief/internal/logger"
	"newsbrief/internal/pipeline"
	"newsbrief/internal/resolve"
	"newsbrief/internal/summarize"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("api")
	cfg, err := config.LoadAPI()
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

	srv := &server{log: log, cfg: cfg, runner: orchestrator}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Get("/briefing", srv.handleBriefing)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
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

type briefingRunner interface {
	Run(ctx context.Context, p pipeline.Params) (*pipeline.Result, error)
}

type server struct {
	log    *slog.Logger
	cfg    *config.API
	runner briefingRunner
}

type briefingResponse struct {
	*pipeline.Result
	Reason string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleBriefing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	params := pipeline.Params{
		Keyword:    strings.TrimSpace(r.URL.Query().Get("keyword")),
		Area:       strings.TrimSpace(r.URL.Query().Get("area")),
		Feeds:      parseCSV(r.URL.Query().Get("feeds")),
		DisplayCap: clampInt(r.URL.Query().Get("limit"), s.cfg.DefaultCap, s.cfg.MaxCap),
	}
	if len(params.Feeds) == 0 {
		params.Feeds = []string{feeds.FeedGeneral}
	}

	result, err := s.runner.Run(ctx, params)
	switch {
	case errors.Is(err, pipeline.ErrNoFeeds):
		writeJSON(w, http.StatusOK, briefingResponse{Result: result, Reason: "no feeds available"})
	case errors.Is(err, pipeline.ErrNoFreshItems):
		writeJSON(w, http.StatusOK, briefingResponse{Result: result, Reason: "no fresh items"})
	case err != nil:
		s.log.Error("briefing run failed", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, briefingResponse{Result: result})
	}
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
