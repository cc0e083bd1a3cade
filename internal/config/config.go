package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common holds the pipeline parameters shared by every binary.
type Common struct {
	TianAPIBase string
	TianAPIKey  string

	GeminiAPIKey string
	GeminiModel  string

	FreshnessWindowDays int
	// UnparseableFresh controls what happens to a timestamp the filter
	// cannot parse: true lets the item through, false drops it. Missing
	// timestamps are always dropped.
	UnparseableFresh bool
	AuthoritySources []string

	PoolSize       int
	MaxResolvers   int
	MinUsefulChars int

	FetchTimeout   time.Duration
	ExtractTimeout time.Duration
	SummaryTimeout time.Duration
	SummaryMaxIn   int
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr       string
	DefaultCap     int
	MaxCap         int
	RequestTimeout time.Duration
}

// Worker holds configuration for the scheduled briefing publisher.
type Worker struct {
	Common
	KafkaBrokers   []string
	KafkaTopic     string
	Interval       time.Duration
	Keywords       []string
	Area           string
	Feeds          []string
	DisplayCap     int
	DedupeCapacity int
	DedupeTTL      time.Duration
}

func loadCommon() (Common, error) {
	c := Common{
		TianAPIBase:         getEnv("TIANAPI_BASE_URL", "https://apis.tianapi.com"),
		TianAPIKey:          getEnv("TIANAPI_KEY", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		FreshnessWindowDays: getInt("FRESHNESS_WINDOW_DAYS", 7),
		UnparseableFresh:    getBool("RECENCY_UNPARSEABLE_FRESH", true),
		AuthoritySources:    splitAndTrim(getEnv("AUTHORITY_SOURCES", "新华,人民日报,央视,Xinhua,Reuters")),
		PoolSize:            getInt("FEED_POOL_SIZE", 50),
		MaxResolvers:        getInt("RESOLVE_WORKERS", 5),
		MinUsefulChars:      getInt("RESOLVE_MIN_CHARS", 20),
		FetchTimeout:        getDuration("FEED_FETCH_TIMEOUT", "10s"),
		ExtractTimeout:      getDuration("EXTRACT_TIMEOUT", "15s"),
		SummaryTimeout:      getDuration("SUMMARY_TIMEOUT", "20s"),
		SummaryMaxIn:        getInt("SUMMARY_MAX_INPUT", 2000),
	}

	if c.TianAPIKey == "" {
		return c, fmt.Errorf("TIANAPI_KEY must be set")
	}
	if c.FreshnessWindowDays <= 0 {
		return c, fmt.Errorf("FRESHNESS_WINDOW_DAYS must be positive")
	}
	if c.PoolSize <= 0 {
		return c, fmt.Errorf("FEED_POOL_SIZE must be positive")
	}
	if c.MaxResolvers <= 0 {
		return c, fmt.Errorf("RESOLVE_WORKERS must be positive")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &API{
		Common:         common,
		BindAddr:       getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		DefaultCap:     getInt("API_DISPLAY_CAP", 10),
		MaxCap:         getInt("API_MAX_DISPLAY_CAP", 30),
		RequestTimeout: getDuration("API_REQUEST_TIMEOUT", "90s"),
	}

	if c.DefaultCap <= 0 {
		return nil, fmt.Errorf("API_DISPLAY_CAP must be positive")
	}
	if c.MaxCap <= 0 {
		return nil, fmt.Errorf("API_MAX_DISPLAY_CAP must be positive")
	}
	if c.DefaultCap > c.MaxCap {
		return nil, fmt.Errorf("API_DISPLAY_CAP cannot exceed API_MAX_DISPLAY_CAP")
	}

	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &Worker{
		Common:         common,
		KafkaBrokers:   splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "news_briefings"),
		Interval:       getDuration("WORKER_INTERVAL", "1h"),
		Keywords:       splitAndTrim(getEnv("WORKER_KEYWORDS", "")),
		Area:           getEnv("WORKER_AREA", ""),
		Feeds:          splitAndTrim(getEnv("WORKER_FEEDS", "general,internet")),
		DisplayCap:     getInt("WORKER_DISPLAY_CAP", 10),
		DedupeCapacity: getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:      getDuration("WORKER_DEDUPE_TTL", "24h"),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if len(c.Keywords) == 0 {
		return nil, fmt.Errorf("WORKER_KEYWORDS must contain at least one keyword")
	}
	if len(c.Feeds) == 0 {
		return nil, fmt.Errorf("WORKER_FEEDS must contain at least one feed")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("WORKER_INTERVAL must be positive")
	}
	if c.DisplayCap <= 0 {
		return nil, fmt.Errorf("WORKER_DISPLAY_CAP must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
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
