package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newsbrief/internal/models"
)

// upstream response codes.
const (
	codeOK      = 200
	codeNoMatch = 250
)

// maxEnvelopeBytes caps how much of an upstream response body the
// decoder will read.
const maxEnvelopeBytes = 2 << 20

type envelope struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Result struct {
		Newslist []models.RawItem `json:"newslist"`
	} `json:"result"`
}

// Fetcher issues one bounded-timeout request per feed and decodes the
// response envelope. Network failures never escape as errors; they come
// back as StatusTransportError responses.
type Fetcher struct {
	client   *http.Client
	registry *Registry
	key      string
	log      *slog.Logger
}

// NewFetcher builds a fetcher with a dedicated HTTP client. key is the
// upstream API credential; timeout bounds every single feed call.
func NewFetcher(registry *Registry, key string, timeout time.Duration, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		registry: registry,
		key:      key,
		log:      log,
	}
}

// Fetch calls one feed with the parameters its profile accepts. A keyword
// is only sent to keyword-searchable feeds; a region-scoped feed without
// an area is rejected locally before any request goes out.
func (f *Fetcher) Fetch(ctx context.Context, feedID string, query models.FeedQuery) models.FeedResponse {
	profile, ok := f.registry.Lookup(feedID)
	if !ok {
		return models.FeedResponse{
			Status:  models.StatusUpstreamError,
			Message: fmt.Sprintf("unknown feed %q", feedID),
		}
	}

	if profile.RequiresArea && query.Area == "" {
		return models.FeedResponse{
			Status:  models.StatusUpstreamError,
			Message: fmt.Sprintf("feed %q requires an area name", feedID),
		}
	}

	params := url.Values{}
	params.Set("key", f.key)
	params.Set("num", strconv.Itoa(query.RequestedCount))
	if profile.AcceptsKeyword && query.Keyword != "" {
		params.Set("word", query.Keyword)
	}
	if profile.RequiresArea {
		params.Set("areaname", query.Area)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.registry.Endpoint(profile)+"?"+params.Encode(), nil)
	if err != nil {
		return models.FeedResponse{
			Status:  models.StatusTransportError,
			Message: err.Error(),
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn("feed request failed",
			slog.String("feed", feedID),
			slog.Any("err", err),
		)
		return models.FeedResponse{
			Status:  models.StatusTransportError,
			Message: err.Error(),
		}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxEnvelopeBytes)).Decode(&env); err != nil {
		f.log.Warn("feed envelope decode failed",
			slog.String("feed", feedID),
			slog.Any("err", err),
		)
		return models.FeedResponse{
			Status:  models.StatusTransportError,
			Message: fmt.Sprintf("decode envelope: %v", err),
		}
	}

	switch env.Code {
	case codeOK:
		return models.FeedResponse{
			Status:  models.StatusOk,
			Items:   env.Result.Newslist,
			Message: env.Msg,
		}
	case codeNoMatch:
		return models.FeedResponse{
			Status:  models.StatusNoMatch,
			Message: env.Msg,
		}
	default:
		return models.FeedResponse{
			Status:  models.StatusUpstreamError,
			Message: fmt.Sprintf("upstream code %d: %s", env.Code, env.Msg),
		}
	}
}
