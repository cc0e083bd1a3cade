package feeds

import (
	"context"
	"log/slog"
	"strings"

	"newsbrief/internal/models"
)

// Client is the narrow fetch contract the controller needs.
type Client interface {
	Fetch(ctx context.Context, feedID string, query models.FeedQuery) models.FeedResponse
}

// Controller re-issues a single broadened query after a no-match
// response. It never retries more than once per feed per run, and it
// never fires for keyword-less queries.
type Controller struct {
	client Client
	log    *slog.Logger
}

// NewController wires the degradation controller over a feed client.
func NewController(client Client, log *slog.Logger) *Controller {
	return &Controller{client: client, log: log}
}

// Degrade inspects the first response for a feed. On NoMatch with a
// non-empty keyword it issues exactly one broadened retry: a multi-word
// keyword shrinks to its first token on the same feed, a single-word
// keyword falls through to the keyword-less hotlist feed. Every other
// response is returned untouched.
//
// The second return value is the feed that actually served the returned
// response, so downstream tagging stays truthful across a feed switch.
func (c *Controller) Degrade(ctx context.Context, feedID string, query models.FeedQuery, first models.FeedResponse) (models.FeedResponse, string) {
	if first.Status != models.StatusNoMatch || query.Keyword == "" {
		return first, feedID
	}

	retryFeed := feedID
	retryQuery := query

	if token := firstToken(query.Keyword); token != query.Keyword {
		retryQuery.Keyword = token
	} else {
		retryFeed = FeedHotlist
		retryQuery.Keyword = ""
	}

	c.log.Info("broadening query after no-match",
		slog.String("feed", feedID),
		slog.String("retry_feed", retryFeed),
		slog.String("retry_keyword", retryQuery.Keyword),
	)

	return c.client.Fetch(ctx, retryFeed, retryQuery), retryFeed
}

func firstToken(keyword string) string {
	fields := strings.Fields(keyword)
	if len(fields) == 0 {
		return keyword
	}
	return fields[0]
}
