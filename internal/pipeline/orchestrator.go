package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"newsbrief/internal/feeds"
	"newsbrief/internal/models"
	"newsbrief/internal/text"
)

// Caller-visible empty-result conditions. Everything else that goes
// wrong inside the pipeline degrades locally and never aborts the run.
var (
	// ErrNoFeeds means not a single selected feed answered successfully.
	ErrNoFeeds = errors.New("no feeds available")
	// ErrNoFreshItems means feeds answered but nothing survived the
	// freshness window.
	ErrNoFreshItems = errors.New("no fresh items")
)

// Fetcher issues one feed call.
type Fetcher interface {
	Fetch(ctx context.Context, feedID string, query models.FeedQuery) models.FeedResponse
}

// Degrader applies the one-shot broadened retry after a no-match. It
// also reports which feed served the returned response, since the
// retry may switch to a broader feed.
type Degrader interface {
	Degrade(ctx context.Context, feedID string, query models.FeedQuery, first models.FeedResponse) (models.FeedResponse, string)
}

// Resolver attaches the best available content body to an item.
type Resolver interface {
	Resolve(ctx context.Context, item *models.NewsItem)
}

// Summarizer turns (title, body) into a display payload. It handles its
// own fallback and therefore cannot fail.
type Summarizer interface {
	Summarize(ctx context.Context, title, body string) (shortTitle, summary string)
}

// Params is one pipeline invocation.
type Params struct {
	Keyword    string
	Area       string
	Feeds      []string
	DisplayCap int
}

// FeedDiagnostic reports a feed that contributed nothing and why.
type FeedDiagnostic struct {
	FeedID  string        `json:"feed_id"`
	Status  models.Status `json:"status"`
	Message string        `json:"message,omitempty"`
}

// Result is the ordered pipeline output plus per-feed diagnostics.
type Result struct {
	Items       []models.BriefingItem `json:"items"`
	Diagnostics []FeedDiagnostic      `json:"diagnostics,omitempty"`
}

// Orchestrator sequences fetch, degradation, aggregation, recency
// filtering, authority ranking, content resolution and summarization.
type Orchestrator struct {
	registry   *feeds.Registry
	fetcher    Fetcher
	degrader   Degrader
	resolver   Resolver
	summarizer Summarizer
	ranker     *AuthorityRanker
	recency    RecencyPolicy
	poolSize   int
	resolvers  int
	log        *slog.Logger
}

// Deps bundles the orchestrator collaborators.
type Deps struct {
	Registry   *feeds.Registry
	Fetcher    Fetcher
	Degrader   Degrader
	Resolver   Resolver
	Summarizer Summarizer
	Ranker     *AuthorityRanker
	Recency    RecencyPolicy
	// PoolSize is the per-feed oversampled request size, larger than
	// any display cap so filtering has room to discard.
	PoolSize int
	// MaxResolvers bounds concurrent content resolutions.
	MaxResolvers int
	Log          *slog.Logger
}

// New builds an orchestrator.
func New(d Deps) *Orchestrator {
	if d.PoolSize <= 0 {
		d.PoolSize = 50
	}
	if d.MaxResolvers <= 0 {
		d.MaxResolvers = 5
	}
	return &Orchestrator{
		registry:   d.Registry,
		fetcher:    d.Fetcher,
		degrader:   d.Degrader,
		resolver:   d.Resolver,
		summarizer: d.Summarizer,
		ranker:     d.Ranker,
		recency:    d.Recency,
		poolSize:   d.PoolSize,
		resolvers:  d.MaxResolvers,
		log:        d.Log,
	}
}

// Run executes one pipeline pass. Feed fetches and item resolutions run
// concurrently, but results are merged back in deterministic slots so
// the output order equals the sequential algorithm's order. The only
// errors returned are the two sentinel empty-result conditions; the
// Result (with diagnostics) is populated either way.
func (o *Orchestrator) Run(ctx context.Context, p Params) (*Result, error) {
	if p.DisplayCap <= 0 {
		p.DisplayCap = 10
	}

	result := &Result{}
	if len(p.Feeds) == 0 {
		return result, ErrNoFeeds
	}

	responses, servedBy := o.fetchAll(ctx, p)

	contribs := make([]Contribution, 0, len(p.Feeds))
	okFeeds := 0
	for i, feedID := range p.Feeds {
		resp := responses[i]
		switch resp.Status {
		case models.StatusOk:
			okFeeds++
			// tag items with the feed that actually served them, which
			// differs from the selected feed after a degradation switch
			profile, _ := o.registry.Lookup(servedBy[i])
			contribs = append(contribs, Contribution{
				FeedID:     servedBy[i],
				Query:      o.queryFor(p),
				Response:   resp,
				AreaScoped: profile.RequiresArea,
			})
		default:
			result.Diagnostics = append(result.Diagnostics, FeedDiagnostic{
				FeedID:  feedID,
				Status:  resp.Status,
				Message: resp.Message,
			})
		}
	}

	if okFeeds == 0 {
		return result, ErrNoFeeds
	}

	pool := Aggregate(contribs)
	fresh := o.recency.Filter(pool)
	if len(fresh) == 0 {
		return result, ErrNoFreshItems
	}

	ranked := o.ranker.Rank(fresh)
	if len(ranked) > p.DisplayCap {
		ranked = ranked[:p.DisplayCap]
	}

	result.Items = o.resolveAll(ctx, ranked)

	o.log.Debug("pipeline run complete",
		slog.String("keyword", p.Keyword),
		slog.Int("pool", len(pool)),
		slog.Int("fresh", len(fresh)),
		slog.Int("output", len(result.Items)),
	)

	return result, nil
}

func (o *Orchestrator) queryFor(p Params) models.FeedQuery {
	return models.FeedQuery{
		Keyword:        p.Keyword,
		Area:           p.Area,
		RequestedCount: o.poolSize,
	}
}

// fetchAll issues all feed calls concurrently, one worker per feed, and
// slots each (possibly degraded) response by feed index. servedBy[i] is
// the feed that produced responses[i], which the degradation retry may
// have switched away from p.Feeds[i].
func (o *Orchestrator) fetchAll(ctx context.Context, p Params) (responses []models.FeedResponse, servedBy []string) {
	responses = make([]models.FeedResponse, len(p.Feeds))
	servedBy = make([]string, len(p.Feeds))

	var g errgroup.Group
	g.SetLimit(len(p.Feeds))
	for i, feedID := range p.Feeds {
		g.Go(func() error {
			query := o.queryFor(p)
			resp := o.fetcher.Fetch(ctx, feedID, query)
			served := feedID
			if resp.Status == models.StatusNoMatch {
				resp, served = o.degrader.Degrade(ctx, feedID, query, resp)
			}
			responses[i] = resp
			servedBy[i] = served
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return responses, servedBy
}

// resolveAll resolves and summarizes the capped, ranked items with a
// bounded worker pool, writing each briefing into its ordinal slot.
// Hotlist entries are bare search phrases; they skip both resolution and
// summarization and come out title-framed.
func (o *Orchestrator) resolveAll(ctx context.Context, ranked []models.NewsItem) []models.BriefingItem {
	briefs := make([]models.BriefingItem, len(ranked))

	var g errgroup.Group
	g.SetLimit(o.resolvers)
	for i, item := range ranked {
		g.Go(func() error {
			briefs[i] = o.brief(ctx, item)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return briefs
}

func (o *Orchestrator) brief(ctx context.Context, item models.NewsItem) models.BriefingItem {
	shortTitle := item.Title
	summary := ""

	if item.SourceTag != feeds.FeedHotlist {
		o.resolver.Resolve(ctx, &item)
		if item.ResolvedBody != "" {
			shortTitle, summary = o.summarizer.Summarize(ctx, item.Title, item.ResolvedBody)
		}
	}

	id := text.BuildItemID(item.Title, item.Source, item.PublishedAt)
	if id == "" {
		id = uuid.NewString()
	}

	return models.BriefingItem{
		ID:         id,
		Item:       item,
		ShortTitle: shortTitle,
		Summary:    summary,
	}
}
