package resolve

import (
	"context"
	"log/slog"

	"newsbrief/internal/models"
	"newsbrief/internal/text"
)

// Extractor pulls readable article text for a URL. Implementations
// return an error for anything that is not an article (network failure,
// parse failure, paywall); the resolver treats all of them alike.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Resolver attaches the best available content body to an item through
// an ordered fallback chain:
//
//  1. full-text extraction from the item URL,
//  2. the feed-provided description,
//  3. the feed digest, when distinct from the description,
//  4. nothing — the item stays title-only.
//
// A candidate is only accepted when it is longer than the usefulness
// threshold and not teaser boilerplate.
type Resolver struct {
	extractor Extractor
	minRunes  int
	log       *slog.Logger
}

// New builds a resolver. minRunes is the minimal usable body length.
func New(extractor Extractor, minRunes int, log *slog.Logger) *Resolver {
	if minRunes <= 0 {
		minRunes = 20
	}
	return &Resolver{extractor: extractor, minRunes: minRunes, log: log}
}

// Resolve mutates item.ResolvedBody, the one permitted write on an
// aggregated item. Extraction failures are logged and swallowed; the
// chain simply advances.
func (r *Resolver) Resolve(ctx context.Context, item *models.NewsItem) {
	if item.URL != "" && r.extractor != nil {
		body, err := r.extractor.Extract(ctx, item.URL)
		if err != nil {
			r.log.Debug("article extraction failed",
				slog.String("url", item.URL),
				slog.Any("err", err),
			)
		} else if text.Usable(body, r.minRunes) {
			item.ResolvedBody = text.Clean(body)
			return
		}
	}

	if text.Usable(item.Description, r.minRunes) {
		item.ResolvedBody = text.Clean(item.Description)
		return
	}

	if item.Digest != item.Description && text.Usable(item.Digest, r.minRunes) {
		item.ResolvedBody = text.Clean(item.Digest)
	}
}
