package resolve_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"newsbrief/internal/models"
	"newsbrief/internal/resolve"
)

type stubExtractor struct {
	body  string
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.body, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const longBody = "Regulators approved the merger on Friday after a nine month antitrust review of the deal."

func TestResolvePrefersExtractedText(t *testing.T) {
	ext := &stubExtractor{body: longBody}
	r := resolve.New(ext, 20, discardLogger())

	item := models.NewsItem{URL: "http://example.com/a", Description: "A perfectly fine feed description, long enough."}
	r.Resolve(context.Background(), &item)

	require.Equal(t, longBody, item.ResolvedBody)
	require.Equal(t, 1, ext.calls)
}

func TestResolveFallsBackToDescriptionOnExtractionFailure(t *testing.T) {
	ext := &stubExtractor{err: errors.New("paywall")}
	r := resolve.New(ext, 20, discardLogger())

	item := models.NewsItem{URL: "http://example.com/a", Description: longBody}
	r.Resolve(context.Background(), &item)

	require.Equal(t, longBody, item.ResolvedBody)
}

func TestResolveSkipsExtractionWithoutURL(t *testing.T) {
	ext := &stubExtractor{body: longBody}
	r := resolve.New(ext, 20, discardLogger())

	item := models.NewsItem{Description: longBody}
	r.Resolve(context.Background(), &item)

	require.Zero(t, ext.calls)
	require.Equal(t, longBody, item.ResolvedBody)
}

func TestResolveRejectsBoilerplateDescription(t *testing.T) {
	r := resolve.New(nil, 20, discardLogger())

	item := models.NewsItem{
		Description: "Full coverage on our portal, read more at the link",
		Digest:      longBody,
	}
	r.Resolve(context.Background(), &item)

	require.Equal(t, longBody, item.ResolvedBody)
}

func TestResolveDigestMustDifferFromDescription(t *testing.T) {
	r := resolve.New(nil, 200, discardLogger())

	// both fields identical and below the threshold: chain terminates empty
	item := models.NewsItem{Description: "short", Digest: "short"}
	r.Resolve(context.Background(), &item)

	require.Empty(t, item.ResolvedBody)
}

func TestResolveTitleOnlyWhenNothingUsable(t *testing.T) {
	ext := &stubExtractor{err: errors.New("timeout")}
	r := resolve.New(ext, 20, discardLogger())

	item := models.NewsItem{Title: "Breaking", URL: "http://example.com/a"}
	r.Resolve(context.Background(), &item)

	require.Empty(t, item.ResolvedBody)
}
