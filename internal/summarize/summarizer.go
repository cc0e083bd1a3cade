package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsbrief/internal/text"
)

// TextClient is the opaque text-in/text-out service boundary.
type TextClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Summarizer turns (title, resolved body) into a short headline and a
// briefing summary. Any failure — timeout, quota, malformed or empty
// completion, or no configured client at all — falls back to the title
// and the verbatim body; summarization never blocks a briefing.
type Summarizer struct {
	client        TextClient
	maxInputRunes int
	timeout       time.Duration
	log           *slog.Logger
}

// New builds a summarizer. client may be nil, which turns every call
// into the verbatim fallback.
func New(client TextClient, maxInputRunes int, timeout time.Duration, log *slog.Logger) *Summarizer {
	if maxInputRunes <= 0 {
		maxInputRunes = 2000
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Summarizer{
		client:        client,
		maxInputRunes: maxInputRunes,
		timeout:       timeout,
		log:           log,
	}
}

// Summarize returns (shortTitle, summary). The body is truncated to the
// configured input bound before it reaches the model.
func (s *Summarizer) Summarize(ctx context.Context, title, body string) (string, string) {
	if s.client == nil {
		return title, body
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildPrompt(title, text.TruncateRunes(body, s.maxInputRunes))
	completion, err := s.client.GenerateText(callCtx, prompt)
	if err != nil {
		s.log.Warn("summarization failed, using verbatim body",
			slog.String("title", title),
			slog.Any("err", err),
		)
		return title, body
	}

	shortTitle, summary, ok := splitCompletion(completion)
	if !ok {
		s.log.Warn("malformed completion, using verbatim body", slog.String("title", title))
		return title, body
	}
	return shortTitle, summary
}

func buildPrompt(title, material string) string {
	return fmt.Sprintf(
		"Write a headline of at most 12 words on the first line, then a neutral briefing summary of at most 80 words.\nTitle: %s\nMaterial: %s",
		title, material,
	)
}

// splitCompletion expects the headline on the first non-empty line and
// the summary on the rest. Markdown markers the model tends to add are
// stripped.
func splitCompletion(completion string) (string, string, bool) {
	lines := strings.Split(strings.TrimSpace(completion), "\n")

	shortTitle := ""
	rest := []string{}
	for _, line := range lines {
		cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "#*\"“”"))
		if shortTitle == "" {
			shortTitle = cleaned
			continue
		}
		if cleaned != "" {
			rest = append(rest, cleaned)
		}
	}

	summary := strings.Join(rest, " ")
	if shortTitle == "" || summary == "" {
		return "", "", false
	}
	return shortTitle, summary, true
}
