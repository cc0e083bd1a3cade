package resolve

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Paragraph fragments shorter than this are navigation chrome, captions
// or share buttons, not article prose.
const minParagraphRunes = 30

// Articles are summarization input only; anything beyond this many runes
// is dead weight.
const maxArticleRunes = 8000

// ArticleExtractor fetches a page and pulls its paragraph text. It is a
// generic selector-based extraction, not a per-site one: paragraphs
// inside an <article> element win, the page's paragraphs are the
// fallback.
type ArticleExtractor struct {
	client *http.Client
}

// NewArticleExtractor builds an extractor with its own bounded-timeout
// HTTP client, independent of the feed fetch timeout.
func NewArticleExtractor(timeout time.Duration) *ArticleExtractor {
	return &ArticleExtractor{
		client: &http.Client{Timeout: timeout},
	}
}

// Extract returns the article body text, or an error when the page
// cannot be fetched or contains no detectable article.
func (e *ArticleExtractor) Extract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "newsbrief/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	scope := doc.Selection
	if article := doc.Find("article"); article.Length() > 0 {
		scope = article.First()
	}

	var paragraphs []string
	total := 0
	scope.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		para := strings.TrimSpace(s.Text())
		if len([]rune(para)) < minParagraphRunes {
			return true
		}
		paragraphs = append(paragraphs, para)
		total += len([]rune(para))
		return total < maxArticleRunes
	})

	if len(paragraphs) == 0 {
		return "", fmt.Errorf("no article text detected")
	}

	return strings.Join(paragraphs, "\n"), nil
}
