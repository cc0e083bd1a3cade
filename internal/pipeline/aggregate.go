package pipeline

import (
	"strings"

	"newsbrief/internal/models"
	"newsbrief/internal/text"
)

// Display fallbacks for feeds that omit a field entirely (the hotlist
// feed returns bare search phrases without source or description).
const (
	titlePlaceholder = "Live update"
	sourceFallback   = "Hot list"
)

// Contribution is one feed's share of the candidate pool.
type Contribution struct {
	FeedID   string
	Query    models.FeedQuery
	Response models.FeedResponse
	// AreaScoped marks region feeds, whose keyword cannot be sent
	// upstream and is instead applied as a local refinement.
	AreaScoped bool
}

// Aggregate unions the item lists of all Ok contributions, in input
// order, into one pool of normalized NewsItems. Titles and descriptions
// are resolved here, once, through their ordered fallback chains; no
// item leaves this function with an empty title.
func Aggregate(contribs []Contribution) []models.NewsItem {
	var pool []models.NewsItem
	for _, c := range contribs {
		if c.Response.Status != models.StatusOk {
			continue
		}
		items := c.Response.Items
		if c.AreaScoped && c.Query.Keyword != "" {
			items = refineByKeyword(items, c.Query.Keyword)
		}
		for _, raw := range items {
			pool = append(pool, normalize(raw, c.FeedID))
		}
	}
	return pool
}

// refineByKeyword keeps items mentioning the keyword in any display
// field. An empty match set falls back to the unfiltered list, so the
// refinement never silences a healthy feed.
func refineByKeyword(items []models.RawItem, keyword string) []models.RawItem {
	needle := strings.ToLower(keyword)
	var matched []models.RawItem
	for _, item := range items {
		haystack := strings.ToLower(item.Title + " " + item.Description + " " + item.Digest + " " + item.Source)
		if strings.Contains(haystack, needle) {
			matched = append(matched, item)
		}
	}
	if len(matched) == 0 {
		return items
	}
	return matched
}

func normalize(raw models.RawItem, feedID string) models.NewsItem {
	title := firstNonEmpty(raw.Title, raw.Keyword, titlePlaceholder)
	description := firstNonEmpty(raw.Description, raw.Digest, text.SynthesizeTeaser(title))

	return models.NewsItem{
		Title:       title,
		Source:      firstNonEmpty(raw.Source, sourceFallback),
		SourceTag:   feedID,
		PublishedAt: strings.TrimSpace(raw.CTime),
		Description: description,
		Digest:      raw.Digest,
		URL:         raw.URL,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
