package pipeline

import (
	"time"

	"newsbrief/internal/models"
)

// Timestamp shapes the feeds actually emit. Anything else is an
// unrecognized shape and falls under the UnparseableFresh policy.
var ctimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RecencyPolicy drops items outside the freshness window.
//
// A missing timestamp is always treated as stale. An unrecognized
// timestamp shape is governed by UnparseableFresh: true lets the item
// through, false drops it. The flag exists because the upstream formats
// drift; it is an explicit policy, not an accident.
type RecencyPolicy struct {
	WindowDays       int
	UnparseableFresh bool
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// IsFresh evaluates one raw timestamp against the window.
func (p RecencyPolicy) IsFresh(publishedAt string) bool {
	if publishedAt == "" {
		return false
	}

	var ts time.Time
	parsed := false
	for _, layout := range ctimeLayouts {
		if t, err := time.Parse(layout, publishedAt); err == nil {
			ts = t
			parsed = true
			break
		}
	}
	if !parsed {
		return p.UnparseableFresh
	}

	window := time.Duration(p.WindowDays) * 24 * time.Hour
	return p.now().Sub(ts) <= window
}

// Filter returns the items inside the freshness window, preserving order.
func (p RecencyPolicy) Filter(items []models.NewsItem) []models.NewsItem {
	fresh := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		if p.IsFresh(item.PublishedAt) {
			fresh = append(fresh, item)
		}
	}
	return fresh
}

func (p RecencyPolicy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
