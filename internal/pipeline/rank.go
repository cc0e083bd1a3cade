package pipeline

import (
	"strings"

	"newsbrief/internal/models"
)

// AuthorityRanker surfaces items from known-reliable publishers first.
// It is a stable partition on one boolean key: within each half the
// incoming order is untouched, and nothing is ever dropped.
type AuthorityRanker struct {
	whitelist []string
}

// NewAuthorityRanker builds a ranker over publisher-name substrings.
func NewAuthorityRanker(whitelist []string) *AuthorityRanker {
	return &AuthorityRanker{whitelist: whitelist}
}

// Rank marks and reorders the pool: authoritative items first, the rest
// after, each half in its original relative order.
func (r *AuthorityRanker) Rank(items []models.NewsItem) []models.NewsItem {
	authoritative := make([]models.NewsItem, 0, len(items))
	other := make([]models.NewsItem, 0, len(items))

	for _, item := range items {
		item.Authoritative = r.isAuthoritative(item.Source)
		if item.Authoritative {
			authoritative = append(authoritative, item)
		} else {
			other = append(other, item)
		}
	}

	return append(authoritative, other...)
}

func (r *AuthorityRanker) isAuthoritative(source string) bool {
	for _, needle := range r.whitelist {
		if needle != "" && strings.Contains(source, needle) {
			return true
		}
	}
	return false
}
