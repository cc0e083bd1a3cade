package text

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	urlPattern = regexp.MustCompile(`https?://[^\s]+`)
)

// Teaser phrases that mark a feed description as filler rather than
// content worth summarizing.
var boilerplateMarkers = []string{
	"read more",
	"see full story",
	"click for details",
	"查看全文",
	"点击查看",
	"详情请见",
	"查看详情",
}

// Clean decodes HTML entities, strips URLs and squeezes whitespace while
// keeping punctuation intact, so the result still reads as prose.
func Clean(input string) string {
	if input == "" {
		return ""
	}
	out := html.UnescapeString(input)
	out = urlPattern.ReplaceAllString(out, " ")
	out = whitespace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// IsBoilerplate reports whether a teaser is filler: either it carries a
// known "go read it elsewhere" marker, or it is a short fragment cut off
// with an ellipsis.
func IsBoilerplate(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return true
	}
	for _, marker := range boilerplateMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	runes := []rune(s)
	if len(runes) < 40 && (strings.HasSuffix(s, "…") || strings.HasSuffix(s, "...")) {
		return true
	}
	return false
}

// Usable reports whether a candidate body is worth attaching: non-empty,
// longer than minRunes, and not boilerplate.
func Usable(input string, minRunes int) bool {
	cleaned := Clean(input)
	if len([]rune(cleaned)) <= minRunes {
		return false
	}
	return !IsBoilerplate(cleaned)
}

// TruncateRunes bounds s to max runes, appending an ellipsis when cut.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// SynthesizeTeaser builds the one-line description fallback used when a
// feed entry carries neither description nor digest.
func SynthesizeTeaser(title string) string {
	return fmt.Sprintf("In focus: %s", title)
}

// BuildItemID hashes the stable item fields into a deterministic ID.
func BuildItemID(title, source, publishedAt string) string {
	if title == "" && source == "" {
		return ""
	}
	sum := sha1.Sum([]byte(title + "|" + source + "|" + publishedAt))
	return hex.EncodeToString(sum[:])
}
