package models

// Status classifies the outcome of a single upstream feed call.
type Status int

const (
	// StatusOk means the feed answered with a usable item list.
	StatusOk Status = iota
	// StatusNoMatch means the request was well-formed but matched nothing.
	StatusNoMatch
	// StatusUpstreamError covers every other upstream response code.
	StatusUpstreamError
	// StatusTransportError covers timeouts and connection failures.
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusNoMatch:
		return "no_match"
	case StatusUpstreamError:
		return "upstream_error"
	case StatusTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// FeedQuery is the immutable input for one feed call.
type FeedQuery struct {
	Keyword        string
	Area           string
	RequestedCount int
}

// RawItem is one entry of the upstream newslist envelope. Fields the
// feed omits decode to empty strings.
type RawItem struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Description string `json:"description"`
	Digest      string `json:"digest"`
	CTime       string `json:"ctime"`
	URL         string `json:"url"`
	Keyword     string `json:"keyword"`
}

// FeedResponse is the result of one feed call after envelope decoding.
type FeedResponse struct {
	Status  Status
	Items   []RawItem
	Message string
}

// NewsItem is the canonical pipeline entity. It is built exactly once by
// the aggregator; afterwards only ResolvedBody (content resolver) and
// Authoritative (ranker) are written.
type NewsItem struct {
	Title         string `json:"title"`
	Source        string `json:"source"`
	SourceTag     string `json:"source_tag"`
	PublishedAt   string `json:"published_at"`
	Description   string `json:"description,omitempty"`
	Digest        string `json:"digest,omitempty"`
	URL           string `json:"url,omitempty"`
	ResolvedBody  string `json:"resolved_body,omitempty"`
	Authoritative bool   `json:"authoritative"`
}

// BriefingItem is the per-item pipeline output: the item plus the
// summarizer's derived display payload.
type BriefingItem struct {
	ID         string   `json:"id"`
	Item       NewsItem `json:"item"`
	ShortTitle string   `json:"short_title"`
	Summary    string   `json:"summary,omitempty"`
}
