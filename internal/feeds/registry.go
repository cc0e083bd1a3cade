package feeds

// Feed identifiers. Each maps to one upstream endpoint with its own
// accepted parameter set.
const (
	// FeedHotlist is the keyword-less trending feed; it returns a fixed
	// ranked list regardless of the query.
	FeedHotlist = "hotlist"
	// FeedRegional is scoped to a region name and rejects keywords.
	FeedRegional = "regional"
	// FeedInternet is keyword-searchable tech/internet news.
	FeedInternet = "internet"
	// FeedGeneral is keyword-searchable general headlines with the
	// broadest recall.
	FeedGeneral = "general"
)

// Profile declares which query parameters an endpoint accepts. Upstream
// rejects ill-formed parameter combinations outright, so the fetcher
// builds requests strictly from the profile.
type Profile struct {
	Path           string
	AcceptsKeyword bool
	RequiresArea   bool
}

// Registry is the static map of feed identifiers to endpoint profiles.
type Registry struct {
	baseURL string
	feeds   map[string]Profile
}

// NewRegistry builds the registry for the standard four feeds rooted at
// baseURL (e.g. https://apis.tianapi.com).
func NewRegistry(baseURL string) *Registry {
	return &Registry{
		baseURL: baseURL,
		feeds: map[string]Profile{
			FeedHotlist:  {Path: "/networkhot/index"},
			FeedRegional: {Path: "/areanews/index", RequiresArea: true},
			FeedInternet: {Path: "/internet/index", AcceptsKeyword: true},
			FeedGeneral:  {Path: "/generalnews/index", AcceptsKeyword: true},
		},
	}
}

// Lookup returns the profile for a feed identifier.
func (r *Registry) Lookup(id string) (Profile, bool) {
	p, ok := r.feeds[id]
	return p, ok
}

// Endpoint returns the full request URL for a profile.
func (r *Registry) Endpoint(p Profile) string {
	return r.baseURL + p.Path
}
