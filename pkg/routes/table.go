package routes

import (
	"sort"

	"streampipe-hq/streampipe/pkg/config"
)

// Route is a named mapping from a URL-safe stream identifier to its upstream
// source URL and resolved relay options.
type Route struct {
	// Name is the stream identifier, matching [a-z0-9-]+.
	Name string

	// URL is the upstream source URL. It may be empty for a misconfigured
	// route; the relay handler reports that per request with HTTP 500.
	URL string

	// Options are the relay options for this route, already merged from the
	// global options and the per-stream overrides.
	Options config.RelayOptions
}

// Table is the immutable routing table. Build it once with NewTable and share
// it freely: all methods are safe for unsynchronized concurrent use because
// the table is never mutated after construction.
type Table struct {
	routes map[string]Route
}

// NewTable builds a routing table from the loaded configuration. Entries
// whose names do not match the allowed [a-z0-9-]+ syntax are unroutable by
// construction (the router rejects such paths before lookup) but are kept in
// the table so Count reflects the configured document.
func NewTable(cfg *config.Config) *Table {
	routes := make(map[string]Route, len(cfg.Streams))
	for name, sc := range cfg.Streams {
		routes[name] = Route{
			Name:    name,
			URL:     sc.URL,
			Options: cfg.Options.Merge(sc.Overrides),
		}
	}
	return &Table{routes: routes}
}

// Lookup returns the route for the given stream name.
func (t *Table) Lookup(name string) (Route, bool) {
	r, ok := t.routes[name]
	return r, ok
}

// Count returns the number of configured routes.
func (t *Table) Count() int {
	return len(t.routes)
}

// Names returns the configured stream names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.routes))
	for name := range t.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidName reports whether s is a syntactically valid stream name: nonempty,
// every byte a lowercase ASCII letter, digit, or hyphen. Anything else is
// rejected before the routing table is consulted, which keeps path-traversal
// and injection attempts away from the lookup entirely.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}
