package endpoint

import "strings"

type wildcardEntry struct {
	prefix string
	tier   Tier
}

// Table is the immutable classification built once at startup. It is
// read concurrently by every request without locking.
type Table struct {
	exact     map[string]Tier
	wildcards []wildcardEntry // longest prefix first
}

// Match returns the tier for a request path. Exact entries win over
// wildcard prefixes, the longest wildcard prefix wins over shorter
// ones, and an unclassified path falls through to TierFull, the
// default-deny behavior.
func (t *Table) Match(path string) Tier {
	if tier, ok := t.exact[path]; ok {
		return tier
	}
	for _, w := range t.wildcards {
		if path == w.prefix || strings.HasPrefix(path, w.prefix+"/") {
			return w.tier
		}
	}
	return TierFull
}
