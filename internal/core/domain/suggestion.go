package domain

// MaxRecentSuggestions is the capacity of the recent-suggestions list.
const MaxRecentSuggestions = 5

// MaxSuggestions caps the merged list returned to the view.
const MaxSuggestions = 10

// Suggestion is a location autocomplete entry.
type Suggestion struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// RecentSuggestions is a most-recently-used list of picked suggestions,
// deduplicated by Value and capped at MaxRecentSuggestions.
type RecentSuggestions []Suggestion

// Push moves s to the front, dropping any older entry with the same value
// and the oldest entry once the list is full.
func (r RecentSuggestions) Push(s Suggestion) RecentSuggestions {
	if s.Value == "" {
		return r
	}
	out := make(RecentSuggestions, 0, MaxRecentSuggestions)
	out = append(out, s)
	for _, existing := range r {
		if existing.Value == s.Value {
			continue
		}
		if len(out) == MaxRecentSuggestions {
			break
		}
		out = append(out, existing)
	}
	return out
}

// MergeSuggestions returns recents followed by results, deduplicated by
// value and capped at limit.
func MergeSuggestions(recents, results []Suggestion, limit int) []Suggestion {
	seen := make(map[string]struct{}, len(recents)+len(results))
	out := make([]Suggestion, 0, min(limit, len(recents)+len(results)))
	for _, list := range [][]Suggestion{recents, results} {
		for _, s := range list {
			if len(out) == limit {
				return out
			}
			if _, ok := seen[s.Value]; ok {
				continue
			}
			seen[s.Value] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
