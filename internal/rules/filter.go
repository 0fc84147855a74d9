package rules

import (
	"sort"
	"strings"
)

// ─── Filter state ────────────────────────────────────────────────────────────

// State is the full set of filter dimensions applied to the library. It is a
// plain value: the filter functions below are pure in (library, state), which
// keeps the engine testable without any rendering context.
type State struct {
	GameID     string
	CategoryID string
	Query      string
	ActiveTag  string
	FavOnly    bool
	Favorites  map[string]bool
}

// ─── Matching ────────────────────────────────────────────────────────────────

// Matches reports whether a single rule passes every active filter
// dimension. Filters apply in a fixed order: game, category, favorites,
// tag, then free-text query against the haystack. An empty state matches
// everything.
func Matches(lib *Library, r Rule, st State) bool {
	if st.GameID != "" && r.GameID != st.GameID {
		return false
	}
	if st.CategoryID != "" && !categoryMatches(r.CategoryID, st.CategoryID) {
		return false
	}
	if st.FavOnly && !st.Favorites[r.ID] {
		return false
	}
	if st.ActiveTag != "" && !hasTag(r, st.ActiveTag) {
		return false
	}

	q := Normalize(st.Query)
	if q == "" {
		return true
	}
	return strings.Contains(haystack(lib, r), q)
}

// Filter returns the rules matching the state, preserving the library's
// insertion order. No re-sorting happens here — stable order is part of the
// contract.
func Filter(lib *Library, st State) []Rule {
	var out []Rule
	for _, r := range lib.Rules() {
		if Matches(lib, r, st) {
			out = append(out, r)
		}
	}
	return out
}

// categoryMatches compares category ids case- and whitespace-insensitively,
// folding dash glyph variants first so "win-hand" and "win－hand" are the
// same category.
func categoryMatches(ruleCat, selected string) bool {
	return Normalize(NormalizeLabel(ruleCat)) == Normalize(NormalizeLabel(selected))
}

func hasTag(r Rule, tag string) bool {
	want := Normalize(tag)
	for _, t := range r.Tags {
		if Normalize(t) == want {
			return true
		}
	}
	return false
}

// haystack concatenates every searchable field of a rule — title,
// description, detail, procedure, penalty, tags, aliases, plus the resolved
// game and category labels — space-joined with absent fields skipped, then
// normalized as one string for substring matching.
func haystack(lib *Library, r Rule) string {
	parts := make([]string, 0, 8+len(r.Tags)+len(r.Aliases))
	for _, f := range []string{r.Title, r.Description, r.Detail, r.Procedure, r.Penalty} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	parts = append(parts, r.Tags...)
	parts = append(parts, r.Aliases...)
	if r.GameID != "" {
		parts = append(parts, lib.GameLabel(r.GameID))
	}
	if r.CategoryID != "" {
		parts = append(parts, lib.CategoryLabel(r.GameID, r.CategoryID))
	}
	return Normalize(strings.Join(parts, " "))
}

// ─── Tag ranking ─────────────────────────────────────────────────────────────

// TopTags counts tag occurrences across the given rules (exact string as
// stored, trimmed) and returns the most frequent ones, descending by count
// with ties broken by first-encountered order. limit <= 0 means no limit.
func TopTags(ruleSet []Rule, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range ruleSet {
		for _, t := range r.Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if counts[t] == 0 {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

// ScopedTags ranks tags within the current game/category scope only; the
// query, tag, and favorites dimensions deliberately do not narrow the chip
// set.
func ScopedTags(lib *Library, st State, limit int) []string {
	scope := State{GameID: st.GameID, CategoryID: st.CategoryID}
	return TopTags(Filter(lib, scope), limit)
}
