package session

import (
	"github.com/ruledex/ruledex/internal/rules"
)

// Status tells the renderer what the rule list region means right now.
type Status int

const (
	// StatusLoading is the initial state before the library has arrived.
	StatusLoading Status = iota
	// StatusNoSelection means the library is loaded but no filter is
	// active yet.
	StatusNoSelection
	// StatusNoResults means filters are active and nothing matched.
	StatusNoResults
	// StatusResults means the snapshot's Rules slice is the answer.
	StatusResults
)

// topTagLimit caps the visible tag chip row.
const topTagLimit = 18

// Session is the single mutable state container for a browsing session.
// Every mutation goes through a method here; renderers only ever read
// Snapshot values, so the mutate-then-recompute order is enforced in one
// place.
type Session struct {
	lib    *rules.Library
	prefs  *Prefs // nil when running without a data dir
	st     rules.State
	loaded bool
}

// New creates a session over the given library. prefs may be nil; the
// session then keeps favorites in memory only.
func New(lib *rules.Library, prefs *Prefs) *Session {
	s := &Session{lib: lib, prefs: prefs, loaded: lib != nil}
	if s.lib == nil {
		s.lib = rules.Empty()
	}
	s.st.Favorites = make(map[string]bool)
	if prefs != nil {
		s.st.Favorites = prefs.LoadFavorites()
		seed := prefs.LoadSeed()
		s.st.Query = seed.Query
		s.st.GameID = seed.Game
	}
	return s
}

// Library exposes the underlying read-only library.
func (s *Session) Library() *rules.Library { return s.lib }

// SetLibrary swaps in the library once the asynchronous load finishes.
// A nil library (load failed upstream) still marks the session loaded,
// with the empty library as the degraded state.
func (s *Session) SetLibrary(lib *rules.Library) {
	if lib == nil {
		lib = rules.Empty()
	}
	s.lib = lib
	s.loaded = true
}

// State returns a copy of the current filter state.
func (s *Session) State() rules.State { return s.st }

// ─── Mutations ───────────────────────────────────────────────────────────────

// SelectGame sets the game scope. Category and active tag belong to the
// previous scope, so they are cleared. Passing the empty id clears the
// selection.
func (s *Session) SelectGame(id string) {
	s.st.GameID = id
	s.st.CategoryID = ""
	s.st.ActiveTag = ""
	s.saveSeed()
}

// SelectCategory sets the category scope within the current game and
// clears the active tag.
func (s *Session) SelectCategory(id string) {
	s.st.CategoryID = id
	s.st.ActiveTag = ""
}

// SetQuery stores the query verbatim. Normalization happens at match
// time only.
func (s *Session) SetQuery(q string) {
	s.st.Query = q
	s.saveSeed()
}

func (s *Session) ClearQuery() {
	s.st.Query = ""
	s.saveSeed()
}

// ToggleTag sets the active tag, or clears it when the incoming tag is
// the same one under normalization. Toggling twice restores the prior
// state. A tag that normalizes to empty clears the selection rather than
// becoming an empty-normalized filter.
func (s *Session) ToggleTag(tag string) {
	norm := rules.Normalize(tag)
	if norm == "" || norm == rules.Normalize(s.st.ActiveTag) {
		s.st.ActiveTag = ""
		return
	}
	s.st.ActiveTag = tag
}

// ToggleFavorite flips membership for the given rule id and persists the
// full set immediately. A failed save is swallowed — favorites are a
// convenience, the in-memory set stays authoritative for this session.
func (s *Session) ToggleFavorite(ruleID string) bool {
	if s.st.Favorites[ruleID] {
		delete(s.st.Favorites, ruleID)
	} else {
		s.st.Favorites[ruleID] = true
	}
	s.persistFavorites()
	return s.st.Favorites[ruleID]
}

func (s *Session) IsFavorite(ruleID string) bool { return s.st.Favorites[ruleID] }

func (s *Session) SetFavOnly(on bool) { s.st.FavOnly = on }

// Reset returns every filter dimension to its initial default and removes
// the carried-over navigation seed, so the next session starts clean
// instead of replaying the pre-reset state. Favorites survive a reset.
func (s *Session) Reset() {
	favs := s.st.Favorites
	s.st = rules.State{Favorites: favs}
	if s.prefs != nil {
		_ = s.prefs.ClearSeed()
	}
}

func (s *Session) saveSeed() {
	if s.prefs == nil {
		return
	}
	_ = s.prefs.SaveSeed(Seed{Query: s.st.Query, Game: s.st.GameID})
}

func (s *Session) persistFavorites() {
	if s.prefs == nil {
		return
	}
	ids := make([]string, 0, len(s.st.Favorites))
	for _, r := range s.lib.Rules() {
		if s.st.Favorites[r.ID] {
			ids = append(ids, r.ID)
		}
	}
	// Favorites whose rules are gone from the library are kept so a pack
	// re-install doesn't lose them.
	for id := range s.st.Favorites {
		if _, ok := s.lib.Rule(id); !ok {
			ids = append(ids, id)
		}
	}
	_ = s.prefs.SaveFavorites(ids)
}

// ─── Snapshot ────────────────────────────────────────────────────────────────

// GameEntry is a game row with its rule count and selection flag.
type GameEntry struct {
	Game   rules.Game
	Count  int
	Active bool
}

// CategoryEntry is a category row for the selected game.
type CategoryEntry struct {
	Category rules.Category
	Active   bool
}

// TagEntry is a tag chip. The active tag stays the filter even when it
// falls out of the visible chip list; Visible distinguishes the two.
type TagEntry struct {
	Tag     string
	Active  bool
	Visible bool
}

// Snapshot is a complete, consistent view of the session, recomputed as
// one unit so renderers never observe a half-applied mutation.
type Snapshot struct {
	Games      []GameEntry
	Categories []CategoryEntry
	Tags       []TagEntry
	Rules      []rules.Rule
	Status     Status
	State      rules.State
}

// Snapshot recomputes the derived view in its fixed order: game picker,
// category picker, scoped tag chips, then the filtered rule list with its
// status.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{State: s.st}

	for _, g := range s.lib.Games() {
		snap.Games = append(snap.Games, GameEntry{
			Game:   g,
			Count:  s.lib.CountByGame(g.ID),
			Active: g.ID == s.st.GameID,
		})
	}

	if g, ok := s.lib.Game(s.st.GameID); ok {
		for _, c := range g.Categories {
			snap.Categories = append(snap.Categories, CategoryEntry{
				Category: c,
				Active:   c.ID == s.st.CategoryID,
			})
		}
	}

	snap.Tags = s.tagChips()
	snap.Rules = rules.Filter(s.lib, s.st)
	snap.Status = s.status(snap.Rules)
	return snap
}

func (s *Session) tagChips() []TagEntry {
	scoped := rules.ScopedTags(s.lib, s.st, topTagLimit)
	chips := make([]TagEntry, 0, len(scoped)+1)
	activeSeen := false
	activeNorm := rules.Normalize(s.st.ActiveTag)
	for _, t := range scoped {
		active := s.st.ActiveTag != "" && rules.Normalize(t) == activeNorm
		if active {
			activeSeen = true
		}
		chips = append(chips, TagEntry{Tag: t, Active: active, Visible: true})
	}
	// The active tag stays applied even when it dropped out of the scoped
	// chip list; surface it as a non-visible entry so the renderer can
	// still show what is filtering.
	if s.st.ActiveTag != "" && !activeSeen {
		chips = append(chips, TagEntry{Tag: s.st.ActiveTag, Active: true, Visible: false})
	}
	return chips
}

func (s *Session) status(matched []rules.Rule) Status {
	if !s.loaded {
		return StatusLoading
	}
	if s.lib.Len() == 0 {
		return StatusNoResults
	}
	if !s.filtersActive() {
		return StatusNoSelection
	}
	if len(matched) == 0 {
		return StatusNoResults
	}
	return StatusResults
}

func (s *Session) filtersActive() bool {
	return s.st.GameID != "" || s.st.CategoryID != "" || s.st.ActiveTag != "" ||
		rules.Normalize(s.st.Query) != "" || s.st.FavOnly
}
