// Package rules implements the rule library and the filter engine for
// Ruledex.
//
// The library is an immutable collection of rule records plus a small
// taxonomy of games and categories, loaded once at startup. Everything else
// (TUI, HTTP server, MCP server, CLI) reads from it; nothing mutates it.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
)

// ─── Types ───────────────────────────────────────────────────────────────────

type Game struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Icon       string     `json:"icon,omitempty"`
	Categories []Category `json:"categories"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Rule struct {
	ID          string   `json:"id"`
	GameID      string   `json:"gameId"`
	CategoryID  string   `json:"categoryId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Detail      string   `json:"detail,omitempty"`
	Procedure   string   `json:"procedure,omitempty"`
	Penalty     string   `json:"penalty,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
}

// Document is the on-disk shape of a rule pack: a version string, the
// game/category taxonomy, and the flat rule collection.
type Document struct {
	Version string `json:"version"`
	Games   []Game `json:"games"`
	Rules   []Rule `json:"rules"`
}

// ─── Library ─────────────────────────────────────────────────────────────────

// Library holds the loaded rule collection. It is read-only after
// construction; a zero-rule library is a valid, renderable state.
type Library struct {
	version string
	games   []Game
	rules   []Rule

	gameByID map[string]int
	ruleByID map[string]int
}

// Empty returns a library with zero games and zero rules. Load failures
// degrade to this rather than failing the session.
func Empty() *Library {
	return build(Document{})
}

// New builds a library from an already-decoded document.
func New(doc Document) *Library {
	return build(doc)
}

// Parse decodes a rule pack. It accepts either the full taxonomy+rules
// document or a bare JSON array of rule records (games are then synthesized
// from the gameId references, in first-encountered order).
func Parse(data []byte) (*Library, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil && (len(doc.Games) > 0 || len(doc.Rules) > 0) {
		return build(doc), nil
	}

	var flat []Rule
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("ruledex: parse rule pack: %w", err)
	}

	seen := make(map[string]bool)
	for _, r := range flat {
		if r.GameID != "" && !seen[r.GameID] {
			seen[r.GameID] = true
			doc.Games = append(doc.Games, Game{ID: r.GameID, Name: r.GameID})
		}
	}
	doc.Rules = flat
	return build(doc), nil
}

// Load reads a rule pack from disk. Any failure — missing file, unreadable
// file, malformed JSON — degrades to the empty library; callers render
// "0 rules", they never see an error.
func Load(path string) *Library {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Empty()
	}
	lib, err := Parse(raw)
	if err != nil {
		return Empty()
	}
	return lib
}

func build(doc Document) *Library {
	lib := &Library{
		version:  doc.Version,
		games:    doc.Games,
		rules:    doc.Rules,
		gameByID: make(map[string]int, len(doc.Games)),
		ruleByID: make(map[string]int, len(doc.Rules)),
	}
	for i, g := range doc.Games {
		if _, dup := lib.gameByID[g.ID]; !dup {
			lib.gameByID[g.ID] = i
		}
	}
	for i, r := range doc.Rules {
		if _, dup := lib.ruleByID[r.ID]; !dup {
			lib.ruleByID[r.ID] = i
		}
	}
	return lib
}

// ─── Read access ─────────────────────────────────────────────────────────────

func (l *Library) Version() string { return l.version }

// Rules returns the full rule collection in insertion order. Callers must
// not mutate the returned slice.
func (l *Library) Rules() []Rule { return l.rules }

// Games returns the game taxonomy in insertion order.
func (l *Library) Games() []Game { return l.games }

func (l *Library) Len() int { return len(l.rules) }

// Rule looks up a rule by id.
func (l *Library) Rule(id string) (Rule, bool) {
	i, ok := l.ruleByID[id]
	if !ok {
		return Rule{}, false
	}
	return l.rules[i], true
}

// Game looks up a game by id.
func (l *Library) Game(id string) (Game, bool) {
	i, ok := l.gameByID[id]
	if !ok {
		return Game{}, false
	}
	return l.games[i], true
}

// GameLabel resolves a game id to its display name. A dangling reference
// degrades to the raw id so the caller always has something to render.
func (l *Library) GameLabel(gameID string) string {
	if g, ok := l.Game(gameID); ok && g.Name != "" {
		return g.Name
	}
	return gameID
}

// CategoryLabel resolves a (game, category) pair to the category's display
// name, matching ids through NormalizeLabel so typographic variants of the
// same id still resolve. Dangling references degrade to the raw id.
func (l *Library) CategoryLabel(gameID, categoryID string) string {
	if g, ok := l.Game(gameID); ok {
		want := NormalizeLabel(categoryID)
		for _, c := range g.Categories {
			if NormalizeLabel(c.ID) == want {
				return c.Name
			}
		}
	}
	return categoryID
}

// CountByGame returns how many rules reference the given game.
func (l *Library) CountByGame(gameID string) int {
	n := 0
	for _, r := range l.rules {
		if r.GameID == gameID {
			n++
		}
	}
	return n
}
