// Package session holds the per-user browsing state for Ruledex: the
// active filter selection, the favorites set, and their persistence.
//
// Preferences live in SQLite as a small key/value table. Loading is
// forgiving — a missing or corrupt value means "no preference", never an
// error — and saving is best-effort so a full disk can't break browsing.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// favoritesKey is versioned so a future format change can migrate instead
// of silently misreading old data.
const (
	favoritesKey = "favorites_rule_ids_v1"
	seedQueryKey = "last_query"
	seedGameKey  = "last_game"
)

// Prefs is the preference store backed by ruledex.db in the data dir.
type Prefs struct {
	db *sql.DB
}

func OpenPrefs(dataDir string) (*Prefs, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("ruledex: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ruledex.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ruledex: open preferences: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("ruledex: pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS prefs (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("ruledex: migration: %w", err)
	}

	return &Prefs{db: db}, nil
}

func (p *Prefs) Close() error {
	return p.db.Close()
}

// ─── Key/value primitives ────────────────────────────────────────────────────

func (p *Prefs) get(key string) (string, bool) {
	var value string
	err := p.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (p *Prefs) set(key, value string) error {
	_, err := p.db.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (p *Prefs) delete(key string) error {
	_, err := p.db.Exec(`DELETE FROM prefs WHERE key = ?`, key)
	return err
}

// ─── Favorites ───────────────────────────────────────────────────────────────

// LoadFavorites returns the persisted favorite rule ids. It never errors:
// a missing key or a value that doesn't decode as a JSON string array
// yields the empty set.
func (p *Prefs) LoadFavorites() map[string]bool {
	favs := make(map[string]bool)
	raw, ok := p.get(favoritesKey)
	if !ok {
		return favs
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return favs
	}
	for _, id := range ids {
		if id != "" {
			favs[id] = true
		}
	}
	return favs
}

// SaveFavorites persists the favorite rule ids as a JSON array in
// insertion-stable order. Errors are returned so callers can log them, but
// callers treat a failed save as non-fatal.
func (p *Prefs) SaveFavorites(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("ruledex: encode favorites: %w", err)
	}
	if err := p.set(favoritesKey, string(raw)); err != nil {
		return fmt.Errorf("ruledex: save favorites: %w", err)
	}
	return nil
}

// ─── Navigation seed ─────────────────────────────────────────────────────────

// Seed is the saved entry point for the next session: the last query and
// the last selected game.
type Seed struct {
	Query string
	Game  string
}

func (p *Prefs) LoadSeed() Seed {
	var s Seed
	s.Query, _ = p.get(seedQueryKey)
	s.Game, _ = p.get(seedGameKey)
	return s
}

func (p *Prefs) SaveSeed(s Seed) error {
	if err := p.set(seedQueryKey, s.Query); err != nil {
		return fmt.Errorf("ruledex: save seed: %w", err)
	}
	if err := p.set(seedGameKey, s.Game); err != nil {
		return fmt.Errorf("ruledex: save seed: %w", err)
	}
	return nil
}

func (p *Prefs) ClearSeed() error {
	if err := p.delete(seedQueryKey); err != nil {
		return fmt.Errorf("ruledex: clear seed: %w", err)
	}
	if err := p.delete(seedGameKey); err != nil {
		return fmt.Errorf("ruledex: clear seed: %w", err)
	}
	return nil
}
