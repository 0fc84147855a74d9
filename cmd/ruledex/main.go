// Ruledex — Offline rule reference for tabletop games.
//
// Usage:
//
//	ruledex tui            Launch the interactive browser
//	ruledex serve          Start the HTTP JSON API
//	ruledex mcp            Start MCP server (stdio transport)
//	ruledex search <query> Search rules from the CLI
//	ruledex show <id>      Print one rule in full
//	ruledex share <id>     Copy a rule's share text to the clipboard
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ruledex/ruledex/internal/mcp"
	"github.com/ruledex/ruledex/internal/packs"
	"github.com/ruledex/ruledex/internal/rules"
	"github.com/ruledex/ruledex/internal/server"
	"github.com/ruledex/ruledex/internal/session"
	"github.com/ruledex/ruledex/internal/share"
	"github.com/ruledex/ruledex/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const version = "0.1.0"

type config struct {
	dataDir   string
	rulesPath string
}

func defaultConfig() config {
	home, _ := os.UserHomeDir()
	cfg := config{dataDir: filepath.Join(home, ".ruledex")}

	if dir := os.Getenv("RULEDEX_DATA_DIR"); dir != "" {
		cfg.dataDir = dir
	}
	if path := os.Getenv("RULEDEX_RULES"); path != "" {
		cfg.rulesPath = path
	}
	return cfg
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := defaultConfig()

	switch os.Args[1] {
	case "tui":
		cmdTUI(cfg)
	case "serve":
		cmdServe(cfg)
	case "mcp":
		cmdMCP(cfg)
	case "search":
		cmdSearch(cfg)
	case "show":
		cmdShow(cfg)
	case "share":
		cmdShare(cfg)
	case "games":
		cmdGames(cfg)
	case "tags":
		cmdTags(cfg)
	case "fav":
		cmdFav(cfg)
	case "install-pack":
		cmdInstallPack(cfg)
	case "stats":
		cmdStats(cfg)
	case "version", "--version", "-v":
		fmt.Printf("ruledex %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// ─── Library & session loading ───────────────────────────────────────────────

// loadLibrary resolves the rule pack in priority order: the RULEDEX_RULES
// path, then <dataDir>/rules.json, then the embedded starter pack. Every
// failure degrades to a smaller library, never to an error.
func loadLibrary(cfg config) *rules.Library {
	if cfg.rulesPath != "" {
		return rules.Load(cfg.rulesPath)
	}
	installed := filepath.Join(cfg.dataDir, packs.PackFile)
	if _, err := os.Stat(installed); err == nil {
		return rules.Load(installed)
	}
	return packs.DefaultLibrary()
}

// openPrefs opens the preference store. Storage failures are non-fatal:
// favorites and the navigation seed just stay in memory for the run.
func openPrefs(cfg config) *session.Prefs {
	prefs, err := session.OpenPrefs(cfg.dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ruledex: preferences unavailable: %s\n", err)
		return nil
	}
	return prefs
}

func openSession(cfg config) (*session.Session, func()) {
	prefs := openPrefs(cfg)
	sess := session.New(loadLibrary(cfg), prefs)
	cleanup := func() {
		if prefs != nil {
			_ = prefs.Close()
		}
	}
	return sess, cleanup
}

// ─── Commands ────────────────────────────────────────────────────────────────

func cmdTUI(cfg config) {
	prefs := openPrefs(cfg)
	defer func() {
		if prefs != nil {
			_ = prefs.Close()
		}
	}()

	// The library loads asynchronously inside the program so the first
	// frame renders immediately.
	sess := session.New(nil, prefs)
	model := tui.New(sess, func() *rules.Library { return loadLibrary(cfg) }, version)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func cmdServe(cfg config) {
	port := 7853 // "RULE" on a phone keypad
	if p := os.Getenv("RULEDEX_PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	// Allow: ruledex serve 8080
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil {
			port = n
		}
	}

	sess, cleanup := openSession(cfg)
	defer cleanup()

	if err := server.New(sess, port).Start(); err != nil {
		fatal(err)
	}
}

func cmdMCP(cfg config) {
	toolSpec := ""
	for _, arg := range os.Args[2:] {
		if strings.HasPrefix(arg, "--tools=") {
			toolSpec = strings.TrimPrefix(arg, "--tools=")
		}
	}

	sess, cleanup := openSession(cfg)
	defer cleanup()

	mcpSrv := mcp.NewServerWithTools(sess, mcp.ResolveTools(toolSpec))
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		fatal(err)
	}
}

func cmdSearch(cfg config) {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: ruledex search <query> [--game GAME] [--category CAT] [--tag TAG] [--limit N]")
		os.Exit(1)
	}

	var queryParts []string
	st := rules.State{}
	limit := 10

	for i := 2; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--game":
			if i+1 < len(os.Args) {
				st.GameID = os.Args[i+1]
				i++
			}
		case "--category":
			if i+1 < len(os.Args) {
				st.CategoryID = os.Args[i+1]
				i++
			}
		case "--tag":
			if i+1 < len(os.Args) {
				st.ActiveTag = os.Args[i+1]
				i++
			}
		case "--limit":
			if i+1 < len(os.Args) {
				if n, err := strconv.Atoi(os.Args[i+1]); err == nil {
					limit = n
				}
				i++
			}
		case "--fav":
			st.FavOnly = true
		default:
			queryParts = append(queryParts, os.Args[i])
		}
	}
	st.Query = strings.Join(queryParts, " ")

	var lib *rules.Library
	if st.FavOnly {
		sess, cleanup := openSession(cfg)
		defer cleanup()
		lib = sess.Library()
		st.Favorites = sess.State().Favorites
	} else {
		lib = loadLibrary(cfg)
	}
	matched := rules.Filter(lib, st)
	if len(matched) == 0 {
		fmt.Printf("No rules found for: %q\n", st.Query)
		return
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	fmt.Printf("Found %d rules:\n\n", len(matched))
	for i, r := range matched {
		fmt.Printf("[%d] %s — %s (%s / %s)\n    %s\n\n",
			i+1, r.ID, r.Title,
			lib.GameLabel(r.GameID), lib.CategoryLabel(r.GameID, r.CategoryID),
			truncate(r.Description, 200))
	}
}

func cmdShow(cfg config) {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: ruledex show <rule-id>")
		os.Exit(1)
	}

	lib := loadLibrary(cfg)
	r, ok := lib.Rule(os.Args[2])
	if !ok {
		fmt.Fprintf(os.Stderr, "ruledex: rule not found: %s\n", os.Args[2])
		os.Exit(1)
	}

	fmt.Printf("%s — %s\n%s / %s\n",
		r.ID, r.Title, lib.GameLabel(r.GameID), lib.CategoryLabel(r.GameID, r.CategoryID))
	sections := []struct{ name, body string }{
		{"Summary", r.Description},
		{"Detail", r.Detail},
		{"Procedure", r.Procedure},
		{"Penalty", r.Penalty},
	}
	for _, s := range sections {
		if s.body != "" {
			fmt.Printf("\n%s:\n  %s\n", s.name, s.body)
		}
	}
	if len(r.Tags) > 0 {
		fmt.Printf("\nTags: %s\n", strings.Join(r.Tags, ", "))
	}
}

func cmdShare(cfg config) {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: ruledex share <rule-id>")
		os.Exit(1)
	}

	lib := loadLibrary(cfg)
	r, ok := lib.Rule(os.Args[2])
	if !ok {
		fmt.Fprintf(os.Stderr, "ruledex: rule not found: %s\n", os.Args[2])
		os.Exit(1)
	}

	text, outcome := share.Share(lib, r)
	if outcome == share.OutcomeClipboard {
		fmt.Printf("Copied to clipboard:\n\n%s\n", text)
		return
	}
	fmt.Printf("Clipboard unavailable — copy manually:\n\n%s\n", text)
}

func cmdGames(cfg config) {
	lib := loadLibrary(cfg)
	if len(lib.Games()) == 0 {
		fmt.Println("The rule library is empty.")
		return
	}
	for _, g := range lib.Games() {
		fmt.Printf("%s — %s (%d rules)\n", g.ID, g.Name, lib.CountByGame(g.ID))
		for _, c := range g.Categories {
			fmt.Printf("    %s — %s\n", c.ID, c.Name)
		}
	}
}

func cmdTags(cfg config) {
	st := rules.State{}
	limit := 18
	for i := 2; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--game":
			if i+1 < len(os.Args) {
				st.GameID = os.Args[i+1]
				i++
			}
		case "--category":
			if i+1 < len(os.Args) {
				st.CategoryID = os.Args[i+1]
				i++
			}
		case "--limit":
			if i+1 < len(os.Args) {
				if n, err := strconv.Atoi(os.Args[i+1]); err == nil {
					limit = n
				}
				i++
			}
		}
	}

	tags := rules.ScopedTags(loadLibrary(cfg), st, limit)
	if len(tags) == 0 {
		fmt.Println("No tags in this scope.")
		return
	}
	fmt.Println(strings.Join(tags, ", "))
}

func cmdFav(cfg config) {
	sess, cleanup := openSession(cfg)
	defer cleanup()
	lib := sess.Library()

	// ruledex fav            → list
	// ruledex fav <rule-id>  → toggle
	if len(os.Args) < 3 || os.Args[2] == "list" {
		n := 0
		for _, r := range lib.Rules() {
			if sess.IsFavorite(r.ID) {
				fmt.Printf("★ %s — %s (%s)\n", r.ID, r.Title, lib.GameLabel(r.GameID))
				n++
			}
		}
		if n == 0 {
			fmt.Println("No favorites yet. Toggle one with: ruledex fav <rule-id>")
		}
		return
	}

	id := os.Args[2]
	r, ok := lib.Rule(id)
	if !ok {
		fmt.Fprintf(os.Stderr, "ruledex: rule not found: %s\n", id)
		os.Exit(1)
	}
	if sess.ToggleFavorite(id) {
		fmt.Printf("Added to favorites: %s — %s\n", r.ID, r.Title)
	} else {
		fmt.Printf("Removed from favorites: %s — %s\n", r.ID, r.Title)
	}
}

func cmdInstallPack(cfg config) {
	force := false
	dest := cfg.dataDir
	for _, arg := range os.Args[2:] {
		if arg == "--force" {
			force = true
		} else {
			dest = arg
		}
	}

	res, err := packs.Install(dest, force)
	if err != nil {
		fatal(err)
	}
	action := "Installed"
	if res.Replaced {
		action = "Replaced"
	}
	fmt.Printf("%s starter pack: %s (%d rules)\n", action, res.Destination, res.Rules)
}

func cmdStats(cfg config) {
	sess, cleanup := openSession(cfg)
	defer cleanup()
	lib := sess.Library()

	favs := 0
	for _, r := range lib.Rules() {
		if sess.IsFavorite(r.ID) {
			favs++
		}
	}

	source := "embedded starter pack"
	if cfg.rulesPath != "" {
		source = cfg.rulesPath
	} else if installed := filepath.Join(cfg.dataDir, packs.PackFile); fileExists(installed) {
		source = installed
	}

	fmt.Printf("Ruledex Library Stats\n")
	fmt.Printf("  Rules:     %d\n", lib.Len())
	fmt.Printf("  Games:     %d\n", len(lib.Games()))
	fmt.Printf("  Favorites: %d\n", favs)
	fmt.Printf("  Pack:      %s\n", source)
	fmt.Printf("  Prefs:     %s/ruledex.db\n", cfg.dataDir)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func printUsage() {
	fmt.Printf(`ruledex v%s — Offline rule reference for tabletop games

Usage:
  ruledex <command> [arguments]

Commands:
  tui                Launch the interactive rule browser
  serve [port]       Start HTTP JSON API (default: 7853)
  mcp                Start MCP server (stdio transport, for any AI agent)
                       --tools=reader|curator|<name,...>  Limit registered tools
  search <query>     Search rules [--game G] [--category C] [--tag T] [--fav] [--limit N]
  show <rule-id>     Print one rule in full
  share <rule-id>    Copy a rule's share text to the clipboard
  games              List games and categories
  tags               List top tags [--game G] [--category C] [--limit N]
  fav [rule-id]      List favorites, or toggle one
  install-pack [dir] Install the embedded starter pack [--force]
  stats              Show library statistics
  version            Print version
  help               Show this help

Environment:
  RULEDEX_DATA_DIR   Override data directory (default: ~/.ruledex)
  RULEDEX_RULES      Load a specific rule pack file instead of the data dir
  RULEDEX_PORT       Override HTTP server port (default: 7853)

MCP Configuration (add to your agent's config):
  {
    "mcp": {
      "ruledex": {
        "type": "stdio",
        "command": "ruledex",
        "args": ["mcp", "--tools=reader"]
      }
    }
  }
`, version)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "ruledex: %s\n", err)
	os.Exit(1)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
