// Package mcp implements the Model Context Protocol server for Ruledex.
//
// This exposes the rule library via MCP stdio transport so any agent can
// look up table rules mid-conversation just by adding Ruledex as an MCP
// server.
//
// Tool profiles allow clients to load only the tools they need:
//
//	ruledex mcp                       → all 7 tools (default)
//	ruledex mcp --tools=reader        → read-only lookup tools
//	ruledex mcp --tools=curator       → favorites management
//	ruledex mcp --tools=rule_search   → individual tool names
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ruledex/ruledex/internal/rules"
	"github.com/ruledex/ruledex/internal/session"
	"github.com/ruledex/ruledex/internal/share"
)

// ─── Tool Profiles ───────────────────────────────────────────────────────────

// ProfileReader contains the read-only lookup tools. This is what a chat
// agent answering "is that ron valid?" needs.
var ProfileReader = map[string]bool{
	"rule_search": true,
	"rule_get":    true,
	"rule_games":  true,
	"rule_tags":   true,
	"rule_share":  true,
	"fav_list":    true,
}

// ProfileCurator contains the tools that mutate the favorites set.
var ProfileCurator = map[string]bool{
	"fav_toggle": true,
	"fav_list":   true,
}

// Profiles maps profile names to their tool sets.
var Profiles = map[string]map[string]bool{
	"reader":  ProfileReader,
	"curator": ProfileCurator,
}

// ResolveTools takes a comma-separated string of profile names and/or
// individual tool names and returns the set of tool names to register.
// An empty input means "all" — every tool is registered.
func ResolveTools(input string) map[string]bool {
	input = strings.TrimSpace(input)
	if input == "" || input == "all" {
		return nil // nil means register everything
	}

	result := make(map[string]bool)
	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if token == "all" {
			return nil
		}
		if profile, ok := Profiles[token]; ok {
			for tool := range profile {
				result[tool] = true
			}
		} else {
			// Treat as individual tool name
			result[token] = true
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// NewServer creates an MCP server with ALL tools registered.
func NewServer(sess *session.Session) *server.MCPServer {
	return NewServerWithTools(sess, nil)
}

// serverInstructions tells MCP clients when to reach for these tools.
const serverInstructions = `Ruledex provides an offline reference of tabletop game rules. ` +
	`Search these tools when a question is about game rules, rulings, fouls, ` +
	`penalties, or scoring at the table: rule_search finds rules by free text, ` +
	`rule_get fetches one rule in full, rule_games and rule_tags list what is ` +
	`available, fav_toggle and fav_list manage the user's pinned rules.`

// NewServerWithTools creates an MCP server registering only the tools in
// the allowlist. If allowlist is nil, all tools are registered.
func NewServerWithTools(sess *session.Session, allowlist map[string]bool) *server.MCPServer {
	srv := server.NewMCPServer(
		"ruledex",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(serverInstructions),
	)

	registerTools(srv, sess, allowlist)
	return srv
}

// shouldRegister returns true if the tool should be registered given the
// allowlist. If allowlist is nil, everything is allowed.
func shouldRegister(name string, allowlist map[string]bool) bool {
	if allowlist == nil {
		return true
	}
	return allowlist[name]
}

func registerTools(srv *server.MCPServer, sess *session.Session, allowlist map[string]bool) {
	// ─── rule_search (profile: reader) ──────────────────────────────────
	if shouldRegister("rule_search", allowlist) {
		srv.AddTool(
			mcp.NewTool("rule_search",
				mcp.WithDescription("Search tabletop game rules by free text. The query is matched case- and whitespace-insensitively against titles, descriptions, procedures, penalties, tags, and aliases. Filter further by game, category, or tag."),
				mcp.WithTitleAnnotation("Search Rules"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
				mcp.WithString("query",
					mcp.Description("Free-text query — rule names, aliases, or keywords"),
				),
				mcp.WithString("game",
					mcp.Description("Filter by game id (see rule_games)"),
				),
				mcp.WithString("category",
					mcp.Description("Filter by category id within the game"),
				),
				mcp.WithString("tag",
					mcp.Description("Filter by a single tag"),
				),
				mcp.WithNumber("limit",
					mcp.Description("Max results (default: 10)"),
				),
			),
			handleSearch(sess),
		)
	}

	// ─── rule_get (profile: reader) ─────────────────────────────────────
	if shouldRegister("rule_get", allowlist) {
		srv.AddTool(
			mcp.NewTool("rule_get",
				mcp.WithDescription("Fetch one rule in full by id: description, detail, procedure, penalty, and tags."),
				mcp.WithTitleAnnotation("Get Rule"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
				mcp.WithString("id",
					mcp.Required(),
					mcp.Description("Rule id, e.g. mj-001"),
				),
			),
			handleGet(sess),
		)
	}

	// ─── rule_games (profile: reader, deferred) ─────────────────────────
	if shouldRegister("rule_games", allowlist) {
		srv.AddTool(
			mcp.NewTool("rule_games",
				mcp.WithDescription("List the games in the library with their categories and rule counts."),
				mcp.WithDeferLoading(true),
				mcp.WithTitleAnnotation("List Games"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			handleGames(sess),
		)
	}

	// ─── rule_tags (profile: reader, deferred) ──────────────────────────
	if shouldRegister("rule_tags", allowlist) {
		srv.AddTool(
			mcp.NewTool("rule_tags",
				mcp.WithDescription("List the most frequent tags, optionally scoped to a game and category."),
				mcp.WithDeferLoading(true),
				mcp.WithTitleAnnotation("List Tags"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
				mcp.WithString("game",
					mcp.Description("Scope tags to this game id"),
				),
				mcp.WithString("category",
					mcp.Description("Scope tags to this category id"),
				),
				mcp.WithNumber("limit",
					mcp.Description("Max tags (default: 18)"),
				),
			),
			handleTags(sess),
		)
	}

	// ─── rule_share (profile: reader, deferred) ─────────────────────────
	if shouldRegister("rule_share", allowlist) {
		srv.AddTool(
			mcp.NewTool("rule_share",
				mcp.WithDescription("Render a rule as plain shareable text: title, scope, body sections, and tags joined by newlines."),
				mcp.WithDeferLoading(true),
				mcp.WithTitleAnnotation("Share Rule"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
				mcp.WithString("id",
					mcp.Required(),
					mcp.Description("Rule id to render"),
				),
			),
			handleShare(sess),
		)
	}

	// ─── fav_toggle (profile: curator) ──────────────────────────────────
	if shouldRegister("fav_toggle", allowlist) {
		srv.AddTool(
			mcp.NewTool("fav_toggle",
				mcp.WithDescription("Toggle a rule in the user's favorites set. Adds if absent, removes if present; the set persists across sessions."),
				mcp.WithTitleAnnotation("Toggle Favorite"),
				mcp.WithReadOnlyHintAnnotation(false),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(false),
				mcp.WithOpenWorldHintAnnotation(false),
				mcp.WithString("id",
					mcp.Required(),
					mcp.Description("Rule id to toggle"),
				),
			),
			handleFavToggle(sess),
		)
	}

	// ─── fav_list (profiles: reader, curator, deferred) ─────────────────
	if shouldRegister("fav_list", allowlist) {
		srv.AddTool(
			mcp.NewTool("fav_list",
				mcp.WithDescription("List the user's favorite rules."),
				mcp.WithDeferLoading(true),
				mcp.WithTitleAnnotation("List Favorites"),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			handleFavList(sess),
		)
	}
}

// ─── Handlers ────────────────────────────────────────────────────────────────

func handleSearch(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, _ := req.GetArguments()["query"].(string)
		game, _ := req.GetArguments()["game"].(string)
		category, _ := req.GetArguments()["category"].(string)
		tag, _ := req.GetArguments()["tag"].(string)
		limit := intArg(req, "limit", 10)

		lib := sess.Library()
		matched := rules.Filter(lib, rules.State{
			GameID:     game,
			CategoryID: category,
			ActiveTag:  tag,
			Query:      query,
		})

		if len(matched) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No rules found for: %q", query)), nil
		}
		if len(matched) > limit {
			matched = matched[:limit]
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d rules:\n\n", len(matched))
		for i, r := range matched {
			fmt.Fprintf(&b, "[%d] %s — %s (%s / %s)\n    %s\n    tags: %s\n\n",
				i+1, r.ID, r.Title,
				lib.GameLabel(r.GameID), lib.CategoryLabel(r.GameID, r.CategoryID),
				truncate(r.Description, 200),
				strings.Join(r.Tags, ", "))
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func handleGet(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := req.GetArguments()["id"].(string)
		if id == "" {
			return mcp.NewToolResultError("id is required"), nil
		}

		lib := sess.Library()
		r, ok := lib.Rule(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("rule not found: %s", id)), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s — %s\nScope: %s / %s\n",
			r.ID, r.Title, lib.GameLabel(r.GameID), lib.CategoryLabel(r.GameID, r.CategoryID))
		sections := []struct{ name, body string }{
			{"Summary", r.Description},
			{"Detail", r.Detail},
			{"Procedure", r.Procedure},
			{"Penalty", r.Penalty},
		}
		for _, s := range sections {
			if s.body != "" {
				fmt.Fprintf(&b, "\n%s: %s\n", s.name, s.body)
			}
		}
		if len(r.Tags) > 0 {
			fmt.Fprintf(&b, "\nTags: %s\n", strings.Join(r.Tags, ", "))
		}
		if len(r.Aliases) > 0 {
			fmt.Fprintf(&b, "Also known as: %s\n", strings.Join(r.Aliases, ", "))
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func handleGames(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lib := sess.Library()
		if len(lib.Games()) == 0 {
			return mcp.NewToolResultText("The rule library is empty."), nil
		}

		var b strings.Builder
		for _, g := range lib.Games() {
			fmt.Fprintf(&b, "%s — %s (%d rules)\n", g.ID, g.Name, lib.CountByGame(g.ID))
			for _, c := range g.Categories {
				fmt.Fprintf(&b, "    %s — %s\n", c.ID, c.Name)
			}
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}

func handleTags(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		game, _ := req.GetArguments()["game"].(string)
		category, _ := req.GetArguments()["category"].(string)
		limit := intArg(req, "limit", 18)

		tags := rules.ScopedTags(sess.Library(), rules.State{GameID: game, CategoryID: category}, limit)
		if len(tags) == 0 {
			return mcp.NewToolResultText("No tags in this scope."), nil
		}
		return mcp.NewToolResultText(strings.Join(tags, ", ")), nil
	}
}

func handleShare(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := req.GetArguments()["id"].(string)
		if id == "" {
			return mcp.NewToolResultError("id is required"), nil
		}
		lib := sess.Library()
		r, ok := lib.Rule(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("rule not found: %s", id)), nil
		}
		return mcp.NewToolResultText(share.Text(lib, r)), nil
	}
}

func handleFavToggle(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := req.GetArguments()["id"].(string)
		if id == "" {
			return mcp.NewToolResultError("id is required"), nil
		}
		r, ok := sess.Library().Rule(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("rule not found: %s", id)), nil
		}
		if sess.ToggleFavorite(id) {
			return mcp.NewToolResultText(fmt.Sprintf("Added to favorites: %s — %s", r.ID, r.Title)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Removed from favorites: %s — %s", r.ID, r.Title)), nil
	}
}

func handleFavList(sess *session.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		lib := sess.Library()
		var b strings.Builder
		n := 0
		for _, r := range lib.Rules() {
			if sess.IsFavorite(r.ID) {
				fmt.Fprintf(&b, "%s — %s (%s)\n", r.ID, r.Title, lib.GameLabel(r.GameID))
				n++
			}
		}
		if n == 0 {
			return mcp.NewToolResultText("No favorites yet."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%d favorites:\n%s", n, b.String())), nil
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
