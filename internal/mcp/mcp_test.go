package mcp

import (
	"context"
	"strings"
	"testing"

	mcppkg "github.com/mark3labs/mcp-go/mcp"

	"github.com/ruledex/ruledex/internal/rules"
	"github.com/ruledex/ruledex/internal/session"
)

func newMCPTestSession(t *testing.T) *session.Session {
	t.Helper()
	lib, err := rules.Parse([]byte(`{
		"version": "0.1.0",
		"games": [
			{"id": "mahjong", "name": "Mahjong", "categories": [
				{"id": "basic", "name": "Basics"},
				{"id": "foul", "name": "Fouls"}
			]}
		],
		"rules": [
			{"id": "mj-001", "gameId": "mahjong", "categoryId": "basic", "title": "Furiten",
			 "description": "No ron on your own discards.", "tags": ["riichi", "ron"],
			 "aliases": ["furiten"]},
			{"id": "mj-002", "gameId": "mahjong", "categoryId": "foul", "title": "Chombo",
			 "description": "Invalid win declaration.", "penalty": "Mangan penalty.",
			 "tags": ["chombo", "foul"]}
		]
	}`))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return session.New(lib, nil)
}

func callResultText(t *testing.T, res *mcppkg.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("expected non-empty tool result")
	}
	text, ok := mcppkg.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("expected text content")
	}
	return text.Text
}

func TestNewServerRegistersTools(t *testing.T) {
	srv := NewServer(newMCPTestSession(t))
	if srv == nil {
		t.Fatalf("expected MCP server instance")
	}
}

func TestResolveToolsProfilesAndNames(t *testing.T) {
	if got := ResolveTools(""); got != nil {
		t.Fatalf("expected nil (all tools) for empty input, got %v", got)
	}
	if got := ResolveTools("all"); got != nil {
		t.Fatalf("expected nil for all, got %v", got)
	}

	reader := ResolveTools("reader")
	if !reader["rule_search"] || reader["fav_toggle"] {
		t.Fatalf("unexpected reader profile resolution: %v", reader)
	}

	mixed := ResolveTools("curator, rule_get")
	if !mixed["fav_toggle"] || !mixed["rule_get"] || mixed["rule_search"] {
		t.Fatalf("unexpected mixed resolution: %v", mixed)
	}
}

func TestHandleSearchFindsNormalizedQuery(t *testing.T) {
	h := handleSearch(newMCPTestSession(t))
	req := mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{
		"query": "  FURITEN ",
	}}}

	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", callResultText(t, res))
	}
	text := callResultText(t, res)
	if !strings.Contains(text, "mj-001") || !strings.Contains(text, "Furiten") {
		t.Fatalf("expected mj-001 in results, got %q", text)
	}
}

func TestHandleSearchScopesByGameAndTag(t *testing.T) {
	h := handleSearch(newMCPTestSession(t))
	req := mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{
		"game": "mahjong",
		"tag":  "chombo",
	}}}

	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := callResultText(t, res)
	if !strings.Contains(text, "mj-002") || strings.Contains(text, "mj-001") {
		t.Fatalf("expected only mj-002, got %q", text)
	}
}

func TestHandleGetReturnsFullRule(t *testing.T) {
	h := handleGet(newMCPTestSession(t))
	req := mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{
		"id": "mj-002",
	}}}

	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := callResultText(t, res)
	for _, want := range []string{"Chombo", "Mahjong / Fouls", "Penalty: Mangan penalty."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output, got %q", want, text)
		}
	}
}

func TestHandleGetUnknownIDIsToolError(t *testing.T) {
	h := handleGet(newMCPTestSession(t))
	req := mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{
		"id": "nope",
	}}}

	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error for unknown id")
	}
}

func TestHandleGamesListsTaxonomy(t *testing.T) {
	h := handleGames(newMCPTestSession(t))
	req := mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{}}}

	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := callResultText(t, res)
	if !strings.Contains(text, "mahjong — Mahjong (2 rules)") || !strings.Contains(text, "foul — Fouls") {
		t.Fatalf("unexpected games output: %q", text)
	}
}

func TestHandleTagsScoped(t *testing.T) {
	h := handleTags(newMCPTestSession(t))
	req := mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{
		"game":     "mahjong",
		"category": "foul",
	}}}

	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := callResultText(t, res)
	if !strings.Contains(text, "chombo") || strings.Contains(text, "riichi") {
		t.Fatalf("expected foul-scoped tags only, got %q", text)
	}
}

func TestHandleFavToggleAndList(t *testing.T) {
	sess := newMCPTestSession(t)

	toggle := handleFavToggle(sess)
	req := mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{
		"id": "mj-001",
	}}}
	res, err := toggle(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(callResultText(t, res), "Added to favorites") {
		t.Fatalf("expected add confirmation")
	}

	list := handleFavList(sess)
	res, err = list(context.Background(), mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{}}})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(callResultText(t, res), "mj-001") {
		t.Fatalf("expected mj-001 in favorites list")
	}

	res, err = toggle(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(callResultText(t, res), "Removed from favorites") {
		t.Fatalf("expected removal confirmation")
	}
}

func TestHandleShareRendersPlainText(t *testing.T) {
	h := handleShare(newMCPTestSession(t))
	req := mcppkg.CallToolRequest{Params: mcppkg.CallToolParams{Arguments: map[string]any{
		"id": "mj-001",
	}}}

	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	text := callResultText(t, res)
	if !strings.HasPrefix(text, "Furiten\nMahjong / Basics") {
		t.Fatalf("expected title and scope first, got %q", text)
	}
}
