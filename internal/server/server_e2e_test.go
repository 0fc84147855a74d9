package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ruledex/ruledex/internal/rules"
	"github.com/ruledex/ruledex/internal/session"
)

func newE2EServer(t *testing.T) (*session.Session, *httptest.Server) {
	t.Helper()

	lib, err := rules.Parse([]byte(`{
		"version": "0.1.0",
		"games": [
			{"id": "mahjong", "name": "Mahjong", "categories": [
				{"id": "basic", "name": "Basics"},
				{"id": "foul", "name": "Fouls"}
			]},
			{"id": "highlow", "name": "High & Low", "categories": [
				{"id": "basic", "name": "Basics"}
			]}
		],
		"rules": [
			{"id": "mj-001", "gameId": "mahjong", "categoryId": "basic", "title": "Furiten",
			 "description": "No ron on your own discards.", "tags": ["riichi", "ron"]},
			{"id": "mj-002", "gameId": "mahjong", "categoryId": "foul", "title": "Chombo",
			 "tags": ["chombo", "foul"]},
			{"id": "hl-001", "gameId": "highlow", "categoryId": "basic", "title": "Ties",
			 "tags": ["tie"]}
		]
	}`))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	prefs, err := session.OpenPrefs(t.TempDir())
	if err != nil {
		t.Fatalf("open prefs: %v", err)
	}
	sess := session.New(lib, prefs)

	httpServer := httptest.NewServer(New(sess, 0).Handler())
	t.Cleanup(func() {
		httpServer.Close()
		_ = prefs.Close()
	})

	return sess, httpServer
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func getJSON[T any](t *testing.T, client *http.Client, url string) T {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for %s, got %d", url, resp.StatusCode)
	}
	return decodeJSON[T](t, resp)
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return out
}

func TestRuleFilteringE2E(t *testing.T) {
	_, ts := newE2EServer(t)
	client := ts.Client()

	all := getJSON[map[string]any](t, client, ts.URL+"/rules")
	if int(all["total"].(float64)) != 3 {
		t.Fatalf("expected 3 rules unfiltered, got %v", all["total"])
	}

	byGame := getJSON[map[string]any](t, client, ts.URL+"/rules?game=mahjong")
	if int(byGame["total"].(float64)) != 2 {
		t.Fatalf("expected 2 mahjong rules, got %v", byGame["total"])
	}

	byTag := getJSON[map[string]any](t, client, ts.URL+"/rules?game=mahjong&tag=chombo")
	ruleList := byTag["rules"].([]any)
	if len(ruleList) != 1 || ruleList[0].(map[string]any)["id"] != "mj-002" {
		t.Fatalf("expected [mj-002] for chombo tag, got %v", ruleList)
	}

	// Query goes through the normalizer: padding and case are ignored.
	byQuery := getJSON[map[string]any](t, client, ts.URL+"/rules?q=%20%20FURITEN%20")
	if int(byQuery["total"].(float64)) != 1 {
		t.Fatalf("expected 1 rule for padded query, got %v", byQuery["total"])
	}
}

func TestRuleDetailAndShareE2E(t *testing.T) {
	_, ts := newE2EServer(t)
	client := ts.Client()

	rule := getJSON[map[string]any](t, client, ts.URL+"/rules/mj-001")
	if rule["title"] != "Furiten" {
		t.Fatalf("expected Furiten, got %v", rule["title"])
	}

	missing, err := client.Get(ts.URL + "/rules/nope")
	if err != nil {
		t.Fatalf("get missing rule: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown rule, got %d", missing.StatusCode)
	}

	shareResp, err := client.Get(ts.URL + "/rules/mj-001/share")
	if err != nil {
		t.Fatalf("get share text: %v", err)
	}
	defer shareResp.Body.Close()
	if ct := shareResp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain share, got %q", ct)
	}
	text, _ := io.ReadAll(shareResp.Body)
	if !strings.Contains(string(text), "Furiten") || !strings.Contains(string(text), "Mahjong / Basics") {
		t.Fatalf("expected title and scope in share text, got %q", text)
	}
}

func TestGamesAndTagsE2E(t *testing.T) {
	_, ts := newE2EServer(t)
	client := ts.Client()

	games := getJSON[[]map[string]any](t, client, ts.URL+"/games")
	if len(games) != 2 || games[0]["id"] != "mahjong" {
		t.Fatalf("expected [mahjong highlow], got %v", games)
	}
	if int(games[0]["ruleCount"].(float64)) != 2 {
		t.Fatalf("expected mahjong ruleCount 2, got %v", games[0]["ruleCount"])
	}

	tags := getJSON[[]string](t, client, ts.URL+"/tags?game=mahjong")
	if len(tags) == 0 || tags[0] != "riichi" {
		t.Fatalf("expected mahjong tags starting with riichi, got %v", tags)
	}
	for _, tag := range tags {
		if tag == "tie" {
			t.Fatalf("expected highlow tags excluded from mahjong scope")
		}
	}
}

func TestFavoritesRoundTripE2E(t *testing.T) {
	_, ts := newE2EServer(t)
	client := ts.Client()

	toggle := postJSON(t, client, ts.URL+"/favorites/toggle", map[string]any{"id": "mj-002"})
	if toggle.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 toggling favorite, got %d", toggle.StatusCode)
	}
	body := decodeJSON[map[string]any](t, toggle)
	if body["favorite"] != true {
		t.Fatalf("expected favorite=true after toggle, got %v", body)
	}

	favs := getJSON[[]map[string]any](t, client, ts.URL+"/favorites")
	if len(favs) != 1 || favs[0]["id"] != "mj-002" {
		t.Fatalf("expected [mj-002] favorites, got %v", favs)
	}

	filtered := getJSON[map[string]any](t, client, ts.URL+"/rules?fav=true")
	if int(filtered["total"].(float64)) != 1 {
		t.Fatalf("expected 1 rule with fav filter, got %v", filtered["total"])
	}

	off := postJSON(t, client, ts.URL+"/favorites/toggle", map[string]any{"id": "mj-002"})
	offBody := decodeJSON[map[string]any](t, off)
	if offBody["favorite"] != false {
		t.Fatalf("expected favorite=false after second toggle, got %v", offBody)
	}

	unknown := postJSON(t, client, ts.URL+"/favorites/toggle", map[string]any{"id": "nope"})
	unknown.Body.Close()
	if unknown.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 toggling unknown rule, got %d", unknown.StatusCode)
	}
}

func TestManifestAndHealthE2E(t *testing.T) {
	_, ts := newE2EServer(t)
	client := ts.Client()

	manifest := getJSON[map[string]any](t, client, ts.URL+"/manifest")
	if manifest["cache"] != CacheName {
		t.Fatalf("expected cache %q, got %v", CacheName, manifest["cache"])
	}
	if len(manifest["assets"].([]any)) == 0 {
		t.Fatalf("expected a non-empty asset list")
	}

	health := getJSON[map[string]any](t, client, ts.URL+"/healthz")
	if health["status"] != "ok" || int(health["rules"].(float64)) != 3 {
		t.Fatalf("unexpected health payload %v", health)
	}
}
