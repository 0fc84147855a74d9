package rules

import "testing"

func testDocument() Document {
	return Document{
		Version: "0.1.0",
		Games: []Game{
			{
				ID:   "mahjong",
				Name: "Mahjong",
				Categories: []Category{
					{ID: "basic", Name: "Basics"},
					{ID: "win", Name: "Winning hands"},
					{ID: "foul", Name: "Fouls"},
				},
			},
			{
				ID:   "highlow",
				Name: "High & Low",
				Categories: []Category{
					{ID: "basic", Name: "Basics"},
					{ID: "bet", Name: "Bets & payouts"},
				},
			},
		},
		Rules: []Rule{
			{
				ID: "mj-001", GameID: "mahjong", CategoryID: "basic",
				Title:       "Furiten",
				Description: "You cannot declare ron on a tile you have discarded.",
				Detail:      "Once furiten, ron stays unavailable for the rest of the hand. Tsumo is still allowed.",
				Procedure:   "Skip the ron declaration and wait for a self-draw.",
				Penalty:     "Not a foul, but ron is blocked.",
				Tags:        []string{"riichi", "ron", "friten"},
				Aliases:     []string{"furiten", "sacred discard"},
			},
			{
				ID: "mj-002", GameID: "mahjong", CategoryID: "foul",
				Title:       "Chombo",
				Description: "An invalid win declaration is treated as chombo.",
				Tags:        []string{"chombo", "foul", "ron"},
			},
			{
				ID: "hl-001", GameID: "highlow", CategoryID: "basic",
				Title:       "Ties",
				Description: "Decide before play whether a tie is a push or a loss.",
				Tags:        []string{"tie", "push"},
			},
		},
	}
}

func testLibrary(t *testing.T) *Library {
	t.Helper()
	return New(testDocument())
}

func TestParseTaxonomyDocument(t *testing.T) {
	lib, err := Parse([]byte(`{
		"version": "0.1.0",
		"games": [{"id": "mahjong", "name": "Mahjong", "categories": [{"id": "basic", "name": "Basics"}]}],
		"rules": [{"id": "mj-001", "gameId": "mahjong", "categoryId": "basic", "title": "Furiten"}]
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if lib.Len() != 1 {
		t.Fatalf("expected 1 rule, got %d", lib.Len())
	}
	if got := lib.GameLabel("mahjong"); got != "Mahjong" {
		t.Fatalf("expected game label Mahjong, got %q", got)
	}
}

func TestParseBareRuleArraySynthesizesGames(t *testing.T) {
	lib, err := Parse([]byte(`[
		{"id": "a", "gameId": "mahjong", "title": "first"},
		{"id": "b", "gameId": "mahjong", "title": "second"},
		{"id": "c", "gameId": "highlow", "title": "third"}
	]`))
	if err != nil {
		t.Fatalf("parse flat array: %v", err)
	}
	games := lib.Games()
	if len(games) != 2 || games[0].ID != "mahjong" || games[1].ID != "highlow" {
		t.Fatalf("expected synthesized games [mahjong highlow], got %+v", games)
	}
	if lib.CountByGame("mahjong") != 2 {
		t.Fatalf("expected 2 mahjong rules, got %d", lib.CountByGame("mahjong"))
	}
}

func TestParseMalformedDataReturnsError(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatalf("expected parse error for malformed data")
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	lib := Load("/nonexistent/rules.json")
	if lib.Len() != 0 || len(lib.Games()) != 0 {
		t.Fatalf("expected empty library, got %d rules %d games", lib.Len(), len(lib.Games()))
	}
}

func TestDanglingReferencesDegradeToRawID(t *testing.T) {
	lib := testLibrary(t)
	if got := lib.GameLabel("chess"); got != "chess" {
		t.Fatalf("expected raw id for unknown game, got %q", got)
	}
	if got := lib.CategoryLabel("mahjong", "nope"); got != "nope" {
		t.Fatalf("expected raw id for unknown category, got %q", got)
	}
}

func TestCategoryLabelMatchesDashVariants(t *testing.T) {
	lib := New(Document{
		Games: []Game{{
			ID: "g", Name: "G",
			Categories: []Category{{ID: "win-hand", Name: "Winning"}},
		}},
	})
	if got := lib.CategoryLabel("g", "win—hand"); got != "Winning" {
		t.Fatalf("expected dash-variant category to resolve, got %q", got)
	}
}

func TestRuleLookup(t *testing.T) {
	lib := testLibrary(t)
	r, ok := lib.Rule("mj-002")
	if !ok || r.Title != "Chombo" {
		t.Fatalf("expected to find mj-002, got ok=%v title=%q", ok, r.Title)
	}
	if _, ok := lib.Rule("missing"); ok {
		t.Fatalf("expected missing rule to report not found")
	}
}
