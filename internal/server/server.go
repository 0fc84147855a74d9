// Package server exposes the rule library over a local HTTP JSON API.
//
// The API is read-mostly: rules, games, and tags are served from the
// in-memory library, favorites are the one mutable resource. A small
// manifest endpoint describes the offline asset set for clients that
// pre-cache.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/ruledex/ruledex/internal/rules"
	"github.com/ruledex/ruledex/internal/session"
	"github.com/ruledex/ruledex/internal/share"
)

// CacheName versions the offline asset manifest. Changing the asset set
// means bumping the version so stale caches get purged.
const CacheName = "ruledex-cache-v1"

const defaultTagLimit = 18

type Server struct {
	mu      sync.Mutex
	session *session.Session
	port    int
}

func New(sess *session.Session, port int) *Server {
	return &Server{session: sess, port: port}
}

// Start blocks serving the API on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	log.Printf("ruledex: serving API on http://%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rules", s.handleRules)
	mux.HandleFunc("GET /rules/{id}", s.handleRule)
	mux.HandleFunc("GET /rules/{id}/share", s.handleRuleShare)
	mux.HandleFunc("GET /games", s.handleGames)
	mux.HandleFunc("GET /tags", s.handleTags)
	mux.HandleFunc("GET /favorites", s.handleFavorites)
	mux.HandleFunc("POST /favorites/toggle", s.handleFavoriteToggle)
	mux.HandleFunc("GET /manifest", s.handleManifest)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ruledex: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// stateFromQuery builds a filter state from request query params on top of
// the session's favorites set.
func (s *Server) stateFromQuery(r *http.Request) rules.State {
	q := r.URL.Query()
	st := rules.State{
		GameID:     q.Get("game"),
		CategoryID: q.Get("category"),
		ActiveTag:  q.Get("tag"),
		Query:      q.Get("q"),
		Favorites:  s.session.State().Favorites,
	}
	if q.Get("fav") == "true" || q.Get("fav") == "1" {
		st.FavOnly = true
	}
	return st
}

// ─── Rules ───────────────────────────────────────────────────────────────────

type ruleListResponse struct {
	Total int          `json:"total"`
	Rules []rules.Rule `json:"rules"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib := s.session.Library()
	matched := rules.Filter(lib, s.stateFromQuery(r))
	if matched == nil {
		matched = []rules.Rule{}
	}
	writeJSON(w, http.StatusOK, ruleListResponse{Total: len(matched), Rules: matched})
}

func (s *Server) handleRule(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	rule, ok := s.session.Library().Rule(id)
	if !ok {
		writeError(w, http.StatusNotFound, "rule not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleRuleShare(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	lib := s.session.Library()
	rule, ok := lib.Rule(id)
	if !ok {
		writeError(w, http.StatusNotFound, "rule not found: "+id)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, share.Text(lib, rule))
}

// ─── Games & tags ────────────────────────────────────────────────────────────

type gameResponse struct {
	rules.Game
	RuleCount int `json:"ruleCount"`
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib := s.session.Library()
	out := make([]gameResponse, 0, len(lib.Games()))
	for _, g := range lib.Games() {
		out = append(out, gameResponse{Game: g, RuleCount: lib.CountByGame(g.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	st := rules.State{GameID: q.Get("game"), CategoryID: q.Get("category")}
	tags := rules.ScopedTags(s.session.Library(), st, defaultTagLimit)
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// ─── Favorites ───────────────────────────────────────────────────────────────

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib := s.session.Library()
	out := []rules.Rule{}
	for _, rule := range lib.Rules() {
		if s.session.IsFavorite(rule.ID) {
			out = append(out, rule)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type toggleRequest struct {
	ID string `json:"id"`
}

type toggleResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

func (s *Server) handleFavoriteToggle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "body must be {\"id\": \"<rule id>\"}")
		return
	}
	if _, ok := s.session.Library().Rule(req.ID); !ok {
		writeError(w, http.StatusNotFound, "rule not found: "+req.ID)
		return
	}
	fav := s.session.ToggleFavorite(req.ID)
	writeJSON(w, http.StatusOK, toggleResponse{ID: req.ID, Favorite: fav})
}

// ─── Manifest & health ───────────────────────────────────────────────────────

type manifestResponse struct {
	Cache   string   `json:"cache"`
	Version string   `json:"version"`
	Assets  []string `json:"assets"`
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, manifestResponse{
		Cache:   CacheName,
		Version: s.session.Library().Version(),
		Assets:  []string{"/rules", "/games", "/tags", "/manifest"},
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rules":  s.session.Library().Len(),
	})
}
