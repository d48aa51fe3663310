/*
Package steamtest provides an in-process fake of the Steam Web API and store endpoints.

It serves canned payloads from a Fixture over httptest so the client and the pipeline
can be exercised end to end without network access, and it counts every request so
tests can assert that no network activity happened.
*/
package steamtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"commongames/internal/pkg/logx"
)

// Key is the API key the fake accepts unless Fixture.Key overrides it.
const Key = "0123456789ABCDEF0123456789ABCDEF"

// App is a store entry served by the fake.
type App struct {
	Name       string
	Categories []int
}

// Fixture describes the world the fake server serves.
type Fixture struct {
	// Key is the accepted API key. Empty uses Key.
	Key string

	// Libraries maps a SteamID64 to its owned app ids. A nil slice marks a hidden library.
	Libraries map[uint64][]int64

	// Friends maps a SteamID64 to its friend ids. Missing entries answer 401, like a private list.
	Friends map[uint64][]uint64

	// Names maps a SteamID64 to its persona name.
	Names map[uint64]string

	// Vanity maps a custom profile name to a SteamID64.
	Vanity map[string]uint64

	// Apps maps an app id to its store entry. Missing apps answer success=false.
	Apps map[int64]App

	// RawApps maps an app id to a literal response body, overriding Apps.
	RawApps map[int64]string
}

// Server is a running fake Steam server.
type Server struct {
	*httptest.Server

	fixture Fixture

	mu     sync.Mutex
	counts map[string]int
	total  atomic.Int64
}

// NewServer starts a fake Steam server serving fx. Callers must Close it.
func NewServer(fx Fixture) *Server {
	if fx.Key == "" {
		fx.Key = Key
	}

	s := &Server{
		fixture: fx,
		counts:  make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)

	r.Route("/IPlayerService", func(api chi.Router) {
		api.Use(s.requireKey)
		api.Get("/GetOwnedGames/v1/", s.handleOwnedGames)
	})

	r.Route("/ISteamUser", func(api chi.Router) {
		api.Use(s.requireKey)
		api.Get("/GetFriendList/v1/", s.handleFriendList)
		api.Get("/GetPlayerSummaries/v2/", s.handlePlayerSummaries)
		api.Get("/ResolveVanityURL/v1/", s.handleResolveVanity)
	})

	r.Get("/api/appdetails", s.handleAppDetails)

	s.Server = httptest.NewServer(r)
	return s
}

// Requests returns the total number of requests served.
func (s *Server) Requests() int {
	return int(s.total.Load())
}

// RequestsTo returns the number of requests served for path.
func (s *Server) RequestsTo(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[path]
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.total.Add(1)
		s.mu.Lock()
		s.counts[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != s.fixture.Key {
			http.Error(w, "<html><body>Forbidden</body></html>", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding fake Steam response")
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleOwnedGames(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.URL.Query().Get("steamid"), 10, 64)
	if err != nil {
		http.Error(w, "bad steamid", http.StatusBadRequest)
		return
	}

	apps, ok := s.fixture.Libraries[id]
	if !ok || apps == nil {
		writeJSON(w, map[string]any{"response": map[string]any{}})
		return
	}

	games := make([]map[string]any, 0, len(apps))
	for _, appID := range apps {
		games = append(games, map[string]any{"appid": appID, "name": "App " + strconv.FormatInt(appID, 10), "playtime_forever": 0})
	}
	writeJSON(w, map[string]any{"response": map[string]any{"game_count": len(apps), "games": games}})
}

func (s *Server) handleFriendList(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.URL.Query().Get("steamid"), 10, 64)
	if err != nil {
		http.Error(w, "bad steamid", http.StatusBadRequest)
		return
	}

	ids, ok := s.fixture.Friends[id]
	if !ok {
		http.Error(w, "<html><body>Unauthorized</body></html>", http.StatusUnauthorized)
		return
	}

	friends := make([]map[string]any, 0, len(ids))
	for _, fid := range ids {
		friends = append(friends, map[string]any{
			"steamid":      strconv.FormatUint(fid, 10),
			"relationship": "friend",
			"friend_since": 1500000000,
		})
	}
	writeJSON(w, map[string]any{"friendslist": map[string]any{"friends": friends}})
}

func (s *Server) handlePlayerSummaries(w http.ResponseWriter, r *http.Request) {
	players := []map[string]any{}
	for _, raw := range strings.Split(r.URL.Query().Get("steamids"), ",") {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue
		}
		name, ok := s.fixture.Names[id]
		if !ok {
			continue
		}
		players = append(players, map[string]any{"steamid": raw, "personaname": name})
	}
	writeJSON(w, map[string]any{"response": map[string]any{"players": players}})
}

func (s *Server) handleResolveVanity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.fixture.Vanity[r.URL.Query().Get("vanityurl")]
	if !ok {
		writeJSON(w, map[string]any{"response": map[string]any{"success": 42, "message": "No match"}})
		return
	}
	writeJSON(w, map[string]any{"response": map[string]any{"steamid": strconv.FormatUint(id, 10), "success": 1}})
}

func (s *Server) handleAppDetails(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("appids")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, nil)
		return
	}

	if body, ok := s.fixture.RawApps[id]; ok {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		_, _ = w.Write([]byte(body))
		return
	}

	app, ok := s.fixture.Apps[id]
	if !ok {
		writeJSON(w, map[string]any{raw: map[string]any{"success": false}})
		return
	}

	categories := make([]map[string]any, 0, len(app.Categories))
	for _, c := range app.Categories {
		categories = append(categories, map[string]any{"id": c, "description": "Category " + strconv.Itoa(c)})
	}
	data := map[string]any{
		"type":        "game",
		"name":        app.Name,
		"steam_appid": id,
		"categories":  categories,
	}
	writeJSON(w, map[string]any{raw: map[string]any{"success": true, "data": data}})
}
