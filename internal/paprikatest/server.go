// Package paprikatest runs an in-process fake of the Paprika sync API.
//
// The fake keeps recipes and categories in memory, enforces bearer auth,
// decodes uploads the way the real service does (multipart part "data"
// holding gzip-framed JSON) and records every upload for inspection.
// Routes can be overridden with canned responses to simulate misbehaving
// servers.
package paprikatest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// APIPrefix is the path of the API root on the fake server.
const APIPrefix = "/api/v2"

// Default credentials accepted by a new Server.
const (
	DefaultEmail    = "user@email.com"
	DefaultPassword = "password"
	DefaultToken    = "12345"
)

type canned struct {
	status int
	body   string
}

// Server is a running fake. All methods are safe for concurrent use.
type Server struct {
	srv *httptest.Server

	mu         sync.Mutex
	email      string
	password   string
	token      string
	recipes    map[string]json.RawMessage
	order      []string
	categories json.RawMessage
	canned     map[string]canned
	uploads    []Upload
	reject     bool
	requests   int
}

// New starts a fake server that is shut down when tb's test ends.
func New(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		email:      DefaultEmail,
		password:   DefaultPassword,
		token:      DefaultToken,
		recipes:    make(map[string]json.RawMessage),
		categories: json.RawMessage(`[]`),
		canned:     make(map[string]canned),
	}
	s.srv = httptest.NewServer(s.router())
	tb.Cleanup(s.srv.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count)
	r.Use(s.cannedResponses)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/account/login/", s.login)

		r.Group(func(r chi.Router) {
			r.Use(bearerAuth(s.currentToken))
			r.Get("/sync/recipes/", s.listRecipes)
			r.Get("/sync/categories/", s.listCategories)
			r.Get("/sync/recipe/{uid}/", s.getRecipe)
			r.Post("/sync/recipe/{uid}/", s.uploadRecipe)
		})
	})
	return r
}

// URL returns the API root to hand to paprika.NewClient.
func (s *Server) URL() string {
	return s.srv.URL + APIPrefix
}

// SetCredentials changes the accepted login and the token it returns.
func (s *Server) SetCredentials(email, password, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email, s.password, s.token = email, password, token
}

// Token returns the bearer token the server currently accepts.
func (s *Server) Token() string {
	return s.currentToken()
}

func (s *Server) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// PutRecipe stores a raw recipe JSON object. It returns false when raw has
// no string uid.
func (s *Server) PutRecipe(raw string) bool {
	var head recipeHead
	if err := json.Unmarshal([]byte(raw), &head); err != nil || head.UID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(head.UID, json.RawMessage(raw))
	return true
}

func (s *Server) putLocked(uid string, raw json.RawMessage) {
	if _, ok := s.recipes[uid]; !ok {
		s.order = append(s.order, uid)
	}
	s.recipes[uid] = raw
}

// Recipe returns the stored JSON of a recipe.
func (s *Server) Recipe(uid string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.recipes[uid]
	return raw, ok
}

// SetCategories replaces the category listing with a raw JSON array.
func (s *Server) SetCategories(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = json.RawMessage(raw)
}

// Respond makes every method request to endpoint (relative to the API
// root, e.g. "sync/recipe/12345") answer with status and body, bypassing
// the fake's own handling.
func (s *Server) Respond(method, endpoint string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[cannedKey(method, endpoint)] = canned{status: status, body: body}
}

// RejectUploads makes uploads answer {"result": false} when reject is true.
func (s *Server) RejectUploads(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = reject
}

// Uploads returns every upload received so far, oldest first.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

// Requests returns how many HTTP requests the server has handled.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func cannedKey(method, endpoint string) string {
	return method + " " + strings.Trim(endpoint, "/")
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cannedResponses(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.TrimPrefix(r.URL.Path, APIPrefix)
		s.mu.Lock()
		c, ok := s.canned[cannedKey(r.Method, endpoint)]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(c.status)
		_, _ = w.Write([]byte(c.body))
	})
}
