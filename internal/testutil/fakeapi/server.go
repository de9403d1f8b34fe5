// Package fakeapi is an in-process stand-in for the outage tracker REST API.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/dtroode/outagetracker/internal/model"
)

// BasePath is the API prefix served by the fake.
const BasePath = "/api/v1"

const signingKey = "fakeapi-secret"

// Request is a recorded incoming request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          map[string]any
}

type account struct {
	user     model.User
	password string
}

type failure struct {
	status int
	body   any
}

// Server serves the auth and location endpoints from memory.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]*account
	tokens    map[string]int64
	locations map[int64][]model.Location
	nextUser  int64
	nextLoc   int64
	tokenSeq  int64
	failures  map[string]failure
	requests  []Request

	// TokenTTL is the lifetime encoded in issued tokens.
	TokenTTL time.Duration
}

// New starts a fake API server. Close it with Server.Close.
func New() *Server {
	s := &Server{
		accounts:  map[string]*account{},
		tokens:    map[string]int64{},
		locations: map[int64][]model.Location{},
		failures:  map[string]failure{},
		TokenTTL:  time.Hour,
	}

	r := mux.NewRouter()
	r.Use(s.record)
	api := r.PathPrefix(BasePath).Subrouter()
	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", s.authed(s.logout)).Methods(http.MethodPost)
	api.HandleFunc("/auth/user", s.authed(s.currentUser)).Methods(http.MethodGet)
	api.HandleFunc("/auth/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/locations", s.authed(s.listLocations)).Methods(http.MethodGet)
	api.HandleFunc("/locations", s.authed(s.createLocation)).Methods(http.MethodPost)
	api.HandleFunc("/locations/{id:[0-9]+}", s.authed(s.getLocation)).Methods(http.MethodGet)
	api.HandleFunc("/locations/{id:[0-9]+}", s.authed(s.updateLocation)).Methods(http.MethodPut)
	api.HandleFunc("/locations/{id:[0-9]+}", s.authed(s.deleteLocation)).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	return s
}

// APIURL returns the base URL clients should be configured with.
func (s *Server) APIURL() string {
	return s.URL + BasePath
}

// AddUser registers an account directly.
func (s *Server) AddUser(name, email, password string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password)
}

func (s *Server) addUserLocked(name, email, password string) model.User {
	s.nextUser++
	now := time.Now().UTC().Truncate(time.Second)
	u := model.User{ID: s.nextUser, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	s.accounts[strings.ToLower(email)] = &account{user: u, password: password}
	return u
}

// IssueToken returns a valid token for userID.
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokenLocked(userID)
}

func (s *Server) issueTokenLocked(userID int64) string {
	now := time.Now()
	s.tokenSeq++
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        strconv.FormatInt(s.tokenSeq, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
	})
	signed, _ := tok.SignedString([]byte(signingKey))
	s.tokens[signed] = userID
	return signed
}

// RevokeToken makes token invalid for subsequent requests.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// TokenValid reports whether token is currently accepted.
func (s *Server) TokenValid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok
}

// SeedLocation stores a location for userID and returns it with its id.
func (s *Server) SeedLocation(userID int64, loc model.Location) model.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLoc++
	loc.ID = s.nextLoc
	s.locations[userID] = append(s.locations[userID], loc)
	return loc
}

// Locations returns the stored locations of userID.
func (s *Server) Locations(userID int64) []model.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Location(nil), s.locations[userID]...)
}

// FailNext makes the next request matching method and path (relative to
// BasePath) fail with status and a JSON body.
func (s *Server) FailNext(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+BasePath+path] = failure{status: status, body: body}
}

// Requests returns the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests returns how many requests matched method and path.
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == BasePath+path {
			n++
		}
	}
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		key := r.Method + " " + r.URL.Path
		f, failing := s.failures[key]
		if failing {
			delete(s.failures, key)
		}
		s.mu.Unlock()

		if failing {
			writeJSON(w, f.status, f.body)
			return
		}

		next.ServeHTTP(w, withBody(r, body))
	})
}

type bodyKey struct{}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID int64, token string)

func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		userID, ok := s.tokens[token]
		s.mu.Unlock()
		if token == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		h(w, r, userID, token)
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	name, _ := body["name"].(string)
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)

	errs := map[string][]string{}
	if len(name) < 2 {
		errs["name"] = []string{"The name field must be at least 2 characters."}
	}
	if email == "" {
		errs["email"] = []string{"The email field is required."}
	}
	if len(password) < 8 {
		errs["password"] = []string{"The password field must be at least 8 characters."}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[strings.ToLower(email)]; taken {
		errs["email"] = []string{"The email has already been taken."}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": firstError(errs),
			"errors":  errs,
		})
		return
	}

	u := s.addUserLocked(name, email, password)
	writeJSON(w, http.StatusCreated, model.AuthResult{User: u, Token: s.issueTokenLocked(u.ID)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	body := bodyOf(r)
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	logoutOthers, _ := body["logout_others"].(bool)

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok || acc.password != password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}
	if logoutOthers {
		for tok, uid := range s.tokens {
			if uid == acc.user.ID {
				delete(s.tokens, tok)
			}
		}
	}
	writeJSON(w, http.StatusOK, model.AuthResult{User: acc.user, Token: s.issueTokenLocked(acc.user.ID)})
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request, _ int64, token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) currentUser(w http.ResponseWriter, _ *http.Request, userID int64, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID == userID {
			writeJSON(w, http.StatusOK, map[string]any{"user": acc.user})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
}

func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	email, _ := bodyOf(r)["email"].(string)
	if email == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The email field is required.",
			"errors":  map[string][]string{"email": {"The email field is required."}},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "We have emailed your password reset link."})
}

func (s *Server) listLocations(w http.ResponseWriter, _ *http.Request, userID int64, _ string) {
	s.mu.Lock()
	locs := append([]model.Location{}, s.locations[userID]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, model.LocationPage{
		Data: locs,
		Pagination: model.Pagination{
			CurrentPage: 1,
			PerPage:     15,
			Total:       len(locs),
			LastPage:    1,
		},
	})
}

func (s *Server) getLocation(w http.ResponseWriter, r *http.Request, userID int64, _ string) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range s.locations[userID] {
		if loc.ID == id {
			writeJSON(w, http.StatusOK, map[string]any{"location": loc})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Location not found"})
}

func (s *Server) createLocation(w http.ResponseWriter, r *http.Request, userID int64, _ string) {
	loc := locationFromBody(bodyOf(r))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.locations[userID] {
		if existing.Latitude == loc.Latitude && existing.Longitude == loc.Longitude {
			writeJSON(w, http.StatusConflict, map[string]any{
				"message":  "A location with these coordinates already exists",
				"location": existing,
			})
			return
		}
	}
	s.nextLoc++
	loc.ID = s.nextLoc
	s.locations[userID] = append(s.locations[userID], loc)
	writeJSON(w, http.StatusCreated, map[string]any{"location": loc})
}

func (s *Server) updateLocation(w http.ResponseWriter, r *http.Request, userID int64, _ string) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	loc := locationFromBody(bodyOf(r))
	loc.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.locations[userID] {
		if existing.ID == id {
			s.locations[userID][i] = loc
			writeJSON(w, http.StatusOK, map[string]any{"location": loc})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Location not found"})
}

func (s *Server) deleteLocation(w http.ResponseWriter, r *http.Request, userID int64, _ string) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	locs := s.locations[userID]
	for i, existing := range locs {
		if existing.ID == id {
			s.locations[userID] = append(locs[:i:i], locs[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Location deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Location not found"})
}

func locationFromBody(body map[string]any) model.Location {
	str := func(k string) string { v, _ := body[k].(string); return v }
	num := func(k string) float64 { v, _ := body[k].(float64); return v }
	return model.Location{
		Name:      str("name"),
		Address:   str("address"),
		Locality:  str("locality"),
		City:      str("city"),
		Country:   str("country"),
		Latitude:  num("latitude"),
		Longitude: num("longitude"),
	}
}

func firstError(errs map[string][]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return errs[keys[0]][0]
}

func withBody(r *http.Request, body map[string]any) *http.Request {
	if body == nil {
		body = map[string]any{}
	}
	return r.WithContext(contextWithBody(r, body))
}

func bodyOf(r *http.Request) map[string]any {
	body, _ := r.Context().Value(bodyKey{}).(map[string]any)
	if body == nil {
		return map[string]any{}
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
