// Package mockserver is an in-memory stand-in for the activities backend, used
// for local development (`actividades mock-server`) and tests.
package mockserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"actividades-cli/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/cors"
)

const issuer = "actividades-mock"

type Account struct {
	User     model.User
	Password string
}

type Server struct {
	mu         sync.Mutex
	secret     []byte
	now        func() time.Time
	tokenTTL   time.Duration
	accounts   []Account
	activities []model.Activity
	audit      []model.AuditEntry
	nextID     int64
	nextAudit  int64
	seenKeys   map[string]struct{}
	calls      map[string]int
}

type Option func(*Server)

func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithAccounts(accounts ...Account) Option {
	return func(s *Server) { s.accounts = append([]Account{}, accounts...) }
}

func WithActivities(list ...model.Activity) Option {
	return func(s *Server) {
		s.activities = append([]model.Activity{}, list...)
		for _, a := range list {
			if a.ID >= s.nextID {
				s.nextID = a.ID + 1
			}
		}
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		secret:   []byte("dev-secret-change-me"),
		now:      time.Now,
		tokenTTL: 8 * time.Hour,
		nextID:   1,
		seenKeys: map[string]struct{}{},
		calls:    map[string]int{},
	}
	s.seed()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func strPtr(s string) *string { return &s }

func (s *Server) seed() {
	s.accounts = []Account{
		{User: model.User{ID: 1, Name: "admin", Email: "admin@example.com", Role: model.RoleAdmin}, Password: "admin"},
		{User: model.User{ID: 2, Name: "ana", Email: "ana@example.com", Role: model.RoleExecutor}, Password: "ana"},
		{User: model.User{ID: 3, Name: "bruno", Email: "bruno@example.com", Role: model.RoleExecutor}, Password: "bruno"},
	}
	ana := &model.UserRef{ID: 2, Name: "ana"}
	bruno := &model.UserRef{ID: 3, Name: "bruno"}
	WithActivities(
		model.Activity{ID: 1, Description: strPtr("Relevar requerimientos"), Priority: "Alta", State: model.StatePending, CurrentUser: ana},
		model.Activity{ID: 2, Description: strPtr("Diseñar base de datos"), Priority: "Media", State: model.StateInProgress, CurrentUser: bruno},
		model.Activity{ID: 3, Description: strPtr("Escribir documentación"), Priority: "Baja", State: model.StatePending},
	)(s)
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/auth/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/actividades", s.handleListActivities)
		r.Post("/actividades", s.handleCreateActivity)
		r.Put("/actividades", s.handleEditActivity)
		r.Delete("/actividades/{id}", s.handleDeleteActivity)
		r.Get("/usuarios", s.handleListUsers)
		r.Get("/auditoria-actividades", s.handleListAudit)
	})

	// The browser front end is served from another origin during development.
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Idempotency-Key"},
	}).Handler(r)
}

// Calls returns how many times "METHOD /route" was served successfully.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Activities returns a copy of the current activities.
func (s *Server) Activities() []model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Activity{}, s.activities...)
}

// IssueToken signs a token for the given account name. Used by tests that skip login.
func (s *Server) IssueToken(username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.User.Name == username {
			return s.signLocked(a.User)
		}
	}
	return "", fmt.Errorf("unknown user %q", username)
}

func (s *Server) signLocked(u model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":           strconv.FormatInt(u.ID, 10),
		"nombreUsuario": u.Name,
		"rol":           u.Role.Wire(),
		"iss":           issuer,
		"iat":           now.Unix(),
		"exp":           now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), http.StatusText(ww.Status()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
		if ww.Status() >= 200 && ww.Status() < 300 {
			route := r.Method + " " + routePattern(r)
			s.mu.Lock()
			s.calls[route]++
			s.mu.Unlock()
		}
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

type ctxUserKey struct{}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithTimeFunc(s.now))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.User.Name == req.Username && a.Password == req.Password {
			tok, err := s.signLocked(a.User)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, model.LoginResult{Token: tok})
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "invalid credentials")
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]model.Activity{}, s.activities...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]model.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.User)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]model.AuditEntry{}, s.audit...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var p model.CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replayLocked(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ref, err := s.userRefLocked(p.AssignedUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state := p.State
	if state == "" {
		state = model.StatePending
	}
	a := model.Activity{
		ID:          s.nextID,
		Description: strPtr(p.Description),
		Priority:    p.Priority,
		State:       state,
		CurrentUser: ref,
	}
	s.nextID++
	s.activities = append(s.activities, a)
	s.auditLocked(a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleEditActivity(w http.ResponseWriter, r *http.Request) {
	var p model.EditPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replayLocked(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	idx := s.indexLocked(p.ID)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "actividad no encontrada")
		return
	}
	ref, err := s.userRefLocked(p.AssignedUserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a := &s.activities[idx]
	a.Description = strPtr(p.Description)
	a.Priority = p.Priority
	a.State = p.State
	a.CurrentUser = ref
	s.auditLocked(*a)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replayLocked(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	idx := s.indexLocked(id)
	if idx < 0 {
		writeError(w, http.StatusNotFound, "actividad no encontrada")
		return
	}
	removed := s.activities[idx]
	s.activities = append(s.activities[:idx], s.activities[idx+1:]...)
	removed.State = "ELIMINADO"
	s.auditLocked(removed)
	w.WriteHeader(http.StatusNoContent)
}

// replayLocked reports whether the request's Idempotency-Key was already applied.
func (s *Server) replayLocked(r *http.Request) bool {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		return false
	}
	if _, ok := s.seenKeys[key]; ok {
		return true
	}
	s.seenKeys[key] = struct{}{}
	return false
}

func (s *Server) indexLocked(id int64) int {
	for i := range s.activities {
		if s.activities[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) userRefLocked(id *int64) (*model.UserRef, error) {
	if id == nil {
		return nil, nil
	}
	for _, a := range s.accounts {
		if a.User.ID == *id {
			return &model.UserRef{ID: a.User.ID, Name: a.User.Name}, nil
		}
	}
	return nil, errors.New("usuario no encontrado")
}

func (s *Server) auditLocked(a model.Activity) {
	s.nextAudit++
	s.audit = append(s.audit, model.AuditEntry{
		ID:          s.nextAudit,
		ActivityID:  a.ID,
		Description: a.DescriptionText(),
		State:       a.State,
		UserName:    a.AssignedUserName(),
		ChangedAt:   s.now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
