// Package memapi serves an in-memory users REST resource for local
// development and tests.
package memapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

// Backend is an in-memory users REST resource: GET/POST /users and
// PUT/DELETE /users/{id}. It records calls and can be told to fail.
type Backend struct {
	router chi.Router

	mu         sync.Mutex
	users      []model.User
	calls      map[string]int
	failures   map[string][]int
	requestIDs []string
	rawList    []byte
}

// NewBackend returns a backend seeded with users.
func NewBackend(seed ...model.User) *Backend {
	b := &Backend{
		users:    append([]model.User(nil), seed...),
		calls:    make(map[string]int),
		failures: make(map[string][]int),
	}

	router := chi.NewRouter()
	router.Use(b.record)
	router.Get("/users", b.list)
	router.Post("/users", b.create)
	router.Put("/users/{id}", b.update)
	router.Delete("/users/{id}", b.delete)
	b.router = router
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Users returns a snapshot of the stored collection.
func (b *Backend) Users() []model.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.User(nil), b.users...)
}

// Calls reports how many requests used method.
func (b *Backend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// RequestIDs lists the X-Request-Id headers received, in order.
func (b *Backend) RequestIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requestIDs...)
}

// FailNext makes the next requests using method answer with the given
// statuses, one per request.
func (b *Backend) FailNext(method string, statuses ...int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method] = append(b.failures[method], statuses...)
}

// ServeRawList replaces the GET /users payload with raw bytes.
func (b *Backend) ServeRawList(raw []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rawList = raw
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.Method]++
		b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-Id"))
		var status int
		if queued := b.failures[r.Method]; len(queued) > 0 {
			status = queued[0]
			b.failures[r.Method] = queued[1:]
		}
		b.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) list(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	raw := b.rawList
	users := append([]model.User{}, b.users...)
	b.mu.Unlock()

	if raw != nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	user := in.WithID(model.NewUserID())

	b.mu.Lock()
	b.users = append(b.users, user)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, user)
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in model.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, user := range b.users {
		if user.ID == id {
			b.users[i] = in.WithID(id)
			writeJSON(w, http.StatusOK, b.users[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
}

func (b *Backend) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, user := range b.users {
		if user.ID == id {
			b.users = append(b.users[:i], b.users[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
