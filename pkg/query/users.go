package query

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

// UsersKey caches the user collection.
const UsersKey = "users"

// ErrMutationInFlight is returned when an identical mutation is still pending.
var ErrMutationInFlight = errors.New("query: mutation already in flight")

// UserService is the REST surface the query layer drives. *apiclient.Client
// satisfies it.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, in model.UserInput) (model.User, error)
	UpdateUser(ctx context.Context, id string, in model.UserInput) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UsersOption customises Users.
type UsersOption func(*Users)

// WithUsersLogger routes mutation logs to logger.
func WithUsersLogger(logger zerolog.Logger) UsersOption {
	return func(u *Users) {
		u.logger = logger
	}
}

// Users exposes the cached user collection and the mutations that invalidate
// it. It is safe for concurrent use.
type Users struct {
	service UserService
	cache   *Cache
	logger  zerolog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewUsers wires service to cache. A nil cache gets a private one.
func NewUsers(service UserService, cache *Cache, opts ...UsersOption) *Users {
	if cache == nil {
		cache = NewCache()
	}
	u := &Users{
		service: service,
		cache:   cache,
		logger:  zerolog.Nop(),
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// Cache exposes the underlying cache.
func (u *Users) Cache() *Cache { return u.cache }

// List returns the cached collection, fetching it when stale. The returned
// slice is a copy.
func (u *Users) List(ctx context.Context) ([]model.User, error) {
	users, err := Get(ctx, u.cache, UsersKey, u.service.ListUsers)
	if err != nil {
		return nil, err
	}
	return append([]model.User{}, users...), nil
}

// Find looks id up in the collection.
func (u *Users) Find(ctx context.Context, id string) (model.User, bool, error) {
	users, err := u.List(ctx)
	if err != nil {
		return model.User{}, false, err
	}
	user, ok := lo.Find(users, func(item model.User) bool {
		return item.ID == id
	})
	return user, ok, nil
}

// Create posts a new user. draftID identifies the form session so a repeated
// submission of the same draft is rejected while the first is pending.
func (u *Users) Create(ctx context.Context, draftID string, in model.UserInput) (model.User, error) {
	var created model.User
	err := u.mutate(ctx, CreateKey(draftID), func(ctx context.Context) error {
		var err error
		created, err = u.service.CreateUser(ctx, in)
		return err
	})
	return created, err
}

// Update replaces the editable attributes of id.
func (u *Users) Update(ctx context.Context, id string, in model.UserInput) (model.User, error) {
	var updated model.User
	err := u.mutate(ctx, UpdateKey(id), func(ctx context.Context) error {
		var err error
		updated, err = u.service.UpdateUser(ctx, id, in)
		return err
	})
	return updated, err
}

// Delete removes id.
func (u *Users) Delete(ctx context.Context, id string) error {
	return u.mutate(ctx, DeleteKey(id), func(ctx context.Context) error {
		return u.service.DeleteUser(ctx, id)
	})
}

// Save routes a save intent. Editing sessions update user.ID; new records are
// created with user.ID, the form's draft id, as the in-flight key.
func (u *Users) Save(ctx context.Context, user model.User, editing bool) (model.User, error) {
	if editing {
		return u.Update(ctx, user.ID, user.Input())
	}
	return u.Create(ctx, user.ID, user.Input())
}

// Pending reports whether a mutation keyed key is running.
func (u *Users) Pending(key string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.pending[key]
	return ok
}

func CreateKey(draftID string) string { return "create:" + draftID }
func UpdateKey(id string) string      { return "update:" + id }
func DeleteKey(id string) string      { return "delete:" + id }

func (u *Users) mutate(ctx context.Context, key string, run func(ctx context.Context) error) error {
	u.mu.Lock()
	if _, busy := u.pending[key]; busy {
		u.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMutationInFlight, key)
	}
	u.pending[key] = struct{}{}
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		delete(u.pending, key)
		u.mu.Unlock()
	}()

	if err := run(ctx); err != nil {
		u.logger.Warn().Err(err).Str("mutation", key).Msg("mutation failed")
		return fmt.Errorf("query: %s: %w", key, err)
	}
	u.cache.Invalidate(UsersKey)
	u.logger.Debug().Str("mutation", key).Msg("mutation applied")
	return nil
}
