package testsupport

import (
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-usermgmt/pkg/memapi"
	"github.com/goliatone/go-usermgmt/pkg/model"
)

// UsersAPI serves a memapi.Backend over httptest.
type UsersAPI struct {
	*memapi.Backend
	Server *httptest.Server
}

// NewUsersAPI starts a server seeded with users. It is closed on test cleanup.
func NewUsersAPI(t testing.TB, seed ...model.User) *UsersAPI {
	t.Helper()

	api := &UsersAPI{Backend: memapi.NewBackend(seed...)}
	api.Server = httptest.NewServer(api.Backend)
	t.Cleanup(api.Server.Close)
	return api
}

// URL is the base URL of the fake.
func (a *UsersAPI) URL() string { return a.Server.URL }
