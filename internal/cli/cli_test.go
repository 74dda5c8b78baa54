package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-usermgmt/internal/config"
	"github.com/goliatone/go-usermgmt/pkg/renderers/tui"
	"github.com/goliatone/go-usermgmt/pkg/testsupport"
)

type scriptedDriver struct {
	inputs  []string
	confirm []bool
	selects []int
	infos   []string
}

func (s *scriptedDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *scriptedDriver) Confirm(_ context.Context, _ tui.ConfirmConfig) (bool, error) {
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *scriptedDriver) Select(_ context.Context, _ tui.SelectConfig) (int, error) {
	if len(s.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selects[0]
	s.selects = s.selects[1:]
	return val, nil
}

func (s *scriptedDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

var validAnswers = []string{"Ada", "Lovelace", "9876543210", "ada@example.com"}

func run(t *testing.T, api *testsupport.UsersAPI, driver *scriptedDriver, width int, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvAPIBaseURL, "")
	t.Setenv(config.EnvListenAddr, "")
	t.Setenv(config.EnvLogLevel, "")

	var out bytes.Buffer
	opts := []Option{WithOutput(&out), WithWidth(width)}
	if driver != nil {
		opts = append(opts, WithPromptDriver(driver))
	}
	cmd := NewRootCommand(opts...)
	cmd.SetArgs(append([]string{"--log", "error", "--api-url", api.URL()}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsersList(t *testing.T) {
	users := testsupport.SampleUsers(8)
	api := testsupport.NewUsersAPI(t, users...)

	out, err := run(t, api, nil, 120, "users", "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, users[6].Email)
	assert.NotContains(t, out, users[0].Email)
	assert.Contains(t, out, "Page 2 of 2")
}

func TestUsersList_NarrowTerminalIsCompact(t *testing.T) {
	api := testsupport.NewUsersAPI(t, testsupport.SampleUsers(8)...)

	out, err := run(t, api, nil, 60, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 of 3")

	out, err = run(t, api, nil, 0, "users", "list", "--compact")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 of 3")
}

func TestUsersList_Empty(t *testing.T) {
	api := testsupport.NewUsersAPI(t)

	out, err := run(t, api, nil, 120, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No users found")
}

func TestUsersList_APIFailure(t *testing.T) {
	api := testsupport.NewUsersAPI(t)
	api.FailNext(http.MethodGet, http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusServiceUnavailable)

	_, err := run(t, api, nil, 120, "users", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cli: list users")
}

func TestUsersAdd(t *testing.T) {
	api := testsupport.NewUsersAPI(t)
	driver := &scriptedDriver{inputs: validAnswers, confirm: []bool{true}}

	out, err := run(t, api, driver, 120, "users", "add")
	require.NoError(t, err)

	stored := api.Users()
	require.Len(t, stored, 1)
	assert.Contains(t, out, "Created Ada Lovelace ("+stored[0].ID+")")
	assert.Equal(t, 1, api.Calls(http.MethodPost))
}

func TestUsersAdd_Declined(t *testing.T) {
	api := testsupport.NewUsersAPI(t)
	driver := &scriptedDriver{inputs: validAnswers, confirm: []bool{false}}

	out, err := run(t, api, driver, 120, "users", "add")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Equal(t, 0, api.Calls(http.MethodPost))
}

func TestUsersEdit(t *testing.T) {
	users := testsupport.SampleUsers(2)
	api := testsupport.NewUsersAPI(t, users...)
	driver := &scriptedDriver{inputs: validAnswers, confirm: []bool{true}}

	out, err := run(t, api, driver, 120, "users", "edit", "usr_fixture01")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Ada Lovelace (usr_fixture01)")
	assert.Equal(t, "Ada", api.Users()[1].FirstName)

	_, err = run(t, api, &scriptedDriver{}, 120, "users", "edit", "usr_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `user "usr_missing" not found`)
}

func TestUsersDelete(t *testing.T) {
	users := testsupport.SampleUsers(2)
	api := testsupport.NewUsersAPI(t, users...)

	out, err := run(t, api, &scriptedDriver{confirm: []bool{false}}, 120, "users", "delete", "usr_fixture00")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Len(t, api.Users(), 2)

	out, err = run(t, api, nil, 120, "users", "delete", "usr_fixture00", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+users[0].FullName())
	assert.Len(t, api.Users(), 1)
}

func TestTUILoop_AddThenQuit(t *testing.T) {
	api := testsupport.NewUsersAPI(t, testsupport.SampleUsers(2)...)
	// Menu for one page with rows: Add, Edit, Delete, Refresh, Quit.
	driver := &scriptedDriver{
		selects: []int{0, 4},
		inputs:  validAnswers,
		confirm: []bool{true},
	}

	out, err := run(t, api, driver, 120, "tui")
	require.NoError(t, err)
	assert.Contains(t, out, "Created Ada Lovelace")
	assert.Equal(t, 2, strings.Count(out, "NAME"), "list printed before each menu")
	assert.Contains(t, out, "Ada Lovelace  ")
	assert.Len(t, api.Users(), 3)
}

func TestTUILoop_DeleteSelectedUser(t *testing.T) {
	users := testsupport.SampleUsers(2)
	api := testsupport.NewUsersAPI(t, users...)
	driver := &scriptedDriver{
		selects: []int{2, 1, 4},
		confirm: []bool{true},
	}

	out, err := run(t, api, driver, 120, "tui")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+users[1].FullName())
	require.Len(t, api.Users(), 1)
	assert.Equal(t, users[0].ID, api.Users()[0].ID)
}

func TestInvalidAPIURL(t *testing.T) {
	api := testsupport.NewUsersAPI(t)
	var out bytes.Buffer
	cmd := NewRootCommand(WithOutput(&out))
	cmd.SetArgs([]string{"--api-url", "ftp://" + strings.TrimPrefix(api.URL(), "http://"), "users", "list"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url")
}
