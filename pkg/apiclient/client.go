// Package apiclient talks to the remote users REST resource.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

const maxResponseBytes = 4 << 20

var errDecode = errors.New("decode response")

// Operation names reported to observers and logs.
const (
	OpListUsers  = "list_users"
	OpCreateUser = "create_user"
	OpUpdateUser = "update_user"
	OpDeleteUser = "delete_user"
)

// Client is a thin JSON client for GET/POST/PUT/DELETE on /users. It is safe
// for concurrent use.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	customHTTP bool
	timeout    time.Duration
	retries    int
	backoff    time.Duration
	validate   bool
	contract   *Contract
	logger     zerolog.Logger
	observer   Observer
}

// New builds a client rooted at baseURL; an empty value selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q has no host", baseURL)
	}

	c := &Client{
		baseURL: parsed,
		timeout: defaultTimeout,
		backoff: defaultRetryBackoff,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if !c.customHTTP {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.validate && c.contract == nil {
		contract, err := DefaultContract()
		if err != nil {
			return nil, err
		}
		c.contract = contract
	}
	return c, nil
}

// BaseURL returns the configured root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListUsers fetches the whole collection.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	list := func(ctx context.Context) error {
		users = nil
		return c.do(ctx, OpListUsers, http.MethodGet, "/users", nil, &users, c.contractCheck(OpListUsers))
	}

	if c.retries == 0 {
		if err := list(ctx); err != nil {
			return nil, err
		}
		return nonNil(users), nil
	}

	backoff := retry.WithMaxRetries(uint64(c.retries), retry.NewExponential(c.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := list(ctx)
		if retryable(ctx, err) {
			c.logger.Debug().Err(err).Str("op", OpListUsers).Msg("retrying request")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

// CreateUser posts in and returns the record the server stored.
func (c *Client) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	var created model.User
	if err := c.do(ctx, OpCreateUser, http.MethodPost, "/users", in, &created, c.contractCheck(OpCreateUser)); err != nil {
		return model.User{}, err
	}
	return created, nil
}

// UpdateUser replaces the editable attributes of id. An empty response body is
// treated as an echo of the request.
func (c *Client) UpdateUser(ctx context.Context, id string, in model.UserInput) (model.User, error) {
	if strings.TrimSpace(id) == "" {
		return model.User{}, errors.New("apiclient: update user: id is required")
	}
	updated := in.WithID(id)
	if err := c.do(ctx, OpUpdateUser, http.MethodPut, userPath(id), in, &updated, c.contractCheck(OpUpdateUser)); err != nil {
		return model.User{}, err
	}
	return updated, nil
}

// DeleteUser removes id. The response body is ignored.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("apiclient: delete user: id is required")
	}
	return c.do(ctx, OpDeleteUser, http.MethodDelete, userPath(id), nil, nil, nil)
}

func userPath(id string) string {
	return "/users/" + url.PathEscape(id)
}

func (c *Client) contractCheck(op string) func([]byte) error {
	if !c.validate || c.contract == nil {
		return nil
	}
	if op == OpListUsers {
		return c.contract.ValidateUserList
	}
	return c.contract.ValidateUser
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any, check func([]byte) error) (err error) {
	started := time.Now()
	status := 0
	defer func() {
		elapsed := time.Since(started)
		if c.observer != nil {
			c.observer.ObserveRequest(op, status, elapsed, err)
		}
		event := c.logger.Debug()
		if err != nil {
			event = c.logger.Warn().Err(err)
		}
		event.Str("op", op).
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("users api call")
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: %s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("apiclient: %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s: %w", op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("apiclient: %s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Op:         op,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		if out != nil && method != http.MethodPut {
			return fmt.Errorf("apiclient: %s: empty response body", op)
		}
		return nil
	}
	if check != nil {
		if err := check(raw); err != nil {
			return fmt.Errorf("apiclient: %s: %w", op, err)
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: %s: %w: %w", op, errDecode, err)
	}
	return nil
}

// errorMessage extracts a message from a JSON error body, falling back to the
// raw text.
func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return !errors.Is(err, ErrContractViolation) && !errors.Is(err, errDecode)
}

func nonNil(users []model.User) []model.User {
	if users == nil {
		return []model.User{}
	}
	return users
}
