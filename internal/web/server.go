// Package web serves the user management page: the paginated list, the
// add/edit modal and the mutations behind them.
package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-usermgmt/internal/metrics"
	"github.com/goliatone/go-usermgmt/pkg/fields"
	"github.com/goliatone/go-usermgmt/pkg/query"
	"github.com/goliatone/go-usermgmt/pkg/renderers/vanilla"
	"github.com/goliatone/go-usermgmt/pkg/userform"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
)

// ValidatePath prefixes the per-keystroke validation endpoint.
const ValidatePath = "/validate"

// CompactViewportWidth is the viewport width below which the compact page size
// applies.
const CompactViewportWidth = 600

// Option customises a Server.
type Option func(*Server)

// WithRenderer replaces the default vanilla renderer.
func WithRenderer(renderer *vanilla.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithRegistry sets the form fields, typically with configured overrides.
func WithRegistry(registry *fields.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithTheme inlines a resolved palette into every page.
func WithTheme(theme Theme) Option {
	return func(s *Server) {
		s.theme = theme
	}
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the base logger request loggers derive from.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPageSizes sets the regular and compact list page sizes.
func WithPageSizes(regular, compact int) Option {
	return func(s *Server) {
		if regular > 0 {
			s.pageSize = regular
		}
		if compact > 0 {
			s.compactPageSize = compact
		}
	}
}

// Server holds the handler dependencies. It is safe for concurrent use; all
// shared state lives in the query layer.
type Server struct {
	users           *query.Users
	renderer        *vanilla.Renderer
	registry        *fields.Registry
	theme           Theme
	metrics         *metrics.Metrics
	logger          zerolog.Logger
	pageSize        int
	compactPageSize int
}

// New builds a server over users.
func New(users *query.Users, opts ...Option) (*Server, error) {
	if users == nil {
		return nil, fmt.Errorf("web: users query is required")
	}
	s := &Server{
		users:           users,
		logger:          zerolog.Nop(),
		pageSize:        userlist.DefaultPageSize,
		compactPageSize: userlist.CompactPageSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.registry == nil {
		s.registry = fields.UserForm()
	}
	if s.renderer == nil {
		renderer, err := vanilla.New(vanilla.WithValidatePath(ValidatePath))
		if err != nil {
			return nil, fmt.Errorf("web: %w", err)
		}
		s.renderer = renderer
	}
	return s, nil
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.withLogger)
	r.Use(s.accessLog)
	r.Use(recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/users/new", s.handleNew)
	r.Get("/users/{id}/edit", s.handleEdit)
	r.Post("/users", s.handleSave)
	r.Post("/users/{id}/delete", s.handleDelete)
	r.Post(ValidatePath+"/{field}", s.handleValidate)

	r.Get("/healthz", handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	assets := http.StripPrefix(vanilla.DefaultAssetsPath+"/", http.FileServer(http.FS(vanilla.AssetsFS())))
	r.Handle(vanilla.DefaultAssetsPath+"/*", assets)
	return r
}

func (s *Server) newForm() *userform.Form {
	return userform.New(s.registry)
}
