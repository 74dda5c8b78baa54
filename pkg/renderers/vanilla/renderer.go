// Package vanilla renders the user management screen as server-side HTML
// using embedded pongo2 templates.
package vanilla

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/render"
	rendertemplate "github.com/goliatone/go-usermgmt/pkg/render/template"
	"github.com/goliatone/go-usermgmt/pkg/render/template/gotemplate"
	"github.com/goliatone/go-usermgmt/pkg/userform"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
)

// Page defaults.
const (
	DefaultTitle      = "User Mgmt"
	DefaultHeading    = "Users"
	DefaultSubheading = "Manage user details"
	DefaultAssetsPath = "/assets"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	classes          map[ChromeClass]string
	validatePath     string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithClasses overrides the CSS classes attached to chrome hooks.
func WithClasses(classes map[ChromeClass]string) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithValidatePath enables per-keystroke validation: inputs point at
// <path>/<field name>, which should answer with RenderFieldFragment.
func WithValidatePath(path string) Option {
	return func(cfg *config) {
		cfg.validatePath = strings.TrimSpace(path)
	}
}

// Renderer renders fields, the modal shell, the list and the page.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	classes      map[string]string
	validatePath string
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:    templates,
		classes:      classMap(cfg.classes),
		validatePath: cfg.validatePath,
	}, nil
}

func (r *Renderer) Name() string { return "vanilla" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// RenderFields renders one labelled input per descriptor, in order.
func (r *Renderer) RenderFields(fields []model.Field, values model.FormValues, errs model.Errors) (string, error) {
	var b strings.Builder
	for _, field := range fields {
		html, err := r.RenderFieldFragment(field, values.String(field.Name), errs.Get(field.Name))
		if err != nil {
			return "", err
		}
		b.WriteString(html)
	}
	return b.String(), nil
}

// RenderFieldFragment renders a single field wrapper. The fragment's root id is
// stable so it can replace itself after validation.
func (r *Renderer) RenderFieldFragment(field model.Field, value, errMsg string) (string, error) {
	view := fieldView{
		ID:          fieldDOMID(field.Name),
		Name:        field.Name,
		Label:       field.Label,
		Type:        field.InputType(),
		Value:       value,
		Required:    field.Required,
		Placeholder: field.Placeholder,
		Help:        field.Help,
		Error:       errMsg,
		Invalid:     strings.TrimSpace(errMsg) != "",
	}
	if r.validatePath != "" {
		view.ValidateURL = joinPath(r.validatePath, field.Name)
	}
	return r.render("field", map[string]any{"field": view})
}

// RenderModal renders the dialog chrome around props.Body.
func (r *Renderer) RenderModal(props ModalProps) (string, error) {
	if !props.Open {
		return "", nil
	}
	return r.render("modal", map[string]any{"modal": newModalView(props)})
}

// RenderUserForm composes the modal shell with the form fields. Closed forms
// render nothing.
func (r *Renderer) RenderUserForm(form *userform.Form, props FormProps) (string, error) {
	if form == nil || !form.IsOpen() {
		return "", nil
	}
	body, err := r.RenderFields(form.Fields(), form.Values(), form.Errors())
	if err != nil {
		return "", err
	}
	targetID := ""
	if target := form.Target(); target != nil {
		targetID = target.ID
	}
	return r.RenderModal(ModalProps{
		ID:          "user-form",
		Open:        true,
		Title:       form.Title(),
		Body:        body,
		ConfirmText: SaveText,
		CancelText:  DefaultCancelText,
		Action:      props.Action,
		CancelURL:   props.CancelURL,
		Hidden:      render.SessionFields(targetID, form.DraftID()),
		Busy:        props.Busy,
		FormError:   props.FormError,
	})
}

// RenderList renders one page of users with their row actions and the
// pagination control.
func (r *Renderer) RenderList(page userlist.Page, props ListProps) (string, error) {
	return r.render("list", map[string]any{"list": newListView(page, props)})
}

// RenderPage renders the full document.
func (r *Renderer) RenderPage(data PageData) (string, error) {
	prefix := strings.TrimRight(fallback(data.AssetsPrefix, DefaultAssetsPath), "/")
	view := pageView{
		Title:        fallback(data.Title, DefaultTitle),
		Heading:      fallback(data.Heading, DefaultHeading),
		Subheading:   fallback(data.Subheading, DefaultSubheading),
		Count:        data.Count,
		AddURL:       data.AddURL,
		ListHTML:     data.ListHTML,
		ModalHTML:    data.ModalHTML,
		Alert:        data.Alert,
		ThemeCSS:     data.ThemeCSS,
		ThemeName:    data.ThemeName,
		AssetsPrefix: prefix,
		Stylesheet:   fallback(data.StylesheetURL, prefix+"/"+StylesheetName),
		Script:       fallback(data.ScriptURL, prefix+"/"+ScriptName),
	}
	return r.render("page", map[string]any{"page": view})
}

func (r *Renderer) render(name string, data map[string]any) (string, error) {
	if r.templates == nil {
		return "", fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	data["classes"] = r.classes
	out, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render %s: %w", name, err)
	}
	return out, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
