package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-usermgmt/pkg/apiclient"
	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/query"
	"github.com/goliatone/go-usermgmt/pkg/render"
	"github.com/goliatone/go-usermgmt/pkg/renderers/vanilla"
	"github.com/goliatone/go-usermgmt/pkg/userform"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
	"github.com/goliatone/go-usermgmt/pkg/validation"
)

const viewportHeader = "Sec-CH-Viewport-Width"

// view is the list position carried through every link and redirect.
type view struct {
	page    int
	compact bool
	// forced marks a compact view requested through ?compact=1, which links
	// must keep.
	forced bool
}

func (s *Server) viewFrom(r *http.Request) view {
	q := r.URL.Query()
	v := view{page: 1}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		v.page = n
	}
	if q.Get("compact") == "1" {
		v.compact, v.forced = true, true
	}
	if width, err := strconv.Atoi(r.Header.Get(viewportHeader)); err == nil && width > 0 && width < CompactViewportWidth {
		v.compact = true
	}
	return v
}

func (v view) query(page int) string {
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if v.forced {
		q.Set("compact", "1")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (v view) listURL(page int) string { return "/" + v.query(page) }

func (v view) withQuery(path string) string { return path + v.query(v.page) }

func (s *Server) pageSizeFor(v view) int {
	if v.compact {
		return s.compactPageSize
	}
	return s.pageSize
}

// screen is one rendering of the page.
type screen struct {
	status    int
	form      *userform.Form
	alert     string
	formError string
	busy      bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderScreen(w, r, screen{status: http.StatusOK})
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	form := s.newForm()
	form.Open(nil)
	s.renderScreen(w, r, screen{status: http.StatusOK, form: form})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, ok, err := s.users.Find(r.Context(), id)
	if err != nil {
		s.fail(w, r, "load users", err)
		return
	}
	if !ok {
		s.renderScreen(w, r, screen{status: http.StatusNotFound, alert: "User not found"})
		return
	}
	form := s.newForm()
	form.Open(&user)
	s.renderScreen(w, r, screen{status: http.StatusOK, form: form})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	targetID, draftID := render.SessionFromForm(r.PostForm)

	var target *model.User
	if targetID != "" {
		user, ok, err := s.users.Find(r.Context(), targetID)
		if err != nil {
			s.fail(w, r, "load users", err)
			return
		}
		if !ok {
			s.renderScreen(w, r, screen{status: http.StatusNotFound, alert: "User not found"})
			return
		}
		target = &user
	}

	form := s.newForm()
	form.Restore(target, draftID, s.submitted(r.PostForm))
	user, ok := form.Save()
	if !ok {
		s.renderScreen(w, r, screen{status: http.StatusUnprocessableEntity, form: form})
		return
	}

	logger := zerolog.Ctx(r.Context())
	if _, err := s.users.Save(r.Context(), user, target != nil); err != nil {
		logger.Error().Err(err).Str("user_id", user.ID).Msg("save user failed")
		sessionID := ""
		if target == nil {
			sessionID = user.ID
		}
		form.Restore(target, sessionID, user.Values())
		s.renderScreen(w, r, screen{
			status:    statusFor(err),
			form:      form,
			formError: alertMessage("save user", err),
			busy:      errors.Is(err, query.ErrMutationInFlight),
		})
		return
	}

	logger.Info().Str("user_id", user.ID).Bool("editing", target != nil).Msg("user saved")
	v := s.viewFrom(r)
	http.Redirect(w, r, v.listURL(v.page), http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.actions().Delete(r.Context(), id); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("user_id", id).Msg("delete user failed")
		s.renderScreen(w, r, screen{status: statusFor(err), alert: alertMessage("delete user", err)})
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("user_id", id).Msg("user deleted")
	v := s.viewFrom(r)
	http.Redirect(w, r, v.listURL(v.page), http.StatusSeeOther)
}

// handleValidate answers per-keystroke validation with the re-rendered field.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "field")
	field, ok := s.registry.Lookup(name)
	if !ok {
		http.Error(w, "unknown field", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	value := r.PostForm.Get(name)
	msg := validation.ValidateField(s.registry, name, value)

	html, err := s.renderer.RenderFieldFragment(field, value, msg)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = w.Write([]byte(html))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) submitted(form url.Values) model.FormValues {
	values := make(model.FormValues, s.registry.Len())
	for _, name := range s.registry.Names() {
		values[name] = form.Get(name)
	}
	return values
}

// actions are the row intents of the list. Edit is a navigation handled by
// the edit route; Delete runs the mutation.
func (s *Server) actions() userlist.Actions {
	return userlist.ActionFuncs{
		EditFunc: func(context.Context, model.User) error { return nil },
		DeleteFunc: func(ctx context.Context, id string) error {
			return s.users.Delete(ctx, id)
		},
	}
}

func (s *Server) renderScreen(w http.ResponseWriter, r *http.Request, sc screen) {
	v := s.viewFrom(r)
	logger := zerolog.Ctx(r.Context())

	data := vanilla.PageData{
		AddURL:        v.withQuery("/users/new"),
		Alert:         sc.alert,
		ThemeCSS:      s.theme.CSS,
		ThemeName:     s.theme.Variant,
		AssetsPrefix:  s.theme.AssetsPrefix,
		StylesheetURL: s.theme.StylesheetURL,
		ScriptURL:     s.theme.ScriptURL,
	}

	users, err := s.users.List(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("list users failed")
		if data.Alert == "" {
			data.Alert = alertMessage("load users", err)
		}
		if sc.status == http.StatusOK {
			sc.status = statusFor(err)
		}
	} else {
		page := userlist.Paginate(users, s.pageSizeFor(v), v.page)
		v.page = page.Number
		list, err := s.renderer.RenderList(page, s.listProps(v))
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		data.Count = page.Total
		data.ListHTML = list
	}

	if sc.form != nil && sc.form.IsOpen() {
		modal, err := s.renderer.RenderUserForm(sc.form, vanilla.FormProps{
			Action:    v.withQuery("/users"),
			CancelURL: v.listURL(v.page),
			Busy:      sc.busy,
			FormError: sc.formError,
		})
		if err != nil {
			s.internalError(w, r, err)
			return
		}
		data.ModalHTML = modal
	}

	html, err := s.renderer.RenderPage(data)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Accept-CH", viewportHeader)
	w.Header().Set("Vary", viewportHeader)
	w.WriteHeader(sc.status)
	_, _ = w.Write([]byte(html))
}

func (s *Server) listProps(v view) vanilla.ListProps {
	return vanilla.ListProps{
		Actions: s.actions(),
		EditURL: func(u model.User) string {
			return v.withQuery("/users/" + url.PathEscape(u.ID) + "/edit")
		},
		DeleteURL: func(u model.User) string {
			return v.withQuery("/users/" + url.PathEscape(u.ID) + "/delete")
		},
		PageURL: v.listURL,
		Busy: func(u model.User) bool {
			return s.users.Pending(query.DeleteKey(u.ID)) || s.users.Pending(query.UpdateKey(u.ID))
		},
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(action + " failed")
	s.renderScreen(w, r, screen{status: statusFor(err), alert: alertMessage(action, err)})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("render failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, query.ErrMutationInFlight):
		return http.StatusConflict
	case apiclient.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// alertMessage turns a query or API error into the banner text.
func alertMessage(action string, err error) string {
	if errors.Is(err, query.ErrMutationInFlight) {
		return "This change is already being saved. Please wait."
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return fmt.Sprintf("Could not %s: %s", action, msg)
	}
	return fmt.Sprintf("Could not %s: the users service is unavailable", action)
}
