package vanilla

import (
	"strings"

	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/render"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
)

// Default button captions.
const (
	DefaultConfirmText = "Confirm"
	DefaultCancelText  = "Cancel"
	SaveText           = "Save"
)

// ModalProps configures the modal shell. A closed modal renders nothing.
type ModalProps struct {
	ID          string
	Open        bool
	Title       string
	Body        string // trusted HTML
	ConfirmText string
	CancelText  string
	Action      string
	CancelURL   string
	Hidden      []render.HiddenField
	Busy        bool
	FormError   string
}

// FormProps configures RenderUserForm.
type FormProps struct {
	Action    string
	CancelURL string
	Busy      bool
	FormError string
}

// ListProps configures RenderList. URL builders left nil omit the matching
// links.
type ListProps struct {
	Actions   userlist.Actions
	EditURL   func(model.User) string
	DeleteURL func(model.User) string
	PageURL   func(page int) string
	Busy      func(model.User) bool
}

// PageData is the full screen: header, list and modal.
type PageData struct {
	Title        string
	Heading      string
	Subheading   string
	Count        int
	AddURL       string
	ListHTML     string
	ModalHTML    string
	Alert        string
	ThemeCSS     string
	ThemeName    string
	AssetsPrefix string
	// StylesheetURL and ScriptURL default to the embedded assets under
	// AssetsPrefix.
	StylesheetURL string
	ScriptURL     string
}

type fieldView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	Help        string `json:"help,omitempty"`
	Error       string `json:"error,omitempty"`
	Invalid     bool   `json:"invalid"`
	ValidateURL string `json:"validate_url,omitempty"`
}

type modalView struct {
	ID          string               `json:"id"`
	Open        bool                 `json:"open"`
	Title       string               `json:"title"`
	Body        string               `json:"body"`
	ConfirmText string               `json:"confirm_text"`
	CancelText  string               `json:"cancel_text"`
	Action      string               `json:"action,omitempty"`
	CancelURL   string               `json:"cancel_url,omitempty"`
	Hidden      []render.HiddenField `json:"hidden,omitempty"`
	Busy        bool                 `json:"busy"`
	FormError   string               `json:"form_error,omitempty"`
}

type rowView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	EditURL   string `json:"edit_url,omitempty"`
	DeleteURL string `json:"delete_url,omitempty"`
	Busy      bool   `json:"busy"`
}

type pageLink struct {
	Number  int    `json:"number"`
	URL     string `json:"url"`
	Current bool   `json:"current"`
}

type listView struct {
	Loading        bool       `json:"loading"`
	Empty          bool       `json:"empty"`
	EmptyMessage   string     `json:"empty_message"`
	Rows           []rowView  `json:"rows"`
	CanEdit        bool       `json:"can_edit"`
	CanDelete      bool       `json:"can_delete"`
	ShowPagination bool       `json:"show_pagination"`
	Pages          []pageLink `json:"pages"`
	PrevURL        string     `json:"prev_url,omitempty"`
	NextURL        string     `json:"next_url,omitempty"`
}

type pageView struct {
	Title        string `json:"title"`
	Heading      string `json:"heading"`
	Subheading   string `json:"subheading"`
	Count        int    `json:"count"`
	AddURL       string `json:"add_url,omitempty"`
	ListHTML     string `json:"list_html"`
	ModalHTML    string `json:"modal_html"`
	Alert        string `json:"alert,omitempty"`
	ThemeCSS     string `json:"theme_css,omitempty"`
	ThemeName    string `json:"theme_name,omitempty"`
	AssetsPrefix string `json:"assets_prefix"`
	Stylesheet   string `json:"stylesheet"`
	Script       string `json:"script"`
}

func newModalView(props ModalProps) modalView {
	view := modalView{
		ID:          strings.TrimSpace(props.ID),
		Open:        props.Open,
		Title:       props.Title,
		Body:        props.Body,
		ConfirmText: props.ConfirmText,
		CancelText:  props.CancelText,
		Action:      props.Action,
		CancelURL:   props.CancelURL,
		Hidden:      props.Hidden,
		Busy:        props.Busy,
		FormError:   props.FormError,
	}
	if view.ID == "" {
		view.ID = "modal"
	}
	if view.ConfirmText == "" {
		view.ConfirmText = DefaultConfirmText
	}
	if view.CancelText == "" {
		view.CancelText = DefaultCancelText
	}
	return view
}

func newListView(page userlist.Page, props ListProps) listView {
	actions := userlist.Resolve(props.Actions)
	view := listView{
		Loading:        page.Loading,
		Empty:          page.Empty(),
		EmptyMessage:   userlist.EmptyMessage,
		CanEdit:        actions.CanEdit() && props.EditURL != nil,
		CanDelete:      actions.CanDelete() && props.DeleteURL != nil,
		ShowPagination: page.ShowPagination() && props.PageURL != nil,
	}
	for _, user := range page.Items {
		row := rowView{
			ID:    user.ID,
			Name:  user.FullName(),
			Email: user.Email,
			Phone: user.Phone,
		}
		if view.CanEdit {
			row.EditURL = props.EditURL(user)
		}
		if view.CanDelete {
			row.DeleteURL = props.DeleteURL(user)
		}
		if props.Busy != nil {
			row.Busy = props.Busy(user)
		}
		view.Rows = append(view.Rows, row)
	}
	if view.ShowPagination {
		for _, n := range page.Numbers() {
			view.Pages = append(view.Pages, pageLink{Number: n, URL: props.PageURL(n), Current: n == page.Number})
		}
		if page.HasPrev() {
			view.PrevURL = props.PageURL(page.Number - 1)
		}
		if page.HasNext() {
			view.NextURL = props.PageURL(page.Number + 1)
		}
	}
	return view
}
