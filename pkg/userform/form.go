// Package userform implements the add/edit user form session: values, inline
// errors, the editing target and the save intent.
package userform

import (
	"github.com/goliatone/go-usermgmt/pkg/fields"
	"github.com/goliatone/go-usermgmt/pkg/formstate"
	"github.com/goliatone/go-usermgmt/pkg/model"
	"github.com/goliatone/go-usermgmt/pkg/validation"
)

// Modal titles.
const (
	TitleAdd  = "Add User"
	TitleEdit = "Edit User"
)

// Form is one modal form session. It is not safe for concurrent use; web
// handlers build one per request.
type Form struct {
	registry *fields.Registry
	state    *formstate.State
	errors   model.Errors
	open     bool
	target   *model.User
	draftID  string

	onSave func(model.User)
	newID  func() string
}

// New builds a closed form over registry. A nil registry falls back to the
// user form fields.
func New(registry *fields.Registry, opts ...Option) *Form {
	if registry == nil {
		registry = fields.UserForm()
	}
	f := &Form{
		registry: registry,
		state:    formstate.New(registry.Defaults()),
		errors:   model.Errors{},
		newID:    model.NewUserID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Open starts a session. A non-nil target seeds the editable values from it and
// switches the form to edit mode; otherwise the defaults are used and a draft
// id is reserved for the record about to be created.
func (f *Form) Open(target *model.User) {
	f.errors = model.Errors{}
	f.open = true
	if target != nil {
		copied := *target
		f.target = &copied
		f.draftID = ""
		f.state.SetValues(f.seed(copied.Values()))
		return
	}
	f.target = nil
	f.draftID = f.newID()
	f.state.Reset()
}

// Restore rebuilds a session from submitted input, as a stateless handler
// does on every POST. Errors are recomputed for the fields present in values.
func (f *Form) Restore(target *model.User, draftID string, values model.FormValues) {
	f.Open(target)
	if target == nil && draftID != "" {
		f.draftID = draftID
	}
	f.state.SetValues(f.seed(values))
}

// Close discards the session: values return to defaults, errors clear and the
// target is dropped.
func (f *Form) Close() {
	f.open = false
	f.target = nil
	f.draftID = ""
	f.errors = model.Errors{}
	f.state.Reset()
}

// Change merges one field value and recomputes that field's error, which it
// returns.
func (f *Form) Change(name string, value any) string {
	f.state.HandleChange(name, value)
	msg := validation.ValidateField(f.registry, name, value)
	if msg == "" {
		delete(f.errors, name)
	} else {
		f.errors[name] = msg
	}
	return msg
}

// Validate runs every rule, stores the result and reports validity.
func (f *Form) Validate() bool {
	f.errors = validation.ValidateAll(f.registry, f.state.Values())
	return f.errors.Valid()
}

// Save emits the record when every field is valid. On failure the errors are
// stored, the form stays open and false is returned. On success the OnSave
// callback runs and the form closes.
func (f *Form) Save() (model.User, bool) {
	if !f.Validate() {
		return model.User{}, false
	}
	if f.draftID == "" && f.target == nil {
		f.draftID = f.newID()
	}
	user := model.UserFromValues(f.ID(), f.state.Values())
	if f.onSave != nil {
		f.onSave(user)
	}
	f.Close()
	return user, true
}

// ID returns the identifier a save would emit: the target's id when editing,
// the reserved draft id otherwise.
func (f *Form) ID() string {
	if f.target != nil && f.target.ID != "" {
		return f.target.ID
	}
	return f.draftID
}

// Title is "Edit User" when editing a record with an id, "Add User" otherwise.
func (f *Form) Title() string {
	if f.IsEditing() {
		return TitleEdit
	}
	return TitleAdd
}

func (f *Form) IsOpen() bool { return f.open }

// IsEditing reports whether the session edits an existing record.
func (f *Form) IsEditing() bool {
	return f.target != nil && f.target.ID != ""
}

// Target returns a copy of the editing target, or nil.
func (f *Form) Target() *model.User {
	if f.target == nil {
		return nil
	}
	copied := *f.target
	return &copied
}

// DraftID is the id reserved for a new record; empty when editing.
func (f *Form) DraftID() string { return f.draftID }

func (f *Form) Values() model.FormValues { return f.state.Values() }

func (f *Form) Value(name string) string { return f.state.String(name) }

func (f *Form) Errors() model.Errors { return f.errors.Clone() }

func (f *Form) Error(name string) string { return f.errors.Get(name) }

func (f *Form) Fields() []model.Field { return f.registry.Fields() }

func (f *Form) Registry() *fields.Registry { return f.registry }

// seed keeps only declared fields, filling the missing ones with "".
func (f *Form) seed(values model.FormValues) model.FormValues {
	out := f.registry.Defaults()
	for name := range out {
		if value, ok := values[name]; ok && value != nil {
			out[name] = value
		}
	}
	return out
}
