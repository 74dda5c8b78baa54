// Package fields declares the form field descriptors and the read-only
// registry the form, validation and renderer packages look them up in.
package fields

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

// Override replaces presentation attributes of a declared field. Blank values
// leave the declared attribute untouched.
type Override struct {
	Label       string `yaml:"label" json:"label,omitempty"`
	Placeholder string `yaml:"placeholder" json:"placeholder,omitempty"`
	Help        string `yaml:"help" json:"help,omitempty"`
}

// Registry is an ordered, name-indexed collection of field descriptors. It is
// immutable once built and safe for concurrent use.
type Registry struct {
	fields []model.Field
	index  map[string]int
}

// UserFormFields returns the descriptors of the user form in display order.
func UserFormFields() []model.Field {
	return []model.Field{
		{Name: model.FieldFirstName, Label: "First Name", Type: model.FieldTypeText, Required: true},
		{Name: model.FieldLastName, Label: "Last Name", Type: model.FieldTypeText, Required: true},
		{Name: model.FieldPhone, Label: "Phone", Type: model.FieldTypeTel, Required: true},
		{Name: model.FieldEmail, Label: "Email", Type: model.FieldTypeEmail, Required: true},
	}
}

// UserForm returns the registry backing the user form.
func UserForm() *Registry {
	return MustNew(UserFormFields()...)
}

// New builds a registry. Names must be non-empty and unique; blank labels are
// derived from the name.
func New(descriptors ...model.Field) (*Registry, error) {
	reg := &Registry{
		fields: make([]model.Field, 0, len(descriptors)),
		index:  make(map[string]int, len(descriptors)),
	}
	for _, field := range descriptors {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, fmt.Errorf("fields: field name is required")
		}
		if _, exists := reg.index[name]; exists {
			return nil, fmt.Errorf("fields: field %q declared twice", name)
		}
		field.Name = name
		if strings.TrimSpace(field.Label) == "" {
			field.Label = model.DefaultLabeler(name)
		}
		if field.Type == "" {
			field.Type = model.FieldTypeText
		}
		reg.index[name] = len(reg.fields)
		reg.fields = append(reg.fields, field)
	}
	return reg, nil
}

// MustNew panics when the descriptors are invalid. Useful for init-time wiring.
func MustNew(descriptors ...model.Field) *Registry {
	reg, err := New(descriptors...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Fields returns a copy of the descriptors in declaration order.
func (r *Registry) Fields() []model.Field {
	if r == nil {
		return nil
	}
	out := make([]model.Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Lookup returns the descriptor named name.
func (r *Registry) Lookup(name string) (model.Field, bool) {
	if r == nil {
		return model.Field{}, false
	}
	idx, ok := r.index[name]
	if !ok {
		return model.Field{}, false
	}
	return r.fields[idx], true
}

// Names returns the field names in declaration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return lo.Map(r.fields, func(field model.Field, _ int) string {
		return field.Name
	})
}

// Len reports the number of declared fields.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Defaults returns the initial form values: an empty string per field.
func (r *Registry) Defaults() model.FormValues {
	values := make(model.FormValues, r.Len())
	for _, name := range r.Names() {
		values[name] = ""
	}
	return values
}

// WithOverrides returns a new registry with presentation overrides applied.
// Overrides naming undeclared fields are rejected. Help markup is sanitised.
func (r *Registry) WithOverrides(overrides map[string]Override) (*Registry, error) {
	unknown := lo.Filter(lo.Keys(overrides), func(name string, _ int) bool {
		_, ok := r.Lookup(name)
		return !ok
	})
	if len(unknown) > 0 {
		return nil, fmt.Errorf("fields: override for undeclared field(s) %s", strings.Join(sortedCopy(unknown), ", "))
	}

	descriptors := r.Fields()
	for i, field := range descriptors {
		override, ok := overrides[field.Name]
		if !ok {
			continue
		}
		if label := strings.TrimSpace(override.Label); label != "" {
			field.Label = label
		}
		if placeholder := strings.TrimSpace(override.Placeholder); placeholder != "" {
			field.Placeholder = placeholder
		}
		if help := SanitizeHelp(override.Help); help != "" {
			field.Help = help
		}
		descriptors[i] = field
	}
	return New(descriptors...)
}
