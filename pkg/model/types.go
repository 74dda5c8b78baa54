package model

import (
	"fmt"
	"sort"
	"strings"
)

// FieldType is the input kind a renderer should emit for a field.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeEmail  FieldType = "email"
	FieldTypeTel    FieldType = "tel"
	FieldTypeNumber FieldType = "number"
)

// Field describes one form input. Descriptors are declared once per form and
// never mutated at runtime; registries hand out copies.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required,omitempty" yaml:"required"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder"`
	// Help holds sanitised HTML rendered below the control.
	Help string `json:"help,omitempty" yaml:"help"`
}

// InputType reports the HTML input type for the field, defaulting to text.
func (f Field) InputType() string {
	if f.Type == "" {
		return string(FieldTypeText)
	}
	return string(f.Type)
}

// FormValues maps a field name to its current input value (string or number).
type FormValues map[string]any

// String returns the value stored under name as a string. Missing and nil
// values yield "".
func (v FormValues) String(name string) string {
	return Stringify(v[name])
}

// Clone returns a shallow copy; values are scalars so this is sufficient.
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Stringify converts a form value into its textual representation.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

// Errors maps a field name to a human readable message. A missing entry (or an
// empty message) means the field is valid.
type Errors map[string]string

// Get returns the message for name, or "".
func (e Errors) Get(name string) string {
	return e[name]
}

// Has reports whether name carries a non-empty message.
func (e Errors) Has(name string) bool {
	return strings.TrimSpace(e[name]) != ""
}

// Valid reports whether no field carries a message.
func (e Errors) Valid() bool {
	for _, msg := range e {
		if strings.TrimSpace(msg) != "" {
			return false
		}
	}
	return true
}

// Fields returns the names carrying a message, sorted.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name, msg := range e {
		if strings.TrimSpace(msg) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone copies the map, dropping empty messages.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for name, msg := range e {
		if strings.TrimSpace(msg) == "" {
			continue
		}
		out[name] = msg
	}
	return out
}
