// Package validation implements the client-side rules of the user form.
package validation

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-usermgmt/pkg/model"
)

// Messages surfaced next to invalid fields.
const (
	MsgRequired = "This field is required"
	MsgEmail    = "Enter a valid email address"
	MsgPhone    = "Enter a valid Indian phone number"
)

const phoneDigits = 10

// emailPattern rejects Unicode separators and the BOM as well as ASCII
// whitespace; RE2's \s covers only the latter.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// Catalog resolves field descriptors by name. *fields.Registry satisfies it.
type Catalog interface {
	Lookup(name string) (model.Field, bool)
	Fields() []model.Field
}

// ValidateField returns the message for the first rule value breaks, or "".
// Undeclared fields are never required. Values are stringified and trimmed
// before any check.
func ValidateField(catalog Catalog, name string, value any) string {
	text := strings.TrimSpace(model.Stringify(value))

	if field, ok := catalog.Lookup(name); ok && field.Required && text == "" {
		return MsgRequired
	}
	if text == "" {
		return ""
	}

	switch name {
	case model.FieldEmail:
		if !IsEmail(text) {
			return MsgEmail
		}
	case model.FieldPhone:
		if !IsPhone(text) {
			return MsgPhone
		}
	}
	return ""
}

// ValidateAll runs ValidateField for every declared field. Only failing fields
// appear in the result.
func ValidateAll(catalog Catalog, values model.FormValues) model.Errors {
	errs := make(model.Errors)
	for _, field := range catalog.Fields() {
		if msg := ValidateField(catalog, field.Name, values[field.Name]); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}

// Valid reports whether errs carries no message.
func Valid(errs model.Errors) bool {
	return errs.Valid()
}

// IsEmail reports whether value looks like local@domain.tld with no
// whitespace and a single @.
func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsPhone reports whether value is an Indian mobile number: the first
// character is a digit between 6 and 9, only digits, spaces and hyphens
// follow, and exactly ten digits appear in total. Length is not capped at
// ten characters, so grouped input such as "98765 43210" or "98765-43210"
// passes where a strict ten-character pattern would reject it.
func IsPhone(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || value[0] < '6' || value[0] > '9' {
		return false
	}
	digits := 0
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits == phoneDigits
}
