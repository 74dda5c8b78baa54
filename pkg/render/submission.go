// Package render holds helpers shared by the HTML renderers.
package render

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Hidden inputs carried by the user form so a stateless handler can rebuild
// the session on submit.
const (
	DraftIDName  = "draft_id"
	TargetIDName = "target_id"
)

// HiddenField is a hidden form input emitted alongside the visible fields.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// DraftID carries the id reserved for a record being created.
func DraftID(id string) HiddenField {
	return Hidden(DraftIDName, id)
}

// TargetID carries the id of the record being edited.
func TargetID(id string) HiddenField {
	return Hidden(TargetIDName, id)
}

// SessionFields returns the hidden inputs for a form session. Blank ids are
// omitted.
func SessionFields(targetID, draftID string) []HiddenField {
	var out []HiddenField
	if strings.TrimSpace(targetID) != "" {
		out = append(out, TargetID(targetID))
	}
	if strings.TrimSpace(draftID) != "" {
		out = append(out, DraftID(draftID))
	}
	return SortedHiddenFields(MergeHiddenFields(nil, out...))
}

// SessionFromForm reads the hidden session inputs back from a submission.
func SessionFromForm(form url.Values) (targetID, draftID string) {
	return strings.TrimSpace(form.Get(TargetIDName)), strings.TrimSpace(form.Get(DraftIDName))
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders hidden fields by name for deterministic markup.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: fields[name]})
	}
	return result
}
