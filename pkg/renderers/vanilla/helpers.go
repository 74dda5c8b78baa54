package vanilla

import (
	"net/url"
	"strings"
)

func sanitizeClassList(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func fieldDOMID(name string) string {
	return "field-" + strings.TrimSpace(name)
}

func joinPath(base, segment string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	return base + "/" + url.PathEscape(segment)
}
