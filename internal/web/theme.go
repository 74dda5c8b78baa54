package web

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeName is the manifest registered for the page.
const ThemeName = "usermgmt"

// Theme variants.
const (
	VariantLight = "light"
	VariantDark  = "dark"
)

// Manifest describes the page palette as the CSS custom properties the
// stylesheet reads. The base tokens are the light variant, which declares no
// overrides.
func Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"um-color-primary":  "#1976d2",
			"um-color-danger":   "#d32f2f",
			"um-color-surface":  "#ffffff",
			"um-color-text":     "#1f2933",
			"um-color-muted":    "#61707d",
			"um-color-backdrop": "rgba(15, 23, 42, 0.5)",
			"um-radius":         "8px",
			"um-font":           "system-ui, -apple-system, \"Segoe UI\", Roboto, sans-serif",
		},
		Templates: map[string]string{
			"page":  "page.tmpl",
			"list":  "list.tmpl",
			"modal": "modal.tmpl",
			"field": "field.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "usermgmt.css",
				"script":     "usermgmt.js",
			},
		},
		Variants: map[string]theme.Variant{
			VariantLight: {Description: "Base palette"},
			VariantDark: {
				Description: "Dark surfaces",
				Tokens: map[string]string{
					"um-color-primary":  "#90caf9",
					"um-color-danger":   "#ef9a9a",
					"um-color-surface":  "#121826",
					"um-color-text":     "#e5e9f0",
					"um-color-muted":    "#9aa5b1",
					"um-color-backdrop": "rgba(0, 0, 0, 0.65)",
				},
			},
		},
	}
}

// Theme is a resolved palette ready to inline into the page.
type Theme struct {
	Name          string
	Variant       string
	CSS           string
	AssetsPrefix  string
	StylesheetURL string
	ScriptURL     string
}

// NewThemeSelector registers the page manifest and returns a selector that
// falls back to it and to the light variant.
func NewThemeSelector() (theme.Selector, error) {
	registry := theme.NewRegistry()
	if err := registry.Register(Manifest()); err != nil {
		return theme.Selector{}, fmt.Errorf("web: register theme: %w", err)
	}
	return theme.Selector{
		Registry:       registry,
		DefaultTheme:   ThemeName,
		DefaultVariant: VariantLight,
	}, nil
}

// LoadTheme resolves variant to CSS custom properties and asset URLs.
func LoadTheme(variant string) (Theme, error) {
	selector, err := NewThemeSelector()
	if err != nil {
		return Theme{}, err
	}
	return SelectTheme(selector, ThemeName, variant)
}

// SelectTheme resolves name and variant through selector. Variants the
// manifest does not declare are rejected.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (Theme, error) {
	selection, err := selector.Select(name, variant)
	if err != nil {
		return Theme{}, fmt.Errorf("web: select theme %q: %w", name, err)
	}
	if _, ok := selection.Manifest.Variants[selection.Variant]; !ok {
		return Theme{}, fmt.Errorf("web: theme %q has no variant %q", selection.Theme, selection.Variant)
	}

	stylesheet, _ := selection.Asset("stylesheet")
	script, _ := selection.Asset("script")
	return Theme{
		Name:          selection.Theme,
		Variant:       selection.Variant,
		CSS:           rootBlock(selection.CSSVariables("")),
		AssetsPrefix:  selection.Manifest.Assets.Prefix,
		StylesheetURL: stylesheet,
		ScriptURL:     script,
	}, nil
}

// rootBlock writes vars as a sorted :root rule.
func rootBlock(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	strip := strings.NewReplacer("<", "", ">", "", "{", "", "}", "")
	var b strings.Builder
	b.WriteString(":root{")
	for _, name := range names {
		fmt.Fprintf(&b, "%s:%s;", name, strip.Replace(vars[name]))
	}
	b.WriteString("}")
	return b.String()
}
