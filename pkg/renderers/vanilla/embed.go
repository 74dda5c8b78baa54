package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName = "usermgmt.css"
	ScriptName     = "usermgmt.js"
)

// TemplatesFS exposes the embedded templates rooted at the templates folder.
func TemplatesFS() fs.FS {
	return subFS(embeddedTemplates, "templates")
}

// AssetsFS exposes the stylesheet and script so callers can serve them.
func AssetsFS() fs.FS {
	return subFS(embeddedAssets, "assets")
}

func subFS(files embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		return files
	}
	return sub
}
