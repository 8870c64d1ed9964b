// Package assets serves the web frontend's script and stylesheet, embedded via
// go:embed. URLs carry a content hash so browsers can cache them forever.
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
)

//go:embed static
var staticFS embed.FS

// Entry files referenced by the page shell.
const (
	ScriptFile = "app.js"
	StyleFile  = "app.css"
)

// hashPattern detects a content hash in a query string or filename
// (e.g. "app.js?v=1a2b3c4d" or "app.1a2b3c4d.js").
var hashPattern = regexp.MustCompile(`[.=][a-f0-9]{8,}(\.|$)`)

// versions maps each embedded file to the first 12 hex chars of its sha256.
var versions = map[string]string{}

func init() {
	_ = mime.AddExtensionType(".map", "application/json")

	_ = fs.WalkDir(staticFS, "static", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(staticFS, p)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		versions[strings.TrimPrefix(p, "static/")] = hex.EncodeToString(sum[:])[:12]
		return nil
	})
}

// containsHash reports whether the requested path or query carries a content hash.
func containsHash(p string) bool {
	return hashPattern.MatchString(p)
}

// mimeFromExt returns the MIME type for a file extension.
func mimeFromExt(ext string) string {
	switch ext {
	case ".js", ".mjs":
		return "application/javascript"
	case ".css":
		return "text/css; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".map":
		return "application/json"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}

// URL returns the versioned /static/ URL for an embedded file, or "" if the
// file is not embedded.
func URL(name string) string {
	v, ok := versions[name]
	if !ok {
		return ""
	}
	return "/static/" + name + "?v=" + v
}

// Tags returns the stylesheet link and deferred script tag for the page head.
func Tags() template.HTML {
	var b strings.Builder
	if u := URL(StyleFile); u != "" {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(u)
		b.WriteString("\">\n")
	}
	if u := URL(ScriptFile); u != "" {
		b.WriteString(`<script defer src="`)
		b.WriteString(u)
		b.WriteString("\"></script>\n")
	}
	return template.HTML(b.String())
}

// FileServer returns an http.Handler serving the embedded files. Versioned
// requests get immutable cache headers; the rest get no-cache.
// The handler expects paths relative to the static root (strip /static/ first).
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("assets: failed to create sub filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := strings.ToLower(path.Ext(r.URL.Path))
		if ext != "" {
			w.Header().Set("Content-Type", mimeFromExt(ext))
		}

		if containsHash(r.URL.Path) || containsHash("?"+r.URL.RawQuery) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		fileServer.ServeHTTP(w, r)
	})
}
