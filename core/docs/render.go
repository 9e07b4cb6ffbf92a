package docs

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/kilianp07/schedlens/core/model"
)

// Section is a rendered documentation document. When the source could not be
// read, HTML is empty and Err holds the message shown in its place.
type Section struct {
	Path string        `json:"path"`
	HTML template.HTML `json:"html,omitempty"`
	Err  string        `json:"error,omitempty"`
}

// Renderer turns markdown documents into HTML. Raw HTML in the source is
// kept so embedded images survive rendering.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer with GitHub flavoured markdown enabled.
func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

// Render converts markdown to HTML.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- local documentation is trusted
}

// Load reads the document at path, inlines images when a mapping is given and
// renders it. Failures are reported through the returned section and
// advisories, never as an error.
func (r *Renderer) Load(path string, images map[string]string) (Section, []model.Advisory) {
	sec := Section{Path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		sec.Err = fmt.Sprintf("Documentation file '%s' could not be read: %v", filepath.Base(path), err)
		if errors.Is(err, fs.ErrNotExist) {
			sec.Err = fmt.Sprintf("Documentation file '%s' not found. Please ensure it exists in the project directory.", filepath.Base(path))
		}
		return sec, []model.Advisory{{Kind: model.DocumentationMissing, Subject: path, Message: sec.Err}}
	}
	md := string(raw)
	var advisories []model.Advisory
	if len(images) > 0 {
		md, advisories = EmbedImages(md, images)
	}
	out, err := r.Render(md)
	if err != nil {
		sec.Err = err.Error()
		advisories = append(advisories, model.Advisory{Kind: model.DocumentationMissing, Subject: path, Message: sec.Err})
		return sec, advisories
	}
	sec.HTML = out
	return sec, advisories
}
