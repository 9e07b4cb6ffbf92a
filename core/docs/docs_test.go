package docs

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/schedlens/core/model"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func TestMimeType(t *testing.T) {
	cases := map[string]string{
		"a.png":   "image/png",
		"a.JPG":   "image/jpeg",
		"a.jpeg":  "image/jpeg",
		"a.gif":   "image/gif",
		"a.svg":   "image/svg+xml",
		"a.webp":  "image/png",
		"noext":   "image/png",
		"dir.x/a": "image/png",
	}
	for in, want := range cases {
		if got := MimeType(in); got != want {
			t.Errorf("%s: expected %s got %s", in, want, got)
		}
	}
}

func TestEmbedImagesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "cm_sjf.png")
	require.NoError(t, os.WriteFile(img, pngBytes, 0o600))

	md := "# Title\n\n![foo](foo)\n\ntext ![foo](foo) again"
	out, adv := EmbedImages(md, map[string]string{"foo": img})
	assert.Empty(t, adv)
	assert.NotContains(t, out, "![foo](foo)")
	want := `<img src="data:image/png;base64,` + base64.StdEncoding.EncodeToString(pngBytes) + `" style="max-width:100%;" alt="foo">`
	assert.Equal(t, 2, strings.Count(out, want))
}

func TestEmbedImagesMissingLeavesInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.png")
	md := "see ![foo](foo)"
	out, adv := EmbedImages(md, map[string]string{"foo": missing})
	assert.Equal(t, md, out)
	require.Len(t, adv, 1)
	assert.Equal(t, model.AssetMissing, adv[0].Kind)
	assert.Equal(t, missing, adv[0].Subject)
	assert.Contains(t, adv[0].Message, missing)
}

func TestEmbedImagesOnlyExactPlaceholder(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "x.gif")
	require.NoError(t, os.WriteFile(img, []byte("GIF89a"), 0o600))

	md := "![foo](other.png) ![bar](foo)"
	out, adv := EmbedImages(md, map[string]string{"foo": img})
	assert.Empty(t, adv)
	assert.Equal(t, md, out)
}

func TestRendererLoadNarrative(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "spectrum.png")
	require.NoError(t, os.WriteFile(img, pngBytes, 0o600))
	doc := filepath.Join(dir, "Metrics.md")
	require.NoError(t, os.WriteFile(doc, []byte("## Metrics\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n![spectrum](spectrum)\n"), 0o600))

	sec, adv := NewRenderer().Load(doc, map[string]string{"spectrum": img, "gone": filepath.Join(dir, "gone.png")})
	assert.Empty(t, sec.Err)
	html := string(sec.HTML)
	assert.Contains(t, html, "<h2>Metrics</h2>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, `<img src="data:image/png;base64,`)
	require.Len(t, adv, 1)
	assert.Equal(t, model.AssetMissing, adv[0].Kind)
}

func TestRendererLoadMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Metrics.md")
	sec, adv := NewRenderer().Load(path, nil)
	assert.Empty(t, sec.HTML)
	assert.Contains(t, sec.Err, "Metrics.md")
	require.Len(t, adv, 1)
	assert.Equal(t, model.DocumentationMissing, adv[0].Kind)
}

func TestRendererVerbatimHTML(t *testing.T) {
	out, err := NewRenderer().Render("<div class=\"note\">kept</div>\n")
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div class="note">kept</div>`)
}
