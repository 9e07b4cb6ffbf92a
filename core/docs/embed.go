package docs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kilianp07/schedlens/core/model"
)

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

// MimeType returns the content type for an image path. Unknown extensions
// are served as PNG.
func MimeType(path string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return "image/png"
}

// Placeholder returns the markdown image syntax matched for id: the
// identifier is used both as alt text and as link target.
func Placeholder(id string) string {
	return fmt.Sprintf("![%s](%s)", id, id)
}

// EmbedImages replaces every Placeholder(id) in md with an <img> tag carrying
// the base64 content of images[id]. Entries are processed in sorted id order.
// An image that cannot be read leaves its placeholder untouched and yields an
// AssetMissing advisory.
func EmbedImages(md string, images map[string]string) (string, []model.Advisory) {
	ids := make([]string, 0, len(images))
	for id := range images {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var advisories []model.Advisory
	for _, id := range ids {
		path := images[id]
		data, err := os.ReadFile(path)
		if err != nil {
			msg := fmt.Sprintf("Image not found: %s", path)
			if !errors.Is(err, fs.ErrNotExist) {
				msg = fmt.Sprintf("Image %s could not be read: %v", path, err)
			}
			advisories = append(advisories, model.Advisory{Kind: model.AssetMissing, Subject: path, Message: msg})
			continue
		}
		tag := fmt.Sprintf(`<img src="data:%s;base64,%s" style="max-width:100%%;" alt="%s">`,
			MimeType(path), base64.StdEncoding.EncodeToString(data), id)
		md = strings.ReplaceAll(md, Placeholder(id), tag)
	}
	return md, advisories
}
