package epub

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hidez8891/zip"
)

// container wraps an open EPUB zip archive, caching decompressed entries as
// they are read (chapters are typically re-read on re-navigation within a
// session).
type container struct {
	reader *zip.ReadCloser
	byPath map[string]*zip.File
	cache  map[string][]byte
}

func openContainer(archivePath string) (*container, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("epub: open %s: %w", archivePath, err)
	}

	byPath := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		byPath[normalizeZipPath(f.Name)] = f
	}

	return &container{reader: r, byPath: byPath, cache: make(map[string][]byte)}, nil
}

func (c *container) Close() error {
	return c.reader.Close()
}

func (c *container) names() []string {
	names := make([]string, 0, len(c.byPath))
	for name := range c.byPath {
		names = append(names, name)
	}
	return names
}

// read returns the decompressed bytes of path (case-insensitive, leading
// slashes trimmed), caching the result.
func (c *container) read(p string) ([]byte, bool) {
	key := normalizeZipPath(p)
	if data, ok := c.cache[key]; ok {
		return data, true
	}

	f, ok := c.byPath[key]
	if !ok {
		f, ok = c.findInsensitive(key)
		if !ok {
			return nil, false
		}
	}

	rc, err := f.Open()
	if err != nil {
		return nil, false
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, false
	}

	data := buf.Bytes()
	c.cache[key] = data
	return data, true
}

func (c *container) findInsensitive(key string) (*zip.File, bool) {
	for name, f := range c.byPath {
		if strings.EqualFold(name, key) {
			return f, true
		}
	}
	return nil, false
}

func normalizeZipPath(p string) string {
	return strings.TrimPrefix(path.Clean(strings.ReplaceAll(p, "\\", "/")), "/")
}

// resolveRelativePath resolves href relative to the directory containing
// basePath (both zip-root-relative), collapsing "." and "..".
func resolveRelativePath(basePath, href string) string {
	if href == "" {
		return ""
	}
	if strings.Contains(href, "://") {
		return "" // external URL, not a zip-internal path
	}
	dir := path.Dir(basePath)
	joined := path.Join(dir, href)
	return normalizeZipPath(joined)
}

// hrefWithoutFragment strips a trailing "#..." fragment from href.
func hrefWithoutFragment(href string) string {
	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		return href[:idx]
	}
	return href
}
