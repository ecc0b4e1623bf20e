package epub

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// Book is an opened EPUB container: its manifest, spine, table of contents,
// and metadata, with lazy access to chapter and image bytes.
type Book struct {
	archive *container
	pkg     *pkg
	toc     []TOCItem
	log     *zap.Logger
}

// Open parses path as an EPUB: locates and parses the OPF package document,
// builds the spine and manifest, and parses the table of contents.
func Open(path string, log *zap.Logger) (*Book, error) {
	archive, err := openContainer(path)
	if err != nil {
		return nil, err
	}

	opfPath, err := locateOPF(archive)
	if err != nil {
		archive.Close()
		return nil, err
	}

	data, ok := archive.read(opfPath)
	if !ok {
		archive.Close()
		return nil, fmt.Errorf("epub: OPF file %q not found in archive", opfPath)
	}

	p, err := parseOPF(data, opfPath)
	if err != nil {
		archive.Close()
		return nil, err
	}
	if len(p.spine) == 0 {
		log.Warn("EPUB spine is empty; falling back to natural-sorted manifest order")
		p.spine = fallbackSpineFromManifest(p)
	}

	b := &Book{archive: archive, pkg: p, log: log}
	b.toc = buildTOC(archive, p)
	return b, nil
}

// fallbackSpineFromManifest builds a spine from every HTML/XHTML manifest
// entry in natural (human) sort order, for the malformed EPUBs that omit or
// corrupt their <spine>.
func fallbackSpineFromManifest(p *pkg) []SpineItem {
	var hrefs []string
	byHref := make(map[string]ManifestItem, len(p.manifestByID))
	for _, item := range p.manifestByID {
		if isDocumentMediaType(item.MediaType) {
			hrefs = append(hrefs, item.Href)
			byHref[item.Href] = item
		}
	}
	sort.Slice(hrefs, func(i, j int) bool { return natural.Less(hrefs[i], hrefs[j]) })

	spine := make([]SpineItem, 0, len(hrefs))
	for _, href := range hrefs {
		item := byHref[href]
		spine = append(spine, SpineItem{ID: item.ID, Href: item.Href, MediaType: item.MediaType, Linear: true})
	}
	return spine
}

func isDocumentMediaType(mediaType string) bool {
	return strings.Contains(mediaType, "html") || strings.Contains(mediaType, "xml")
}

// Close releases the underlying zip handle.
func (b *Book) Close() error {
	return b.archive.Close()
}

// Spine returns the reading-order chapter list.
func (b *Book) Spine() []SpineItem { return b.pkg.spine }

// TOC returns the parsed table of contents tree.
func (b *Book) TOC() []TOCItem { return b.toc }

// Metadata returns the book's Dublin Core metadata.
func (b *Book) Metadata() Metadata { return b.pkg.metadata }

// Chapter returns the raw (X)HTML bytes for a spine href.
func (b *Book) Chapter(href string) ([]byte, error) {
	data, ok := b.archive.read(href)
	if !ok {
		return nil, fmt.Errorf("epub: chapter %q not found in archive", href)
	}
	return data, nil
}

// Resource returns raw bytes for any zip-internal path (images, CSS, fonts).
func (b *Book) Resource(href string) ([]byte, error) {
	data, ok := b.archive.read(href)
	if !ok {
		return nil, fmt.Errorf("epub: resource %q not found in archive", href)
	}
	return data, nil
}

// CoverHref returns the manifest href of the cover image, if declared via
// an epub3 "cover-image" manifest property. An epub2 <meta name="cover">
// is not consulted.
func (b *Book) CoverHref() (string, bool) {
	for _, item := range b.pkg.manifestByID {
		for _, prop := range strings.Fields(item.Properties) {
			if prop == "cover-image" {
				return item.Href, true
			}
		}
	}
	return "", false
}
