// Package epub opens an EPUB container and exposes its manifest, spine,
// table of contents, and chapter bytes, forming the reflow pipeline's
// input contract.
package epub

// ManifestItem is one <manifest><item> entry from the OPF package document.
type ManifestItem struct {
	ID         string
	Href       string // zip-root-relative path
	MediaType  string
	Properties string // epub3 properties attribute, e.g. "nav", "cover-image"
}

// SpineItem is one reading-order entry, resolved against the manifest.
type SpineItem struct {
	ID        string
	Href      string
	MediaType string
	Linear    bool
}

// TOCItem is one table-of-contents entry (nav document or NCX), possibly
// nested, with its href resolved to a spine index range.
type TOCItem struct {
	Title         string
	Href          string
	SpineIndex    int // -1 if unresolved
	SpineEndIndex int // -1 if unresolved; otherwise spine[SpineIndex:SpineEndIndex]
	Children      []TOCItem
}

// Metadata is the subset of Dublin Core / OPF metadata the reader surfaces
// in its book list and status line.
type Metadata struct {
	Title       string
	Creators    []string
	Language    string
	Identifier  string
	Publisher   string
	Description string
}
