package pdfreader

// TocEntry is one node of the PDF's outline tree (from the document's
// bookmarks/outline, when present), addressed by a 0-based page index.
type TocEntry struct {
	Title    string
	Page     int
	Children []TocEntry
}

// ActiveSection walks entries depth-first and returns the title of the
// deepest entry whose Page is <= page, the section the current page falls
// under.
func ActiveSection(entries []TocEntry, page int) (string, bool) {
	title, ok := "", false
	var walk func([]TocEntry)
	walk = func(es []TocEntry) {
		for _, e := range es {
			if e.Page <= page {
				title, ok = e.Title, true
			}
			walk(e.Children)
		}
	}
	walk(entries)
	return title, ok
}
