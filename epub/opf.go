package epub

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// pkg is the parsed OPF package document.
type pkg struct {
	version      string
	manifestByID map[string]ManifestItem
	spine        []SpineItem
	metadata     Metadata
	navHref      string // epub3 nav document href, if any
	ncxHref      string // spine/@toc-resolved NCX href, if any
}

func parseOPF(data []byte, opfPath string) (*pkg, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("epub: parse OPF: %w", err)
	}

	root := doc.Root()
	if root == nil || !strings.EqualFold(root.Tag, "package") {
		return nil, fmt.Errorf("epub: OPF missing <package> root")
	}

	p := &pkg{
		version:      root.SelectAttrValue("version", "2.0"),
		manifestByID: make(map[string]ManifestItem),
	}

	manifestEl := root.SelectElement("manifest")
	if manifestEl != nil {
		for _, item := range manifestEl.ChildElements() {
			if !strings.EqualFold(item.Tag, "item") {
				continue
			}
			id := item.SelectAttrValue("id", "")
			href := resolveRelativePath(opfPath, item.SelectAttrValue("href", ""))
			mi := ManifestItem{
				ID:         id,
				Href:       href,
				MediaType:  item.SelectAttrValue("media-type", ""),
				Properties: item.SelectAttrValue("properties", ""),
			}
			p.manifestByID[id] = mi
			for _, prop := range strings.Fields(mi.Properties) {
				if prop == "nav" {
					p.navHref = href
				}
			}
		}
	}

	if spineEl := root.SelectElement("spine"); spineEl != nil {
		tocID := spineEl.SelectAttrValue("toc", "")
		if tocID != "" {
			if item, ok := p.manifestByID[tocID]; ok {
				p.ncxHref = item.Href
			}
		}
		for _, ref := range spineEl.ChildElements() {
			if !strings.EqualFold(ref.Tag, "itemref") {
				continue
			}
			idref := ref.SelectAttrValue("idref", "")
			si := SpineItem{ID: idref, Linear: ref.SelectAttrValue("linear", "") != "no"}
			if item, ok := p.manifestByID[idref]; ok {
				si.Href = item.Href
				si.MediaType = item.MediaType
			}
			p.spine = append(p.spine, si)
		}
	}

	if metaEl := root.SelectElement("metadata"); metaEl != nil {
		p.metadata = parseMetadata(metaEl)
	}

	return p, nil
}

func parseMetadata(metaEl *etree.Element) Metadata {
	var m Metadata
	for _, child := range metaEl.ChildElements() {
		tag := localName(child.Tag)
		text := strings.TrimSpace(child.Text())
		switch tag {
		case "title":
			if m.Title == "" {
				m.Title = text
			}
		case "creator":
			m.Creators = append(m.Creators, text)
		case "language":
			if m.Language == "" {
				m.Language = text
			}
		case "identifier":
			if m.Identifier == "" {
				m.Identifier = text
			}
		case "publisher":
			if m.Publisher == "" {
				m.Publisher = text
			}
		case "description":
			if m.Description == "" {
				m.Description = text
			}
		}
	}
	return m
}

// localName strips a namespace prefix ("dc:title" -> "title"); etree keeps
// the raw tag including any colon-prefixed namespace alias.
func localName(tag string) string {
	if idx := strings.IndexByte(tag, ':'); idx >= 0 {
		return tag[idx+1:]
	}
	return tag
}
