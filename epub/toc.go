package epub

import (
	"bytes"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// buildTOC picks the nav document (epub3) or NCX (epub2) as the TOC source,
// parses it, and resolves each entry's href to a spine index range.
func buildTOC(archive *container, p *pkg) []TOCItem {
	spineMap := make(map[string]int, len(p.spine))
	for i, si := range p.spine {
		spineMap[hrefWithoutFragment(si.Href)] = i
	}

	var toc []TOCItem
	if strings.HasPrefix(p.version, "3") && p.navHref != "" {
		if data, ok := archive.read(p.navHref); ok {
			toc = parseNavDocument(data, p.navHref)
		}
	}
	if len(toc) == 0 && p.ncxHref != "" {
		if data, ok := archive.read(p.ncxHref); ok {
			toc = parseNCX(data, p.ncxHref)
		}
	}

	assignSpineIndices(toc, spineMap)
	computeSpineRanges(toc, len(p.spine))
	return toc
}

func parseNCX(data []byte, ncxPath string) []TOCItem {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}
	navMap := root.SelectElement("navMap")
	if navMap == nil {
		return nil
	}
	return convertNavPoints(navMap.ChildElements(), ncxPath)
}

func convertNavPoints(points []*etree.Element, ncxPath string) []TOCItem {
	var items []TOCItem
	for _, np := range points {
		if !strings.EqualFold(np.Tag, "navPoint") {
			continue
		}
		item := TOCItem{SpineIndex: -1, SpineEndIndex: -1}
		if label := np.SelectElement("navLabel"); label != nil {
			if textEl := label.SelectElement("text"); textEl != nil {
				item.Title = strings.TrimSpace(textEl.Text())
			}
		}
		if content := np.SelectElement("content"); content != nil {
			item.Href = resolveRelativePath(ncxPath, content.SelectAttrValue("src", ""))
		}
		item.Children = convertNavPoints(np.ChildElements(), ncxPath)
		items = append(items, item)
	}
	return items
}

// parseNavDocument parses an epub3 XHTML nav document's toc <nav>, per the
// structure the pack's simp-lee-epub reader parses the same document with.
func parseNavDocument(data []byte, basePath string) []TOCItem {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	var tocNav *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if tocNav != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "nav" && hasEpubType(n, "toc") {
			tocNav = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if tocNav == nil {
		return nil
	}
	ol := findFirstChildElement(tocNav, "ol")
	if ol == nil {
		return nil
	}
	return parseNavOL(ol, basePath)
}

func parseNavOL(ol *html.Node, basePath string) []TOCItem {
	var items []TOCItem
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			items = append(items, parseNavLI(c, basePath))
		}
	}
	return items
}

func parseNavLI(li *html.Node, basePath string) TOCItem {
	item := TOCItem{SpineIndex: -1, SpineEndIndex: -1}
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "a":
			if item.Href == "" {
				if href := htmlAttr(c, "href"); href != "" {
					item.Href = resolveRelativePath(basePath, href)
				}
				item.Title = strings.TrimSpace(htmlTextContent(c))
			}
		case "span":
			if item.Title == "" {
				item.Title = strings.TrimSpace(htmlTextContent(c))
			}
		case "ol":
			item.Children = parseNavOL(c, basePath)
		}
	}
	return item
}

func hasEpubType(n *html.Node, typeName string) bool {
	for _, t := range strings.Fields(htmlAttr(n, "epub:type")) {
		if t == typeName {
			return true
		}
	}
	return false
}

func htmlAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findFirstChildElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findFirstChildElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func htmlTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(htmlTextContent(c))
	}
	return sb.String()
}

func assignSpineIndices(items []TOCItem, spineMap map[string]int) {
	for i := range items {
		if items[i].Href != "" {
			if idx, ok := spineMap[hrefWithoutFragment(items[i].Href)]; ok {
				items[i].SpineIndex = idx
			}
		}
		assignSpineIndices(items[i].Children, spineMap)
	}
}

// computeSpineRanges sets SpineEndIndex so each entry covers
// spine[SpineIndex:SpineEndIndex], the last entry running to spineLen.
func computeSpineRanges(items []TOCItem, spineLen int) {
	var flat []*TOCItem
	flattenTOC(&flat, items)

	seen := make(map[int]bool, len(flat))
	var indices []int
	for _, item := range flat {
		if item.SpineIndex >= 0 && !seen[item.SpineIndex] {
			seen[item.SpineIndex] = true
			indices = append(indices, item.SpineIndex)
		}
	}
	if len(indices) == 0 {
		return
	}
	sort.Ints(indices)

	endFor := make(map[int]int, len(indices))
	for i, idx := range indices {
		if i+1 < len(indices) {
			endFor[idx] = indices[i+1]
		} else {
			endFor[idx] = spineLen
		}
	}
	for _, item := range flat {
		if item.SpineIndex >= 0 {
			item.SpineEndIndex = endFor[item.SpineIndex]
		} else {
			item.SpineEndIndex = -1
		}
	}
}

func flattenTOC(flat *[]*TOCItem, items []TOCItem) {
	for i := range items {
		*flat = append(*flat, &items[i])
		flattenTOC(flat, items[i].Children)
	}
}
