package epub

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// containerPath is the well-known location of container.xml in an EPUB.
const containerPath = "META-INF/container.xml"

// locateOPF parses META-INF/container.xml (falling back to scanning for a
// bare ".opf" entry, for the malformed EPUBs real readers have to tolerate)
// and returns the zip-root-relative path of the OPF package document.
func locateOPF(archive *container) (string, error) {
	if data, ok := archive.read(containerPath); ok {
		path, err := parseContainerXML(data)
		if err == nil {
			return path, nil
		}
	}
	return fallbackFindOPF(archive)
}

func parseContainerXML(data []byte) (string, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("epub: parse container.xml: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "container" {
		return "", fmt.Errorf("epub: container.xml missing <container> root")
	}
	rootfiles := root.SelectElement("rootfiles")
	if rootfiles == nil {
		return "", fmt.Errorf("epub: container.xml has no <rootfiles>")
	}

	var fallbackPath string
	for _, rf := range rootfiles.ChildElements() {
		if rf.Tag != "rootfile" {
			continue
		}
		path := strings.TrimSpace(rf.SelectAttrValue("full-path", ""))
		if path == "" {
			continue
		}
		if strings.EqualFold(rf.SelectAttrValue("media-type", ""), "application/oebps-package+xml") {
			return path, nil
		}
		if fallbackPath == "" {
			fallbackPath = path
		}
	}
	if fallbackPath == "" {
		return "", fmt.Errorf("epub: container.xml has no rootfile with a full-path")
	}
	return fallbackPath, nil
}

func fallbackFindOPF(archive *container) (string, error) {
	for _, name := range archive.names() {
		if strings.HasSuffix(strings.ToLower(name), ".opf") {
			return name, nil
		}
	}
	return "", fmt.Errorf("epub: no OPF file found in archive")
}
