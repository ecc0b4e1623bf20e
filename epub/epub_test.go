package epub

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hidez8891/zip"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const containerXML = `<?xml version="1.0"?>
<container xmlns="urn:oasis:names:tc:opendocument:xmlns:container" version="1.0">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const opfXML = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:creator>Jane Author</dc:creator>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="chapter2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

const navXML = `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
  <nav epub:type="toc">
    <ol>
      <li><a href="chapter1.xhtml">Chapter One</a></li>
      <li><a href="chapter2.xhtml">Chapter Two</a></li>
    </ol>
  </nav>
</body>
</html>`

func buildTestEPUB(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	epubPath := filepath.Join(tmpDir, "test.epub")

	f, err := os.Create(epubPath)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	files := map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      opfXML,
		"OEBPS/nav.xhtml":        navXML,
		"OEBPS/chapter1.xhtml":   "<html><body><p>Chapter one text.</p></body></html>",
		"OEBPS/chapter2.xhtml":   "<html><body><p>Chapter two text.</p></body></html>",
	}
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return epubPath
}

func TestOpenParsesSpineAndMetadata(t *testing.T) {
	path := buildTestEPUB(t)
	book, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer book.Close()

	require.Equal(t, "Test Book", book.Metadata().Title)
	require.Equal(t, []string{"Jane Author"}, book.Metadata().Creators)
	require.Equal(t, "en", book.Metadata().Language)

	spine := book.Spine()
	require.Len(t, spine, 2)
	require.Equal(t, "OEBPS/chapter1.xhtml", spine[0].Href)
	require.Equal(t, "OEBPS/chapter2.xhtml", spine[1].Href)
}

func TestOpenParsesNavTOCWithSpineRanges(t *testing.T) {
	path := buildTestEPUB(t)
	book, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer book.Close()

	toc := book.TOC()
	require.Len(t, toc, 2)
	require.Equal(t, "Chapter One", toc[0].Title)
	require.Equal(t, 0, toc[0].SpineIndex)
	require.Equal(t, 1, toc[0].SpineEndIndex)
	require.Equal(t, 1, toc[1].SpineIndex)
	require.Equal(t, 2, toc[1].SpineEndIndex)
}

func TestChapterReturnsRawBytes(t *testing.T) {
	path := buildTestEPUB(t)
	book, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer book.Close()

	data, err := book.Chapter("OEBPS/chapter1.xhtml")
	require.NoError(t, err)
	require.True(t, bytes.Contains(data, []byte("Chapter one text.")))
}

func TestChapterMissingReturnsError(t *testing.T) {
	path := buildTestEPUB(t)
	book, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	defer book.Close()

	_, err = book.Chapter("OEBPS/nonexistent.xhtml")
	require.Error(t, err)
}

func TestOpenMissingContainerFallsBackToOPFScan(t *testing.T) {
	tmpDir := t.TempDir()
	epubPath := filepath.Join(tmpDir, "broken.epub")

	f, err := os.Create(epubPath)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	fw, err := w.Create("book.opf")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`<package version="2.0"><metadata></metadata><manifest></manifest><spine></spine></package>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	book, err := Open(epubPath, zap.NewNop())
	require.NoError(t, err)
	defer book.Close()
}
