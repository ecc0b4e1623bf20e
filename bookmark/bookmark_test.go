package bookmark

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intp(i int) *int { return &i }

func TestSaveAndGet(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "bookmarks.json"), nil)

	b := Bookmark{ChapterHref: "ch01.xhtml", NodeIndex: intp(42)}
	require.NoError(t, s.Save("book.epub", b, true))

	got, ok := s.Get("book.epub")
	require.True(t, ok)
	require.True(t, got.Complete())
	require.Equal(t, 42, *got.NodeIndex)
}

func TestThrottleSkipsDiskWriteWithinWindow(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "bookmarks.json"), nil)
	s.Throttle = time.Hour

	require.NoError(t, s.Save("book.epub", Bookmark{ChapterHref: "ch01.xhtml", NodeIndex: intp(1)}, true))
	firstWrite := s.lastWrite

	require.NoError(t, s.Save("book.epub", Bookmark{ChapterHref: "ch02.xhtml", NodeIndex: intp(2)}, false))
	require.Equal(t, firstWrite, s.lastWrite, "second unforced save within throttle window must not touch disk")

	got, _ := s.Get("book.epub")
	require.Equal(t, "ch02.xhtml", got.ChapterHref, "in-memory state still updates even when disk write is skipped")
}

func TestForceBypassesThrottle(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "bookmarks.json"), nil)
	s.Throttle = time.Hour

	require.NoError(t, s.Save("book.epub", Bookmark{ChapterHref: "ch01.xhtml", NodeIndex: intp(1)}, true))
	firstWrite := s.lastWrite

	require.NoError(t, s.Save("book.epub", Bookmark{ChapterHref: "ch02.xhtml", NodeIndex: intp(2)}, true))
	require.True(t, s.lastWrite.After(firstWrite) || s.lastWrite.Equal(firstWrite))
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	s := NewStore(path, nil)
	require.NoError(t, s.Save("book.epub", Bookmark{PdfPage: intp(12), PdfZoom: func() *float64 { f := 1.5; return &f }()}, true))

	s2 := NewStore(path, nil)
	require.NoError(t, s2.Load())

	got, ok := s2.Get("book.epub")
	require.True(t, ok)
	require.True(t, got.Complete())
	require.Equal(t, 12, *got.PdfPage)
}

func TestLoadMissingFileIsNotError(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "bookmarks.json"), nil)
	require.NoError(t, s.Load())
}

func TestFlushForcesEvenWithinThrottle(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "bookmarks.json"), nil)
	s.Throttle = time.Hour

	require.NoError(t, s.Save("book.epub", Bookmark{ChapterHref: "ch01.xhtml", NodeIndex: intp(1)}, true))
	require.NoError(t, s.Save("book.epub", Bookmark{ChapterHref: "ch02.xhtml", NodeIndex: intp(2)}, false))
	require.NoError(t, s.Flush())

	s2 := NewStore(filepath.Join(dir, "bookmarks.json"), nil)
	require.NoError(t, s2.Load())
	got, _ := s2.Get("book.epub")
	require.Equal(t, "ch02.xhtml", got.ChapterHref)
}
