// Package bookmark implements the per-book reading-position store: a JSON
// file keyed by absolute book path, with throttled disk writes.
package bookmark

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Bookmark is a single book's saved reading position. A bookmark is
// "complete" when it can restore either an EPUB position (ChapterHref +
// NodeIndex) or a PDF position (PdfPage).
type Bookmark struct {
	ChapterHref    string    `json:"chapter_href,omitempty"`
	NodeIndex      *int      `json:"node_index,omitempty"`
	ChapterIndex   *int      `json:"chapter_index,omitempty"`
	TotalChapters  *int      `json:"total_chapters,omitempty"`
	PdfPage        *int      `json:"pdf_page,omitempty"`
	PdfZoom        *float64  `json:"pdf_zoom,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`

	// extra preserves unknown fields encountered on load so a newer version
	// of this program (or a sibling implementation) round-trips them.
	extra map[string]json.RawMessage
}

// Complete reports whether b can restore a position.
func (b Bookmark) Complete() bool {
	return (b.ChapterHref != "" && b.NodeIndex != nil) || b.PdfPage != nil
}

// Store is a throttled, path-keyed bookmark store persisted as a single
// JSON file. Reads are O(1) by path; writes within Throttle of the last
// disk write are skipped unless force=true.
type Store struct {
	mu        sync.Mutex
	path      string
	log       *zap.Logger
	Throttle  time.Duration
	marks     map[string]Bookmark
	lastWrite time.Time
	dirty     bool
}

// NewStore returns a Store backed by the JSON file at path, with a default
// 500ms throttle.
func NewStore(path string, log *zap.Logger) *Store {
	return &Store{
		path:     path,
		log:      log,
		Throttle: 500 * time.Millisecond,
		marks:    make(map[string]Bookmark),
	}
}

type wireBookmark struct {
	ChapterHref   string          `json:"chapter_href,omitempty"`
	NodeIndex     *int            `json:"node_index,omitempty"`
	ChapterIndex  *int            `json:"chapter_index,omitempty"`
	TotalChapters *int            `json:"total_chapters,omitempty"`
	PdfPage       *int            `json:"pdf_page,omitempty"`
	PdfZoom       *float64        `json:"pdf_zoom,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Extra         map[string]json.RawMessage `json:"-"`
}

// Load reads the bookmark file from disk. A missing file is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading bookmark file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding bookmark file: %w", err)
	}

	marks := make(map[string]Bookmark, len(raw))
	for path, entryRaw := range raw {
		var known wireBookmark
		if err := json.Unmarshal(entryRaw, &known); err != nil {
			return fmt.Errorf("decoding bookmark entry %q: %w", path, err)
		}
		var fields map[string]json.RawMessage
		_ = json.Unmarshal(entryRaw, &fields)
		for _, k := range []string{"chapter_href", "node_index", "chapter_index", "total_chapters", "pdf_page", "pdf_zoom", "updated_at"} {
			delete(fields, k)
		}
		marks[path] = Bookmark{
			ChapterHref:   known.ChapterHref,
			NodeIndex:     known.NodeIndex,
			ChapterIndex:  known.ChapterIndex,
			TotalChapters: known.TotalChapters,
			PdfPage:       known.PdfPage,
			PdfZoom:       known.PdfZoom,
			UpdatedAt:     known.UpdatedAt,
			extra:         fields,
		}
	}
	s.marks = marks
	return nil
}

// Get returns the bookmark for path, or the zero value and false.
func (s *Store) Get(path string) (Bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.marks[path]
	return b, ok
}

// Save records a bookmark for path. If force is false and a disk write
// happened less than Throttle ago, the in-memory value is updated but disk
// is not touched; the value will be flushed by the next forced save or by
// Flush.
func (s *Store) Save(path string, b Bookmark, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.UpdatedAt = time.Now()
	s.marks[path] = b
	s.dirty = true

	if !force && time.Since(s.lastWrite) < s.Throttle {
		return nil
	}
	return s.writeLocked()
}

// Flush forces a write if there is unsaved state, regardless of throttle.
// Intended for shutdown, explicit book switches, and jump-list traversal.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.writeLocked()
}

func (s *Store) writeLocked() error {
	out := make(map[string]map[string]json.RawMessage, len(s.marks))
	for path, b := range s.marks {
		fields := make(map[string]json.RawMessage, len(b.extra)+7)
		for k, v := range b.extra {
			fields[k] = v
		}
		set := func(k string, v any) {
			data, err := json.Marshal(v)
			if err == nil {
				fields[k] = data
			}
		}
		if b.ChapterHref != "" {
			set("chapter_href", b.ChapterHref)
		}
		if b.NodeIndex != nil {
			set("node_index", *b.NodeIndex)
		}
		if b.ChapterIndex != nil {
			set("chapter_index", *b.ChapterIndex)
		}
		if b.TotalChapters != nil {
			set("total_chapters", *b.TotalChapters)
		}
		if b.PdfPage != nil {
			set("pdf_page", *b.PdfPage)
		}
		if b.PdfZoom != nil {
			set("pdf_zoom", *b.PdfZoom)
		}
		set("updated_at", b.UpdatedAt)
		out[path] = fields
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bookmarks: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing bookmark temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("finalizing bookmark file: %w", err)
	}

	s.lastWrite = time.Now()
	s.dirty = false
	if s.log != nil {
		s.log.Debug("bookmarks saved", zap.Int("count", len(s.marks)))
	}
	return nil
}
