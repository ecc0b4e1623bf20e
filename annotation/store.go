package annotation

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store is the per-book annotation store, shared across readers and
// accessed under a single mutex.
type Store struct {
	mu      sync.Mutex
	dir     string
	log     *zap.Logger
	byBook  map[string][]Comment // docID -> comments, docID is the book's absolute path
}

// NewStore returns a Store persisting one JSON file per book under dir.
func NewStore(dir string, log *zap.Logger) *Store {
	return &Store{dir: dir, log: log, byBook: make(map[string][]Comment)}
}

type fileFormat struct {
	DocID    string    `json:"doc_id"`
	Comments []Comment `json:"comments"`
}

// fileName derives a stable file name for a book's absolute path, avoiding
// path-separator collisions by hashing.
func (s *Store) fileName(docID string) string {
	h := sha1.Sum([]byte(docID))
	return filepath.Join(s.dir, hex.EncodeToString(h[:])+".json")
}

// Load reads the book's comments from disk into memory, replacing whatever
// is currently cached for docID. A missing file is not an error: it means
// the book has no comments yet.
func (s *Store) Load(docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.fileName(docID))
	if os.IsNotExist(err) {
		s.byBook[docID] = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading annotation file for %q: %w", docID, err)
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return fmt.Errorf("decoding annotation file for %q: %w", docID, err)
	}
	s.byBook[docID] = ff.Comments
	return nil
}

// Comments returns a snapshot copy of the comments for docID.
func (s *Store) Comments(docID string) []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Comment(nil), s.byBook[docID]...)
}

// ForChapter returns a snapshot of comments whose ChapterHref matches href,
// for coordinate recovery during reflow.
func (s *Store) ForChapter(docID, href string) []Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Comment
	for _, c := range s.byBook[docID] {
		if c.ChapterHref == href {
			out = append(out, c)
		}
	}
	return out
}

// AddComment appends c and persists the book's file.
func (s *Store) AddComment(docID string, c Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byBook[docID] = append(s.byBook[docID], c)
	return s.saveLocked(docID)
}

// UpdateComment replaces the comment with matching ID, leaving Context
// untouched unless the caller has set it on updated.
func (s *Store) UpdateComment(docID string, updated Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byBook[docID]
	for i := range list {
		if list[i].ID == updated.ID {
			if updated.Context == "" {
				updated.Context = list[i].Context
			}
			list[i] = updated
			return s.saveLocked(docID)
		}
	}
	return fmt.Errorf("comment %q not found", updated.ID)
}

// UpdateCommentContext rewrites only the Context field of the comment with
// the given ID, used by the back-fill pass.
func (s *Store) UpdateCommentContext(docID, id, context string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byBook[docID]
	for i := range list {
		if list[i].ID == id {
			list[i].Context = context
			return s.saveLocked(docID)
		}
	}
	return fmt.Errorf("comment %q not found", id)
}

// DeleteCommentByID removes the comment with the given ID.
func (s *Store) DeleteCommentByID(docID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byBook[docID]
	for i := range list {
		if list[i].ID == id {
			s.byBook[docID] = append(list[:i], list[i+1:]...)
			return s.saveLocked(docID)
		}
	}
	return fmt.Errorf("comment %q not found", id)
}

// DeleteComment removes the first comment matching chapterHref and an
// equivalent target (see targetsEqual), for callers that do not track
// comment IDs directly (delete whatever annotation is under the cursor).
func (s *Store) DeleteComment(docID, chapterHref string, target Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.byBook[docID]
	for i := range list {
		if list[i].ChapterHref == chapterHref && targetsEqual(list[i].Target, target) {
			s.byBook[docID] = append(list[:i], list[i+1:]...)
			return s.saveLocked(docID)
		}
	}
	return fmt.Errorf("no matching comment for chapter %q", chapterHref)
}

func targetsEqual(a, b Target) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TargetParagraph:
		return a.ParagraphIndex == b.ParagraphIndex
	case TargetParagraphRange:
		return a.StartParagraphIndex == b.StartParagraphIndex && a.EndParagraphIndex == b.EndParagraphIndex
	case TargetCodeBlock:
		return a.CodeParagraphIndex == b.CodeParagraphIndex && a.LineRangeValue == b.LineRangeValue
	case TargetPdf:
		return a.PdfPage == b.PdfPage
	}
	return false
}

// saveLocked atomically rewrites the book's JSON file. Caller must hold mu.
func (s *Store) saveLocked(docID string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating annotation directory: %w", err)
	}

	ff := fileFormat{DocID: docID, Comments: s.byBook[docID]}
	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding annotations for %q: %w", docID, err)
	}

	final := s.fileName(docID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing annotation temp file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("finalizing annotation file: %w", err)
	}
	if s.log != nil {
		s.log.Debug("annotation store saved", zap.String("doc", docID), zap.Int("count", len(ff.Comments)))
	}
	return nil
}
