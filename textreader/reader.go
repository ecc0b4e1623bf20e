package textreader

import (
	"time"

	"github.com/bugzmanov/bookokrat/config"
	"github.com/bugzmanov/bookokrat/hud"
	"github.com/bugzmanov/bookokrat/jumplist"
)

const (
	hudNormalDuration = 2 * time.Second
	hudErrorDuration  = 5 * time.Second
)

// Reader is the per-book state machine for the EPUB reading view: the
// current chapter's normal-mode cursor, scroll offset, yank/visual state,
// comment input popup, in-chapter search and the jump list. It holds no
// rendered content itself; callers set Source to the current chapter's
// LineSource whenever a reflow or chapter change produces new rows.
type Reader struct {
	cfg config.ReaderConfig

	Path        string
	ChapterHref string
	Source      LineSource

	ScrollOffset  int
	VisibleHeight int

	NormalMode NormalModeState

	CommentInput CommentInputState
	CommentNav   CommentNavState
	Search       ChapterSearchState

	JumpList *jumplist.List
	HUD      hud.Box
}

// New returns a Reader configured from cfg, with an empty jump list bounded
// to jumpListCapacity (config.ReaderConfig.JumpListCapacity).
func New(cfg config.ReaderConfig, jumpListCapacity int) *Reader {
	return &Reader{
		cfg:      cfg,
		JumpList: jumplist.NewList(jumpListCapacity),
	}
}

// SetChapter installs a new chapter's content. ScrollOffset resets to 0 and
// normal mode is deactivated; callers restore a bookmark position
// afterwards via NavigateToNode if one exists.
func (r *Reader) SetChapter(href string, source LineSource, visibleHeight int) {
	r.ChapterHref = href
	r.Source = source
	r.VisibleHeight = visibleHeight
	r.ScrollOffset = 0
	r.NormalMode.Deactivate()
	r.Search.Clear()
}

func (r *Reader) maxScrollOffset() int {
	max := r.Source.LineCount() - r.VisibleHeight
	if max < 0 {
		return 0
	}
	return max
}

// ToggleNormalMode turns normal mode on or off. Activating restores the
// last cursor position when it is still within the viewport and not on a
// skippable line; otherwise the cursor is placed scrolloff lines below the
// top of the viewport, mirroring vim's behavior when entering Normal mode
// on a freshly scrolled buffer.
func (r *Reader) ToggleNormalMode() {
	if r.NormalMode.Active {
		r.NormalMode.Deactivate()
		return
	}

	previousLine := r.NormalMode.Cursor.Line
	viewportTop := r.ScrollOffset
	viewportBottom := r.ScrollOffset + r.VisibleHeight
	inViewport := previousLine >= viewportTop && previousLine < viewportBottom

	if r.NormalMode.WasPositioned() && inViewport && !r.Source.Skippable(previousLine) {
		r.NormalMode.Active = true
		r.NormalMode.Cursor.Column = clampColumnToLineLength(r.Source, r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column)
		return
	}

	initialLine := r.ScrollOffset + r.cfg.Scrolloff
	if max := r.Source.LineCount() - 1; initialLine > max {
		initialLine = max
	}
	initialLine = findNextValidLine(r.Source, max0(initialLine), 1)
	initialCol := firstNonWhitespaceColumn(r.Source, initialLine)
	r.NormalMode.Activate(initialLine, initialCol)
}

func (r *Reader) ensureCursorVisible() {
	scrolloff := r.cfg.Scrolloff
	cursorLine := r.NormalMode.Cursor.Line
	viewportTop := r.ScrollOffset
	viewportBottom := r.ScrollOffset + r.VisibleHeight

	if cursorLine < viewportTop+scrolloff {
		r.ScrollOffset = max0(cursorLine - scrolloff)
	} else if cursorLine >= viewportBottom-scrolloff {
		target := cursorLine + scrolloff + 1
		offset := target - r.VisibleHeight
		if offset < 0 {
			offset = 0
		}
		if max := r.maxScrollOffset(); offset > max {
			offset = max
		}
		r.ScrollOffset = offset
	}
}

// MoveLeft/MoveRight/MoveDown/MoveUp are the h/l/j/k motions.
func (r *Reader) MoveLeft() {
	if !r.NormalMode.Active || r.NormalMode.Cursor.Column <= 0 {
		return
	}
	r.NormalMode.Cursor.Column--
}

func (r *Reader) MoveRight() {
	if !r.NormalMode.Active {
		return
	}
	n := lineLen(r.Source, r.NormalMode.Cursor.Line)
	if r.NormalMode.Cursor.Column < n-1 {
		r.NormalMode.Cursor.Column++
	}
}

func (r *Reader) MoveDown() {
	if !r.NormalMode.Active {
		return
	}
	maxLine := r.Source.LineCount() - 1
	if r.NormalMode.Cursor.Line >= maxLine {
		return
	}
	newLine := findNextValidLine(r.Source, r.NormalMode.Cursor.Line+1, 1)
	if newLine > maxLine {
		return
	}
	r.NormalMode.Cursor.Line = newLine
	r.NormalMode.Cursor.Column = clampColumnToLineLength(r.Source, newLine, r.NormalMode.Cursor.Column)
	r.ensureCursorVisible()
}

func (r *Reader) MoveUp() {
	if !r.NormalMode.Active || r.NormalMode.Cursor.Line <= 0 {
		return
	}
	newLine := findNextValidLine(r.Source, r.NormalMode.Cursor.Line-1, -1)
	r.NormalMode.Cursor.Line = newLine
	r.NormalMode.Cursor.Column = clampColumnToLineLength(r.Source, newLine, r.NormalMode.Cursor.Column)
	r.ensureCursorVisible()
}

func (r *Reader) WordForward() {
	if !r.NormalMode.Active {
		return
	}
	line, col := findNextWordStart(r.Source, r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column)
	r.settleCursor(line, col)
}

func (r *Reader) WordEnd() {
	if !r.NormalMode.Active {
		return
	}
	line, col := findWordEnd(r.Source, r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column)
	r.settleCursor(line, col)
}

func (r *Reader) WordBackward() {
	if !r.NormalMode.Active {
		return
	}
	line, col := findPrevWordStart(r.Source, r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column)
	r.settleCursor(line, col)
}

func (r *Reader) BigWordForward() {
	if !r.NormalMode.Active {
		return
	}
	line, col := findNextBigWordStart(r.Source, r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column)
	r.settleCursor(line, col)
}

func (r *Reader) settleCursor(line, col int) {
	if r.Source.Skippable(line) {
		if line > r.NormalMode.Cursor.Line {
			line = findNextValidLine(r.Source, line, 1)
		} else {
			line = findNextValidLine(r.Source, line, -1)
		}
		col = 0
	}
	r.NormalMode.Cursor.Line = line
	r.NormalMode.Cursor.Column = clampColumnToLineLength(r.Source, line, col)
	r.ensureCursorVisible()
}

func (r *Reader) LineStart() {
	if r.NormalMode.Active {
		r.NormalMode.Cursor.Column = 0
	}
}

func (r *Reader) FirstNonWhitespace() {
	if r.NormalMode.Active {
		r.NormalMode.Cursor.Column = firstNonWhitespaceColumn(r.Source, r.NormalMode.Cursor.Line)
	}
}

func (r *Reader) LineEnd() {
	if !r.NormalMode.Active {
		return
	}
	r.NormalMode.Cursor.Column = max0(lineLen(r.Source, r.NormalMode.Cursor.Line) - 1)
}

func (r *Reader) ParagraphUp() {
	if !r.NormalMode.Active {
		return
	}
	line := findPrevParagraphBoundary(r.Source, r.NormalMode.Cursor.Line)
	r.NormalMode.Cursor.Line = line
	r.NormalMode.Cursor.Column = 0
	r.ensureCursorVisible()
}

func (r *Reader) ParagraphDown() {
	if !r.NormalMode.Active {
		return
	}
	line := findNextParagraphBoundary(r.Source, r.NormalMode.Cursor.Line)
	r.NormalMode.Cursor.Line = line
	r.NormalMode.Cursor.Column = 0
	r.ensureCursorVisible()
}

func (r *Reader) DocumentTop() {
	if !r.NormalMode.Active {
		return
	}
	line := findNextValidLine(r.Source, 0, 1)
	r.NormalMode.Cursor.Line = line
	r.NormalMode.Cursor.Column = firstNonWhitespaceColumn(r.Source, line)
	r.ScrollOffset = 0
}

func (r *Reader) DocumentBottom() {
	if !r.NormalMode.Active {
		return
	}
	last := max0(r.Source.LineCount() - 1)
	last = findNextValidLine(r.Source, last, -1)
	r.NormalMode.Cursor.Line = last
	r.NormalMode.Cursor.Column = firstNonWhitespaceColumn(r.Source, last)
	r.ScrollOffset = r.maxScrollOffset()
}

func (r *Reader) HalfPageDown() {
	if !r.NormalMode.Active {
		return
	}
	amount := r.VisibleHeight / 2
	maxLine := max0(r.Source.LineCount() - 1)
	newLine := r.NormalMode.Cursor.Line + amount
	if newLine > maxLine {
		newLine = maxLine
	}
	newLine = findNextValidLine(r.Source, newLine, 1)
	r.NormalMode.Cursor.Line = newLine
	offset := r.ScrollOffset + amount
	if max := r.maxScrollOffset(); offset > max {
		offset = max
	}
	r.ScrollOffset = offset
	r.NormalMode.Cursor.Column = clampColumnToLineLength(r.Source, newLine, r.NormalMode.Cursor.Column)
}

func (r *Reader) HalfPageUp() {
	if !r.NormalMode.Active {
		return
	}
	amount := r.VisibleHeight / 2
	newLine := max0(r.NormalMode.Cursor.Line - amount)
	newLine = findNextValidLine(r.Source, newLine, -1)
	r.NormalMode.Cursor.Line = newLine
	r.ScrollOffset = max0(r.ScrollOffset - amount)
	r.NormalMode.Cursor.Column = clampColumnToLineLength(r.Source, newLine, r.NormalMode.Cursor.Column)
}

// SetPendingFind arms the cursor for an f/F/t/T motion; the next rune typed
// is consumed by ExecutePendingFind.
func (r *Reader) SetPendingFind(motion PendingCharMotion) {
	if r.NormalMode.Active {
		r.NormalMode.PendingMotion = motion
	}
}

func (r *Reader) HasPendingFind() bool {
	return r.NormalMode.Active && r.NormalMode.PendingMotion != PendingCharMotionNone
}

func (r *Reader) ClearPendingFind() {
	r.NormalMode.PendingMotion = PendingCharMotionNone
}

// ExecutePendingFind applies the armed f/F/t/T motion with ch, recording it
// so Repeat can replay it with ';'.
func (r *Reader) ExecutePendingFind(ch rune) bool {
	if !r.NormalMode.Active {
		return false
	}
	motion := r.NormalMode.PendingMotion
	r.NormalMode.PendingMotion = PendingCharMotionNone
	ok := r.applyFind(motion, ch)
	if motion != PendingCharMotionNone {
		r.NormalMode.lastFind = lastFind{motion: motion, ch: ch, set: true}
	}
	return ok
}

// RepeatLastFind replays the last f/F/t/T motion (';').
func (r *Reader) RepeatLastFind() bool {
	if !r.NormalMode.Active || !r.NormalMode.lastFind.set {
		return false
	}
	return r.applyFind(r.NormalMode.lastFind.motion, r.NormalMode.lastFind.ch)
}

func (r *Reader) applyFind(motion PendingCharMotion, ch rune) bool {
	line := r.NormalMode.Cursor.Line
	col := r.NormalMode.Cursor.Column
	var newCol int
	var ok bool
	switch motion {
	case PendingCharMotionFindForward:
		newCol, ok = findCharForward(r.Source, line, col, ch)
	case PendingCharMotionFindBackward:
		newCol, ok = findCharBackward(r.Source, line, col, ch)
	case PendingCharMotionTillForward:
		newCol, ok = findCharTillForward(r.Source, line, col, ch)
	case PendingCharMotionTillBackward:
		newCol, ok = findCharTillBackward(r.Source, line, col, ch)
	default:
		return false
	}
	if ok {
		r.NormalMode.Cursor.Column = newCol
	}
	return ok
}

func (r *Reader) setYankHighlight(startLine, startCol, endLine, endCol int, now time.Time) {
	ttl := time.Duration(r.cfg.YankHighlightMS) * time.Millisecond
	r.NormalMode.Highlight = &YankHighlight{
		StartLine: startLine, StartCol: startCol,
		EndLine: endLine, EndCol: endCol,
		ExpiresAt: now.Add(ttl),
	}
}

// ClearExpiredYankHighlight drops the highlight once its TTL has elapsed.
func (r *Reader) ClearExpiredYankHighlight(now time.Time) {
	if r.NormalMode.Highlight != nil && r.NormalMode.Highlight.Expired(now) {
		r.NormalMode.Highlight = nil
	}
}

func (r *Reader) setHUD(text string, now time.Time) {
	r.HUD.Set(hud.New(text, hud.KindNormal, now, hudNormalDuration))
}

// SetErrorHUD surfaces message as an error toast with the longer TTL.
func (r *Reader) SetErrorHUD(message string, now time.Time) {
	r.HUD.Set(hud.New(message, hud.KindError, now, hudErrorDuration))
}

func (r *Reader) currentLocation() jumplist.Location {
	node := 0
	if r.NormalMode.Active {
		node = r.NormalMode.Cursor.Line
	}
	return jumplist.Location{
		Kind:    jumplist.LocationEpub,
		Path:    r.Path,
		Chapter: r.ChapterHref,
		Node:    node,
	}
}

// RecordJump pushes the reader's current location onto the jump list
// before a caller-initiated navigation (a TOC jump, a link follow, a
// go-to-bookmark) that should be undoable with Ctrl-O.
func (r *Reader) RecordJump() {
	r.JumpList.Push(r.currentLocation())
}

// JumpBack pops the most recent recorded location (Ctrl-O).
func (r *Reader) JumpBack() (jumplist.Location, bool) {
	return r.JumpList.Back(r.currentLocation())
}

// JumpForward re-applies a location undone by JumpBack (Ctrl-I).
func (r *Reader) JumpForward() (jumplist.Location, bool) {
	return r.JumpList.Forward(r.currentLocation())
}
