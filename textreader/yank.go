package textreader

import "time"

// YankLine yanks count whole lines starting at the cursor (vim's yy/2yy).
func (r *Reader) YankLine(count int, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	start := r.NormalMode.Cursor.Line
	end := start + count - 1
	if max := r.Source.LineCount() - 1; end > max {
		end = max
	}
	text := extractLines(r.Source, start, end)
	r.setYankHighlight(start, 0, end, lineLen(r.Source, end), now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankToLineEnd yanks from the cursor to end of line (y$).
func (r *Reader) YankToLineEnd(now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	chars := []rune(r.Source.LineText(line))
	if col >= len(chars) {
		return "", false
	}
	r.setYankHighlight(line, col, line, len(chars), now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return string(chars[col:]), true
}

// YankToLineStart yanks from start of line to (not including) the cursor (y0).
func (r *Reader) YankToLineStart(now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	if col == 0 {
		return "", false
	}
	chars := []rune(r.Source.LineText(line))
	if col > len(chars) {
		col = len(chars)
	}
	r.setYankHighlight(line, 0, line, col, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return string(chars[:col]), true
}

// YankToFirstNonWhitespace yanks between the cursor and the line's first
// non-whitespace column (y^).
func (r *Reader) YankToFirstNonWhitespace(now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	firstNonWS := firstNonWhitespaceColumn(r.Source, line)
	start, end := col, firstNonWS
	if col > firstNonWS {
		start, end = firstNonWS, col
	}
	chars := []rune(r.Source.LineText(line))
	start, end = clampRange(start, end, len(chars))
	r.setYankHighlight(line, start, line, end, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return string(chars[start:end]), true
}

func (r *Reader) yankMotion(count int, now time.Time, motion func(src LineSource, line, col int) (int, int)) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	startLine, startCol := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	endLine, endCol := startLine, startCol
	for i := 0; i < count; i++ {
		endLine, endCol = motion(r.Source, endLine, endCol)
	}
	text := extractText(r.Source, startLine, startCol, endLine, endCol)
	r.setYankHighlight(startLine, startCol, endLine, endCol, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankWordForward yanks count words forward (yw, 2yw).
func (r *Reader) YankWordForward(count int, now time.Time) (string, bool) {
	return r.yankMotion(count, now, findNextWordStart)
}

// YankBigWordForward yanks count WORDS forward (yW, 2yW).
func (r *Reader) YankBigWordForward(count int, now time.Time) (string, bool) {
	return r.yankMotion(count, now, findNextBigWordStart)
}

// YankWordEnd yanks to the end of the count-th word (ye, 2ye).
func (r *Reader) YankWordEnd(count int, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	startLine, startCol := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	endLine, endCol := startLine, startCol
	for i := 0; i < count; i++ {
		endLine, endCol = findWordEnd(r.Source, endLine, endCol)
	}
	text := extractText(r.Source, startLine, startCol, endLine, endCol+1)
	r.setYankHighlight(startLine, startCol, endLine, endCol+1, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankWordBackward yanks count words backward (yb, 2yb).
func (r *Reader) YankWordBackward(count int, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	endLine, endCol := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	startLine, startCol := endLine, endCol
	for i := 0; i < count; i++ {
		startLine, startCol = findPrevWordStart(r.Source, startLine, startCol)
	}
	text := extractText(r.Source, startLine, startCol, endLine, endCol)
	r.setYankHighlight(startLine, startCol, endLine, endCol, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankParagraphUp yanks from count paragraph boundaries up to the cursor
// line, inclusive (y{, 2y{).
func (r *Reader) YankParagraphUp(count int, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	endLine := r.NormalMode.Cursor.Line
	startLine := endLine
	for i := 0; i < count; i++ {
		startLine = findPrevParagraphBoundary(r.Source, startLine)
	}
	text := extractLines(r.Source, startLine, endLine)
	r.setYankHighlight(startLine, 0, endLine, lineLen(r.Source, endLine), now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankParagraphDown yanks from the cursor line down to count paragraph
// boundaries (y}, 2y}).
func (r *Reader) YankParagraphDown(count int, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	startLine := r.NormalMode.Cursor.Line
	endLine := startLine
	for i := 0; i < count; i++ {
		endLine = findNextParagraphBoundary(r.Source, endLine)
	}
	text := extractLines(r.Source, startLine, endLine)
	r.setYankHighlight(startLine, 0, endLine, lineLen(r.Source, endLine), now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankToDocumentTop yanks from the top of the chapter to the cursor (ygg).
func (r *Reader) YankToDocumentTop(now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	endLine := r.NormalMode.Cursor.Line
	text := extractLines(r.Source, 0, endLine)
	r.setYankHighlight(0, 0, endLine, lineLen(r.Source, endLine), now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankToDocumentBottom yanks from the cursor to the bottom of the chapter (yG).
func (r *Reader) YankToDocumentBottom(now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	startLine := r.NormalMode.Cursor.Line
	endLine := max0(r.Source.LineCount() - 1)
	text := extractLines(r.Source, startLine, endLine)
	r.setYankHighlight(startLine, 0, endLine, lineLen(r.Source, endLine), now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

func (r *Reader) findNthCharForward(ch rune, count int) (int, bool) {
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	chars := []rune(r.Source.LineText(line))
	found := 0
	for i := col + 1; i < len(chars); i++ {
		if chars[i] == ch {
			found++
			if found == count {
				return i, true
			}
		}
	}
	return 0, false
}

func (r *Reader) findNthCharBackward(ch rune, count int) (int, bool) {
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	chars := []rune(r.Source.LineText(line))
	found := 0
	for i := col - 1; i >= 0; i-- {
		if chars[i] == ch {
			found++
			if found == count {
				return i, true
			}
		}
	}
	return 0, false
}

// YankFindCharWithCount yanks between the cursor and the count-th occurrence
// of ch in the direction motion names (yf, yF, yt, yT, with a numeric prefix).
func (r *Reader) YankFindCharWithCount(motion PendingCharMotion, ch rune, count int, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line := r.NormalMode.Cursor.Line
	startCol := r.NormalMode.Cursor.Column

	var endCol int
	var ok bool
	switch motion {
	case PendingCharMotionFindForward:
		endCol, ok = r.findNthCharForward(ch, count)
	case PendingCharMotionFindBackward:
		endCol, ok = r.findNthCharBackward(ch, count)
	case PendingCharMotionTillForward:
		endCol, ok = r.findNthCharForward(ch, count)
		endCol--
	case PendingCharMotionTillBackward:
		endCol, ok = r.findNthCharBackward(ch, count)
		endCol++
	default:
		return "", false
	}
	if !ok {
		return "", false
	}

	from, to := startCol, endCol+1
	if endCol < startCol {
		from, to = endCol, startCol+1
	}
	chars := []rune(r.Source.LineText(line))
	from, to = clampRange(from, to, len(chars))

	r.setYankHighlight(line, from, line, to, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return string(chars[from:to]), true
}

// YankInnerWord yanks the word under the cursor, excluding surrounding
// whitespace (iw).
func (r *Reader) YankInnerWord(now time.Time) (string, bool) {
	return r.yankTextObject(now, findWordBounds)
}

// YankAWord yanks the word under the cursor plus trailing whitespace (aw).
func (r *Reader) YankAWord(now time.Time) (string, bool) {
	return r.yankWordWithTrailingSpace(now, findWordBounds)
}

// YankInnerBigWord yanks the WORD under the cursor (iW).
func (r *Reader) YankInnerBigWord(now time.Time) (string, bool) {
	return r.yankTextObject(now, findBigWordBounds)
}

// YankABigWord yanks the WORD under the cursor plus trailing whitespace (aW).
func (r *Reader) YankABigWord(now time.Time) (string, bool) {
	return r.yankWordWithTrailingSpace(now, findBigWordBounds)
}

func (r *Reader) yankTextObject(now time.Time, bounds func(src LineSource, line, col int) (int, int, bool)) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	start, end, ok := bounds(r.Source, line, col)
	if !ok {
		return "", false
	}
	chars := []rune(r.Source.LineText(line))
	start, end = clampRange(start, end, len(chars))
	r.setYankHighlight(line, start, line, end, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return string(chars[start:end]), true
}

func (r *Reader) yankWordWithTrailingSpace(now time.Time, bounds func(src LineSource, line, col int) (int, int, bool)) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	start, end, ok := bounds(r.Source, line, col)
	if !ok {
		return "", false
	}
	chars := []rune(r.Source.LineText(line))
	for end < len(chars) && isSpace(chars[end]) {
		end++
	}
	start, end = clampRange(start, end, len(chars))
	r.setYankHighlight(line, start, line, end, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return string(chars[start:end]), true
}

// YankInnerParagraph yanks count paragraphs around the cursor (ip, 2ip).
func (r *Reader) YankInnerParagraph(count int, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line := r.NormalMode.Cursor.Line
	start, end, ok := findParagraphBounds(r.Source, line)
	if !ok {
		return "", false
	}
	for i := 1; i < count; i++ {
		next := findNextParagraphBoundary(r.Source, end)
		if next > end {
			if _, newEnd, ok := findParagraphBounds(r.Source, next); ok {
				end = newEnd
			}
		}
	}
	text := extractLines(r.Source, start, end)
	r.setYankHighlight(start, 0, end, lineLen(r.Source, end), now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankAParagraph yanks count paragraphs around the cursor including trailing
// blank lines (ap, 2ap).
func (r *Reader) YankAParagraph(count int, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line := r.NormalMode.Cursor.Line
	start, end, ok := findParagraphBounds(r.Source, line)
	if !ok {
		return "", false
	}
	total := r.Source.LineCount()
	for i := 1; i < count; i++ {
		for end+1 < total && isLineBlank(r.Source, end+1) {
			end++
		}
		next := end + 1
		if next < total {
			if _, newEnd, ok := findParagraphBounds(r.Source, next); ok {
				end = newEnd
			}
		}
	}
	for end+1 < total && isLineBlank(r.Source, end+1) {
		end++
	}
	text := extractLines(r.Source, start, end)
	r.setYankHighlight(start, 0, end, lineLen(r.Source, end), now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}

// YankInnerQuotes yanks the content between a pair of quote chars, excluding
// the quotes themselves (i", i', i`).
func (r *Reader) YankInnerQuotes(quote rune, now time.Time) (string, bool) {
	return r.yankQuotes(quote, false, now)
}

// YankAroundQuotes yanks a pair of quote chars plus their content (a", a', a`).
func (r *Reader) YankAroundQuotes(quote rune, now time.Time) (string, bool) {
	return r.yankQuotes(quote, true, now)
}

func (r *Reader) yankQuotes(quote rune, include bool, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	start, end, ok := findQuoteBounds(r.Source, line, col, quote, include)
	if !ok {
		return "", false
	}
	chars := []rune(r.Source.LineText(line))
	start, end = clampRange(start, end, len(chars))
	r.setYankHighlight(line, start, line, end, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return string(chars[start:end]), true
}

// YankInnerBrackets yanks the content between a matching bracket pair,
// excluding the brackets (i(, i[, i{, i<).
func (r *Reader) YankInnerBrackets(open, close rune, now time.Time) (string, bool) {
	return r.yankBrackets(open, close, false, now)
}

// YankAroundBrackets yanks a matching bracket pair plus its content
// (a(, a[, a{, a<).
func (r *Reader) YankAroundBrackets(open, close rune, now time.Time) (string, bool) {
	return r.yankBrackets(open, close, true, now)
}

func (r *Reader) yankBrackets(open, close rune, include bool, now time.Time) (string, bool) {
	if !r.NormalMode.Active {
		return "", false
	}
	line, col := r.NormalMode.Cursor.Line, r.NormalMode.Cursor.Column
	startLine, startCol, endLine, endCol, ok := findBracketBounds(r.Source, line, col, open, close, include)
	if !ok {
		return "", false
	}
	text := extractText(r.Source, startLine, startCol, endLine, endCol)
	r.setYankHighlight(startLine, startCol, endLine, endCol, now)
	r.NormalMode.PendingYankVal = PendingYankNone
	return text, true
}
