package textreader

// findNextWordStart returns the (line, col) of the next word start after
// (line, col), skipping the remainder of the current word first.
func findNextWordStart(src LineSource, line, col int) (int, int) {
	total := src.LineCount()
	curLine, curCol := line, col
	for curLine < total {
		chars := []rune(src.LineText(curLine))
		for curCol < len(chars) && isWordChar(chars[curCol]) {
			curCol++
		}
		for curCol < len(chars) {
			if isWordChar(chars[curCol]) {
				return curLine, curCol
			}
			curCol++
		}
		curLine++
		curCol = 0
	}
	last := total - 1
	if last < 0 {
		return 0, 0
	}
	return last, max0(lineLen(src, last) - 1)
}

func findWordEnd(src LineSource, line, col int) (int, int) {
	total := src.LineCount()
	curLine, curCol := line, col+1
	for curLine < total {
		chars := []rune(src.LineText(curLine))
		for curCol < len(chars) && !isWordChar(chars[curCol]) {
			curCol++
		}
		for curCol < len(chars) {
			if curCol+1 >= len(chars) || !isWordChar(chars[curCol+1]) {
				return curLine, curCol
			}
			curCol++
		}
		curLine++
		curCol = 0
	}
	last := total - 1
	if last < 0 {
		return 0, 0
	}
	return last, max0(lineLen(src, last) - 1)
}

func findPrevWordStart(src LineSource, line, col int) (int, int) {
	curLine, curCol := line, col
	if curCol == 0 {
		if curLine == 0 {
			return 0, 0
		}
		curLine--
		curCol = lineLen(src, curLine)
	} else {
		curCol--
	}

	for {
		chars := []rune(src.LineText(curLine))
		if len(chars) == 0 {
			if curLine == 0 {
				return 0, 0
			}
			curLine--
			curCol = lineLen(src, curLine)
			continue
		}
		if curCol > len(chars)-1 {
			curCol = len(chars) - 1
		}
		for curCol > 0 && !isWordChar(chars[curCol]) {
			curCol--
		}
		if isWordChar(chars[curCol]) {
			for curCol > 0 && isWordChar(chars[curCol-1]) {
				curCol--
			}
			return curLine, curCol
		}
		if curLine == 0 {
			return 0, 0
		}
		curLine--
		curCol = lineLen(src, curLine)
	}
}

func findNextBigWordStart(src LineSource, line, col int) (int, int) {
	total := src.LineCount()
	curLine, curCol := line, col
	for curLine < total {
		chars := []rune(src.LineText(curLine))
		for curCol < len(chars) && !isSpace(chars[curCol]) {
			curCol++
		}
		for curCol < len(chars) && isSpace(chars[curCol]) {
			curCol++
		}
		if curCol < len(chars) {
			return curLine, curCol
		}
		curLine++
		curCol = 0
	}
	last := total - 1
	if last < 0 {
		return 0, 0
	}
	return last, max0(lineLen(src, last) - 1)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func findCharForward(src LineSource, line, col int, ch rune) (int, bool) {
	chars := []rune(src.LineText(line))
	for i := col + 1; i < len(chars); i++ {
		if chars[i] == ch {
			return i, true
		}
	}
	return col, false
}

func findCharBackward(src LineSource, line, col int, ch rune) (int, bool) {
	chars := []rune(src.LineText(line))
	for i := col - 1; i >= 0; i-- {
		if chars[i] == ch {
			return i, true
		}
	}
	return col, false
}

func findCharTillForward(src LineSource, line, col int, ch rune) (int, bool) {
	chars := []rune(src.LineText(line))
	for i := col + 1; i < len(chars); i++ {
		if chars[i] == ch && i > 0 {
			return i - 1, true
		}
	}
	return col, false
}

func findCharTillBackward(src LineSource, line, col int, ch rune) (int, bool) {
	chars := []rune(src.LineText(line))
	for i := col - 1; i >= 0; i-- {
		if chars[i] == ch {
			return i + 1, true
		}
	}
	return col, false
}

func findPrevParagraphBoundary(src LineSource, line int) int {
	if line == 0 {
		return 0
	}
	current := line
	for current > 0 && !isLineBlank(src, current-1) {
		current--
	}
	if current > 0 {
		current--
		for current > 0 && isLineBlank(src, current) {
			current--
		}
		for current > 0 && !isLineBlank(src, current-1) {
			current--
		}
	}
	return current
}

func findNextParagraphBoundary(src LineSource, line int) int {
	total := src.LineCount()
	if total == 0 {
		return 0
	}
	maxLine := total - 1
	current := line
	for current < total && !isLineBlank(src, current) {
		current++
	}
	for current < total && isLineBlank(src, current) {
		current++
	}
	if current > maxLine {
		return maxLine
	}
	return current
}
