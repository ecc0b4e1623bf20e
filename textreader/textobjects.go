package textreader

// findWordBounds returns the [start, end) column range of the word or
// punctuation run the cursor sits on (vim's iw).
func findWordBounds(src LineSource, line, col int) (int, int, bool) {
	chars := []rune(src.LineText(line))
	if col >= len(chars) {
		return 0, 0, false
	}

	atWord := isWordChar(chars[col])
	start, end := col, col

	if atWord {
		for start > 0 && isWordChar(chars[start-1]) {
			start--
		}
		for end < len(chars) && isWordChar(chars[end]) {
			end++
		}
		return start, end, true
	}

	for start > 0 && !isWordChar(chars[start-1]) && !isSpace(chars[start-1]) {
		start--
	}
	for end < len(chars) && !isWordChar(chars[end]) && !isSpace(chars[end]) {
		end++
	}
	if start == end {
		for start > 0 && isSpace(chars[start-1]) {
			start--
		}
		for end < len(chars) && isSpace(chars[end]) {
			end++
		}
	}
	return start, end, true
}

func findBigWordBounds(src LineSource, line, col int) (int, int, bool) {
	chars := []rune(src.LineText(line))
	if col >= len(chars) {
		return 0, 0, false
	}
	if isSpace(chars[col]) {
		start, end := col, col
		for start > 0 && isSpace(chars[start-1]) {
			start--
		}
		for end < len(chars) && isSpace(chars[end]) {
			end++
		}
		return start, end, true
	}
	start, end := col, col
	for start > 0 && !isSpace(chars[start-1]) {
		start--
	}
	for end < len(chars) && !isSpace(chars[end]) {
		end++
	}
	return start, end, true
}

func findParagraphBounds(src LineSource, line int) (int, int, bool) {
	total := src.LineCount()
	if total == 0 {
		return 0, 0, false
	}
	start := line
	for start > 0 && !isLineBlank(src, start-1) {
		start--
	}
	end := line
	for end+1 < total && !isLineBlank(src, end+1) {
		end++
	}
	return start, end, true
}

// findQuoteBounds finds the quote pair around (line, col). include controls
// whether the quote characters themselves are part of the returned range.
func findQuoteBounds(src LineSource, line, col int, quote rune, include bool) (int, int, bool) {
	chars := []rune(src.LineText(line))

	var openPos, closePos = -1, -1

	if col < len(chars) && chars[col] == quote {
		before := 0
		for _, c := range chars[:col] {
			if c == quote {
				before++
			}
		}
		if before%2 == 0 {
			openPos = col
		} else {
			closePos = col
		}
	}

	if openPos < 0 {
		for i := col - 1; i >= 0; i-- {
			if chars[i] == quote {
				before := 0
				for _, c := range chars[:i] {
					if c == quote {
						before++
					}
				}
				if before%2 == 0 {
					openPos = i
					break
				}
			}
		}
	}
	if openPos < 0 {
		return 0, 0, false
	}

	if closePos < 0 {
		for i := openPos + 1; i < len(chars); i++ {
			if chars[i] == quote {
				closePos = i
				break
			}
		}
	}
	if closePos < 0 {
		return 0, 0, false
	}

	if include {
		return openPos, closePos + 1, true
	}
	return openPos + 1, closePos, true
}

// findBracketBounds depth-tracks outward from (line, col) to find the
// enclosing open/close bracket pair, possibly spanning multiple lines.
func findBracketBounds(src LineSource, line, col int, open, close rune, include bool) (int, int, int, int, bool) {
	depth := 0
	openLine, openCol := -1, -1

	for l := line; l >= 0; l-- {
		chars := []rune(src.LineText(l))
		startCol := len(chars) - 1
		if l == line {
			startCol = col
		}
		for c := startCol; c >= 0; c-- {
			if c >= len(chars) {
				continue
			}
			switch chars[c] {
			case close:
				depth++
			case open:
				if depth == 0 {
					openLine, openCol = l, c
				} else {
					depth--
				}
			}
			if openLine >= 0 {
				break
			}
		}
		if openLine >= 0 {
			break
		}
	}
	if openLine < 0 {
		return 0, 0, 0, 0, false
	}

	depth = 0
	closeLine, closeCol := -1, -1
	total := src.LineCount()
	for l := openLine; l < total; l++ {
		chars := []rune(src.LineText(l))
		startCol := 0
		if l == openLine {
			startCol = openCol
		}
		for c := startCol; c < len(chars); c++ {
			switch chars[c] {
			case open:
				depth++
			case close:
				if depth == 1 {
					closeLine, closeCol = l, c
				} else {
					depth--
				}
			}
			if closeLine >= 0 {
				break
			}
		}
		if closeLine >= 0 {
			break
		}
	}
	if closeLine < 0 {
		return 0, 0, 0, 0, false
	}

	if include {
		return openLine, openCol, closeLine, closeCol + 1, true
	}
	return openLine, openCol + 1, closeLine, closeCol, true
}

func extractText(src LineSource, startLine, startCol, endLine, endCol int) string {
	if startLine == endLine {
		chars := []rune(src.LineText(startLine))
		startCol, endCol = clampRange(startCol, endCol, len(chars))
		return string(chars[startCol:endCol])
	}
	var out []rune
	for l := startLine; l <= endLine; l++ {
		chars := []rune(src.LineText(l))
		switch {
		case l == startLine:
			if startCol > len(chars) {
				startCol = len(chars)
			}
			out = append(out, chars[startCol:]...)
		case l == endLine:
			out = append(out, '\n')
			if endCol > len(chars) {
				endCol = len(chars)
			}
			out = append(out, chars[:endCol]...)
		default:
			out = append(out, '\n')
			out = append(out, chars...)
		}
	}
	return string(out)
}

func extractLines(src LineSource, startLine, endLine int) string {
	var out []rune
	for l := startLine; l <= endLine; l++ {
		if l > startLine {
			out = append(out, '\n')
		}
		out = append(out, []rune(src.LineText(l))...)
	}
	return string(out)
}

func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}
