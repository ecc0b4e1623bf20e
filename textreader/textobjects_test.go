package textreader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindWordBoundsOnWordChar(t *testing.T) {
	lines := StringLines{"the quick fox"}
	start, end, ok := findWordBounds(lines, 0, 5)
	require.True(t, ok)
	require.Equal(t, 4, start)
	require.Equal(t, 9, end)
}

func TestFindWordBoundsOnPunctuation(t *testing.T) {
	lines := StringLines{"foo, bar"}
	start, end, ok := findWordBounds(lines, 0, 3)
	require.True(t, ok)
	require.Equal(t, 3, start)
	require.Equal(t, 4, end)
}

func TestFindBigWordBounds(t *testing.T) {
	lines := StringLines{"a-b,c d"}
	start, end, ok := findBigWordBounds(lines, 0, 2)
	require.True(t, ok)
	require.Equal(t, 0, start)
	require.Equal(t, 5, end)
}

func TestFindParagraphBounds(t *testing.T) {
	lines := StringLines{"p1a", "p1b", "", "p2a"}
	start, end, ok := findParagraphBounds(lines, 1)
	require.True(t, ok)
	require.Equal(t, 0, start)
	require.Equal(t, 1, end)
}

func TestFindQuoteBoundsInner(t *testing.T) {
	lines := StringLines{`say "hello world" now`}
	start, end, ok := findQuoteBounds(lines, 0, 7, '"', false)
	require.True(t, ok)
	require.Equal(t, `hello world`, string([]rune(lines[0])[start:end]))
}

func TestFindQuoteBoundsAround(t *testing.T) {
	lines := StringLines{`say "hello" now`}
	start, end, ok := findQuoteBounds(lines, 0, 6, '"', true)
	require.True(t, ok)
	require.Equal(t, `"hello"`, string([]rune(lines[0])[start:end]))
}

func TestFindBracketBoundsSingleLine(t *testing.T) {
	lines := StringLines{"foo(bar(baz)qux)end"}
	startLine, startCol, endLine, endCol, ok := findBracketBounds(lines, 0, 9, '(', ')', false)
	require.True(t, ok)
	require.Equal(t, 0, startLine)
	require.Equal(t, 0, endLine)
	require.Equal(t, "baz", extractText(lines, startLine, startCol, endLine, endCol))
}

func TestFindBracketBoundsAroundIncludesBrackets(t *testing.T) {
	lines := StringLines{"foo(bar)baz"}
	startLine, startCol, endLine, endCol, ok := findBracketBounds(lines, 0, 5, '(', ')', true)
	require.True(t, ok)
	require.Equal(t, "(bar)", extractText(lines, startLine, startCol, endLine, endCol))
}

func TestFindBracketBoundsMultiLine(t *testing.T) {
	lines := StringLines{"func f(", "  x, y", ") {}"}
	startLine, startCol, endLine, endCol, ok := findBracketBounds(lines, 1, 2, '(', ')', false)
	require.True(t, ok)
	require.Equal(t, 0, startLine)
	require.Equal(t, 2, endLine)
	require.Equal(t, "\n  x, y\n", extractText(lines, startLine, startCol, endLine, endCol))
}

func TestExtractLines(t *testing.T) {
	lines := StringLines{"a", "b", "c"}
	require.Equal(t, "a\nb\nc", extractLines(lines, 0, 2))
}
