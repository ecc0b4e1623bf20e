package textreader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/config"
)

func testReaderConfig() config.ReaderConfig {
	return config.DefaultConfig().Reader
}

func newTestReader(lines StringLines, visibleHeight int) *Reader {
	r := New(testReaderConfig(), 100)
	r.SetChapter("chapter1.xhtml", lines, visibleHeight)
	return r
}

func TestYankLineMultiCount(t *testing.T) {
	r := newTestReader(StringLines{"one", "two", "three"}, 10)
	r.NormalMode.Activate(0, 0)
	text, ok := r.YankLine(2, time.Now())
	require.True(t, ok)
	require.Equal(t, "one\ntwo", text)
	require.NotNil(t, r.NormalMode.Highlight)
}

func TestYankToLineEndAndStart(t *testing.T) {
	r := newTestReader(StringLines{"hello world"}, 10)
	r.NormalMode.Activate(0, 6)
	text, ok := r.YankToLineEnd(time.Now())
	require.True(t, ok)
	require.Equal(t, "world", text)

	text, ok = r.YankToLineStart(time.Now())
	require.True(t, ok)
	require.Equal(t, "hello ", text)
}

func TestYankToFirstNonWhitespace(t *testing.T) {
	r := newTestReader(StringLines{"   hello"}, 10)
	r.NormalMode.Activate(0, 5)
	text, ok := r.YankToFirstNonWhitespace(time.Now())
	require.True(t, ok)
	require.Equal(t, "he", text)
}

func TestYankInnerAndAWord(t *testing.T) {
	r := newTestReader(StringLines{"the quick  fox"}, 10)
	r.NormalMode.Activate(0, 4)
	text, ok := r.YankInnerWord(time.Now())
	require.True(t, ok)
	require.Equal(t, "quick", text)

	text, ok = r.YankAWord(time.Now())
	require.True(t, ok)
	require.Equal(t, "quick  ", text)
}

func TestYankInnerQuotes(t *testing.T) {
	r := newTestReader(StringLines{`say "hi there" now`}, 10)
	r.NormalMode.Activate(0, 6)
	text, ok := r.YankInnerQuotes('"', time.Now())
	require.True(t, ok)
	require.Equal(t, "hi there", text)
}

func TestYankInnerBrackets(t *testing.T) {
	r := newTestReader(StringLines{"call(arg1, arg2)"}, 10)
	r.NormalMode.Activate(0, 7)
	text, ok := r.YankInnerBrackets('(', ')', time.Now())
	require.True(t, ok)
	require.Equal(t, "arg1, arg2", text)
}

func TestYankParagraphUp(t *testing.T) {
	r := newTestReader(StringLines{"a", "b", "", "c"}, 10)
	r.NormalMode.Activate(3, 0)
	text, ok := r.YankParagraphUp(1, time.Now())
	require.True(t, ok)
	require.Equal(t, "a\nb\n\nc", text)
}

func TestYankParagraphDown(t *testing.T) {
	r := newTestReader(StringLines{"a", "", "b", "c"}, 10)
	r.NormalMode.Activate(0, 0)
	text, ok := r.YankParagraphDown(1, time.Now())
	require.True(t, ok)
	require.Equal(t, "a\n\nb", text)
}

func TestYankToDocumentTopAndBottom(t *testing.T) {
	r := newTestReader(StringLines{"a", "b", "c"}, 10)
	r.NormalMode.Activate(1, 0)
	text, ok := r.YankToDocumentTop(time.Now())
	require.True(t, ok)
	require.Equal(t, "a\nb", text)

	text, ok = r.YankToDocumentBottom(time.Now())
	require.True(t, ok)
	require.Equal(t, "b\nc", text)
}

func TestYankFindCharWithCount(t *testing.T) {
	r := newTestReader(StringLines{"a,b,c,d"}, 10)
	r.NormalMode.Activate(0, 0)
	text, ok := r.YankFindCharWithCount(PendingCharMotionFindForward, ',', 2, time.Now())
	require.True(t, ok)
	require.Equal(t, "a,b,", text)
}

func TestYankWhenNormalModeInactiveFails(t *testing.T) {
	r := newTestReader(StringLines{"abc"}, 10)
	_, ok := r.YankLine(1, time.Now())
	require.False(t, ok)
}
