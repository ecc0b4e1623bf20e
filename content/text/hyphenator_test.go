package text

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// gzipString compresses s the way the dictionary loader expects its files,
// so tests can exercise loading without shipping real TeX pattern data.
func gzipString(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// withSyntheticDictionaries installs a small in-memory dictionary source for
// the duration of the test, restoring the previous (nil) source afterward.
// The pattern content is a synthetic placeholder, not real linguistic data:
// no hyphenation-pattern dictionaries are shipped with this package (see
// the grounding ledger), so tests exercise the loader's own plumbing rather
// than asserting against real-language golden output.
func withSyntheticDictionaries(t *testing.T) {
	t.Helper()
	pattern := "n1a\na1t\n"
	fsys := fstest.MapFS{
		"dictionaries/hyph-ru.pat.txt.gz":      {Data: gzipString(t, pattern)},
		"dictionaries/hyph-en-us.pat.txt.gz":   {Data: gzipString(t, pattern)},
		"dictionaries/hyph-de-1901.pat.txt.gz": {Data: gzipString(t, pattern)},
		"dictionaries/hyph-de-1996.pat.txt.gz": {Data: gzipString(t, pattern)},
	}
	SetDictionarySource(fsys)
	t.Cleanup(func() { SetDictionarySource(nil) })
}

func TestNewHyphenatorValid(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()

	if h := NewHyphenator(language.English, log); h == nil {
		t.Error("should create hyphenator for English via en-us mapping")
	}
	if h := NewHyphenator(language.Russian, log); h == nil {
		t.Error("should create hyphenator for Russian")
	}
	if h := NewHyphenator(language.German, log); h == nil {
		t.Error("should create hyphenator for German via de-1901 mapping")
	}
}

func TestNewHyphenatorLanguageMapping(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()

	germanTag := language.MustParse("de-DE")
	if h := NewHyphenator(germanTag, log); h == nil {
		t.Error("should create hyphenator for de-DE using language mapping")
	}

	germanAustriaTag := language.MustParse("de-AT")
	if h := NewHyphenator(germanAustriaTag, log); h == nil {
		t.Error("should create hyphenator for de-AT using language mapping")
	}
}

func TestNewHyphenatorUnsupportedLanguage(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()

	unsupported := language.MustParse("zu")
	if h := NewHyphenator(unsupported, log); h != nil {
		t.Error("should return nil for unsupported language")
	}
}

func TestNewHyphenatorNoSourceConfigured(t *testing.T) {
	SetDictionarySource(nil)
	log, _ := zap.NewDevelopment()

	if h := NewHyphenator(language.English, log); h != nil {
		t.Error("should return nil when no dictionary source is configured")
	}
}

func TestHyphenatePublicAPI(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()

	h := NewHyphenator(language.English, log)
	if h == nil {
		t.Fatal("failed to create hyphenator")
	}

	// Exercises the real pattern-matching path; not asserted against an
	// exact golden position since only a synthetic pattern set is loaded.
	_ = h.Hyphenate("hyphenation")
}

func TestHyphenateNilHyphenator(t *testing.T) {
	var h *Hyphenator
	result := h.Hyphenate("test")
	if result != "test" {
		t.Error("nil hyphenator should return input unchanged")
	}
}

func TestHyphenatorEmptyString(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()
	h := NewHyphenator(language.English, log)
	if h == nil {
		t.Fatal("failed to create hyphenator")
	}

	if result := h.Hyphenate(""); result != "" {
		t.Error("empty string should return empty string")
	}
}

func TestHyphenatorSingleCharacter(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()
	h := NewHyphenator(language.English, log)
	if h == nil {
		t.Fatal("failed to create hyphenator")
	}

	if result := h.Hyphenate("a"); result != "a" {
		t.Error("single character should not be hyphenated")
	}
}

func TestHyphenatorNumbers(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()
	h := NewHyphenator(language.English, log)
	if h == nil {
		t.Fatal("failed to create hyphenator")
	}

	if result := h.Hyphenate("12345"); result != "12345" {
		t.Error("numbers should not be hyphenated")
	}
}

func TestHyphenatorMixedContent(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()
	h := NewHyphenator(language.English, log)
	if h == nil {
		t.Fatal("failed to create hyphenator")
	}

	input := "test123test"
	result := h.Hyphenate(input)
	if !strings.Contains(result, "123") {
		t.Error("numbers should remain unchanged in mixed content")
	}
}

func TestHyphenatorSpecialCharacters(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()
	h := NewHyphenator(language.English, log)
	if h == nil {
		t.Fatal("failed to create hyphenator")
	}

	input := "hello! world?"
	result := h.Hyphenate(input)
	if !strings.Contains(result, "!") || !strings.Contains(result, "?") {
		t.Error("special characters should be preserved")
	}
}

func TestHyphenatorPunctuation(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()
	h := NewHyphenator(language.English, log)
	if h == nil {
		t.Fatal("failed to create hyphenator")
	}

	input := "word, word; word."
	result := h.Hyphenate(input)
	if !strings.Contains(result, ",") || !strings.Contains(result, ";") || !strings.Contains(result, ".") {
		t.Error("punctuation should be preserved")
	}
}

func TestHyphenatorUnicodeText(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()

	h := NewHyphenator(language.Russian, log)
	if h == nil {
		t.Fatal("failed to create Russian hyphenator")
	}

	if result := h.Hyphenate("привет"); result == "" {
		t.Error("should handle Cyrillic text")
	}
}

func TestHyphenatorVeryShortWords(t *testing.T) {
	withSyntheticDictionaries(t)
	log, _ := zap.NewDevelopment()
	h := NewHyphenator(language.English, log)
	if h == nil {
		t.Fatal("failed to create hyphenator")
	}

	if twoChar := h.Hyphenate("at"); strings.Contains(twoChar, SOFTHYPHEN) {
		t.Error("two character words should not be hyphenated")
	}
	if threeChar := h.Hyphenate("the"); strings.Contains(threeChar, SOFTHYPHEN) {
		t.Error("three character words should not be hyphenated")
	}
}

func TestHyphenatorLoadDictionaryError(t *testing.T) {
	h := &hyph{}

	err := h.loadDictionary("test-lang", strings.NewReader(""), strings.NewReader(""))
	if err != nil {
		t.Errorf("loading empty patterns should not error: %v", err)
	}

	if h.patterns == nil {
		t.Error("patterns trie should be initialized")
	}

	if h.exceptions == nil {
		t.Error("exceptions map should be initialized")
	}
}

func TestHyphenatorReloadDictionary(t *testing.T) {
	h := &hyph{}

	err := h.loadDictionary("lang1", strings.NewReader("a1b"), strings.NewReader(""))
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}

	firstSize := h.patterns.size()

	err = h.loadDictionary("lang2", strings.NewReader("c2d"), strings.NewReader(""))
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	if h.language != "lang2" {
		t.Error("language should be updated")
	}

	if h.patterns == nil {
		t.Error("patterns should be reinitialized")
	}

	err = h.loadDictionary("lang2", strings.NewReader("e3f"), strings.NewReader(""))
	if err != nil {
		t.Fatalf("reload same language failed: %v", err)
	}

	if h.patterns.size() == firstSize {
		t.Log("same language reload kept existing patterns (expected behavior)")
	}
}

func TestHyphenatorExceptionsOverridePatterns(t *testing.T) {
	h := &hyph{}
	if err := h.loadDictionary("test-lang", strings.NewReader("n1a"), strings.NewReader("pre-sent")); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	result := h.hyphString("present", "-")
	if result != "pre-sent" {
		t.Errorf("exception entry should be used verbatim, got %q", result)
	}
}
