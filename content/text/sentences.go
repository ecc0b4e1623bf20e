package text

import (
	"iter"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"go.uber.org/zap"
)

// Splitter wraps the neurosnap/sentences tokenizer when trained model data is
// supplied, and otherwise falls back to a simple rule-based splitter. No
// trained model blobs ship with this package, so NewSplitter always builds
// the fallback; callers that have their own punkt-style training data for a
// language can get the more accurate tokenizer via NewSplitterFromTraining.
type Splitter struct {
	tok *sentences.DefaultSentenceTokenizer
}

// NewSplitterFromTraining builds a Splitter from pre-loaded training data, in
// the format produced by sentences.LoadTraining.
func NewSplitterFromTraining(data []byte, log *zap.Logger) *Splitter {
	model, err := sentences.LoadTraining(data)
	if err != nil {
		log.Warn("Unable to load sentence tokenizer training data", zap.Error(err))
		return NewSplitter(log)
	}
	return &Splitter{tok: sentences.NewSentenceTokenizer(model)}
}

// NewSplitter returns a Splitter that uses a rule-based sentence boundary
// detector (split on runs of '.', '!', '?' followed by whitespace), since no
// trained model data is available. Less accurate than the punkt-style
// tokenizer around abbreviations, but needs no external model data.
func NewSplitter(log *zap.Logger) *Splitter {
	if log != nil {
		log.Debug("sentence tokenizer running in rule-based fallback mode; no training data supplied")
	}
	return &Splitter{}
}

// Split returns slice of sentences.
// For memory-efficient streaming, use Sentences iterator instead.
func (s *Splitter) Split(in string) []string {
	var result []string
	for sentence := range s.Sentences(in) {
		result = append(result, sentence)
	}
	return result
}

// Sentences returns an iterator over sentences.
// This is more memory-efficient than Split for large texts as it doesn't
// allocate a slice for all sentences upfront.
func (s *Splitter) Sentences(in string) iter.Seq[string] {
	if s == nil {
		return func(yield func(string) bool) {
			if in != "" {
				yield(in)
			}
		}
	}
	if s.tok != nil {
		return s.trainedSentences(in)
	}
	return fallbackSentences(in)
}

func (s *Splitter) trainedSentences(in string) iter.Seq[string] {
	return func(yield func(string) bool) {
		tokenized := s.tok.Tokenize(in)
		if len(tokenized) == 0 {
			return
		}

		// Sentences tokenizer has a funny way of working - sentence trailing
		// spaces belong to the next sentence. That puts off kepub viewer on Kobo
		// devices. I do not want to change external
		// "github.com/neurosnap/sentences" module - will do careful inplace
		// mockery right here instead.
		for i := 0; i < len(tokenized)-1; i++ {
			text := tokenized[i].Text
			nextText := tokenized[i+1].Text
			for idx, sym := range nextText {
				if !unicode.IsSpace(sym) {
					text = text + nextText[0:idx]
					tokenized[i+1].Text = nextText[idx:]
					break
				}
			}
			if !yield(text) {
				return
			}
		}
		yield(tokenized[len(tokenized)-1].Text)
	}
}

// fallbackSentences splits on runs of '.', '!', '?' followed by whitespace,
// keeping the trailing punctuation and whitespace attached to the sentence
// that precedes the next one (matching the trained tokenizer's boundary
// convention above, so downstream callers see one behavior either way).
func fallbackSentences(in string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if in == "" {
			return
		}

		runes := []rune(in)
		start := 0
		for i := 0; i < len(runes); i++ {
			r := runes[i]
			if r != '.' && r != '!' && r != '?' {
				continue
			}

			j := i
			for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?') {
				j++
			}

			if j >= len(runes) {
				break
			}
			if !unicode.IsSpace(runes[j]) {
				// not a sentence boundary (e.g. decimal point, ellipsis mid-word)
				i = j - 1
				continue
			}

			end := j
			for end < len(runes) && unicode.IsSpace(runes[end]) {
				end++
			}

			if !yield(string(runes[start:end])) {
				return
			}
			start = end
			i = end - 1
		}

		if start < len(runes) {
			yield(string(runes[start:]))
		}
	}
}

// SplitWords returns slice of words.
// For memory-efficient streaming, use Words iterator instead.
func (*Splitter) SplitWords(in string, ignoreNBSP bool) []string {
	var (
		result = []string{}
		word   strings.Builder
	)
	for _, sym := range in {
		if isSeparator(sym, ignoreNBSP) {
			result = append(result, word.String())
			word.Reset()
			continue
		}
		word.WriteRune(sym)
	}
	return append(result, word.String())
}

// Words returns an iterator over words.
// This is more memory-efficient than SplitWords for large texts.
// The ignoreNBSP parameter determines whether NBSP (0xA0) is treated as a separator.
func (*Splitter) Words(in string, ignoreNBSP bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		var word strings.Builder
		for _, sym := range in {
			if isSeparator(sym, ignoreNBSP) {
				if !yield(word.String()) {
					return
				}
				word.Reset()
				continue
			}
			word.WriteRune(sym)
		}
		yield(word.String())
	}
}

func isSeparator(r rune, ignoreNBSP bool) bool {
	if uint32(r) <= unicode.MaxLatin1 {
		switch r {
		// exclude NBSP from the list of white space separators for latin1 symbols
		case '\t', '\n', '\v', '\f', '\r', ' ', 0x85:
			return true
		case 0xA0: // NBSP
			return ignoreNBSP
		}
		return false
	}
	return unicode.IsSpace(r)
}
