package cleantext

import (
	"iter"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
)

// Splitter breaks prose into sentences and words.
type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// NewSplitter loads english tokenizer model. On failure nil is returned
// and every text is treated as a single sentence.
func NewSplitter(log *zap.Logger) *Splitter {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		log.Warn("Unable to load sentences tokenizer data, turning off sentence splitting", zap.Error(err))
		return nil
	}
	return &Splitter{tokenizer}
}

// Split returns slice of sentences. Trailing spaces stay with the sentence
// they follow.
func (s *Splitter) Split(in string) []string {
	var sentences []string
	if s == nil {
		return append(sentences, in)
	}

	for _, sentence := range s.Tokenize(in) {
		sentences = append(sentences, sentence.Text)
	}

	// tokenizer attaches spaces to the beginning of the next sentence
	for i := range len(sentences) - 1 {
		for idx, sym := range sentences[i+1] {
			if !unicode.IsSpace(sym) {
				sentences[i] = sentences[i] + sentences[i+1][0:idx]
				sentences[i+1] = sentences[i+1][idx:]
				break
			}
		}
	}
	return sentences
}

// Words returns an iterator over non empty words. NBSP does not separate
// words.
func Words(in string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i, sym := range in {
			if isSeparator(sym) {
				if start >= 0 {
					if !yield(in[start:i]) {
						return
					}
					start = -1
				}
				continue
			}
			if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			yield(in[start:])
		}
	}
}

func isSeparator(r rune) bool {
	if uint32(r) <= unicode.MaxLatin1 {
		switch r {
		case '\t', '\n', '\v', '\f', '\r', ' ', 0x85:
			return true
		}
		return false
	}
	return unicode.IsSpace(r)
}
