// Package cleantext projects chapter content without annotation markup and
// computes reader facing statistics over it.
package cleantext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"inkwell/markup"
	"inkwell/model"
)

// Default reading speeds, words per minute.
const (
	FastWPM = 300
	SlowWPM = 150
)

// StripAnnotations removes comment, mention and event tags keeping their
// inner text. Formatting markup is left alone.
func StripAnnotations(content string) string {
	return markup.Strip(content)
}

// ReadingTime renders reading time bucket for the word count, a single
// value when both speeds give the same number of minutes and a range
// otherwise.
func ReadingTime(words, fast, slow int) string {
	if fast <= 0 {
		fast = FastWPM
	}
	if slow <= 0 {
		slow = SlowWPM
	}
	if words <= 0 {
		return "0 min"
	}
	lo, hi := ceilDiv(words, fast), ceilDiv(words, slow)
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return fmt.Sprintf("%d min", lo)
	}
	return fmt.Sprintf("%d-%d min", lo, hi)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Stats of clean text.
type Stats struct {
	Words       int    `yaml:"words"`
	Characters  int    `yaml:"characters"`
	Sentences   int    `yaml:"sentences"`
	ReadingTime string `yaml:"reading_time"`
}

// ChapterStats are statistics of a single chapter.
type ChapterStats struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Stats `yaml:",inline"`
}

// Projector computes clean text projections.
type Projector struct {
	fast, slow int
	splitter   *Splitter
	codec      *markup.Codec
	log        *zap.Logger
}

// NewProjector creates projector with reading speeds, non positive values
// select defaults.
func NewProjector(fastWPM, slowWPM int, log *zap.Logger) *Projector {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("cleantext")
	if fastWPM <= 0 {
		fastWPM = FastWPM
	}
	if slowWPM <= 0 {
		slowWPM = SlowWPM
	}
	return &Projector{
		fast:     fastWPM,
		slow:     slowWPM,
		splitter: NewSplitter(log),
		codec:    markup.NewCodec(nil, log),
		log:      log,
	}
}

// Stats counts words (whitespace delimited tokens of stripped content),
// characters of stripped content and sentences of the reader visible text.
func (p *Projector) Stats(content string) (Stats, error) {
	stripped := StripAnnotations(content)

	var st Stats
	for range Words(stripped) {
		st.Words++
	}
	st.Characters = utf8.RuneCountInString(stripped)
	st.ReadingTime = ReadingTime(st.Words, p.fast, p.slow)

	paras, err := p.codec.Paragraphs(stripped)
	if err != nil {
		return Stats{}, fmt.Errorf("unable to get plain text: %w", err)
	}
	for _, para := range paras {
		for _, s := range p.splitter.Split(para) {
			if strings.TrimSpace(s) != "" {
				st.Sentences++
			}
		}
	}
	return st, nil
}

// Document returns per chapter statistics and totals for all chapters.
func (p *Projector) Document(chapters []model.Chapter) ([]ChapterStats, Stats, error) {
	var (
		out   = make([]ChapterStats, 0, len(chapters))
		total Stats
	)
	for _, ch := range chapters {
		st, err := p.Stats(ch.Content)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("chapter %q: %w", ch.ID, err)
		}
		out = append(out, ChapterStats{ID: ch.ID, Title: ch.Title, Stats: st})
		total.Words += st.Words
		total.Characters += st.Characters
		total.Sentences += st.Sentences
	}
	total.ReadingTime = ReadingTime(total.Words, p.fast, p.slow)
	p.log.Debug("Document statistics", zap.Int("chapters", len(chapters)), zap.Int("words", total.Words))
	return out, total, nil
}

// Preview returns rich text of content with all annotations removed.
func (p *Projector) Preview(content string) (string, error) {
	return p.codec.ToRich(StripAnnotations(content))
}

// PlainText returns reader visible text of content without any markup.
func (p *Projector) PlainText(content string) (string, error) {
	return p.codec.PlainText(StripAnnotations(content))
}
