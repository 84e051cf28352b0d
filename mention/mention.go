// Package mention finds, creates and indexes character mention tags in
// chapter content.
package mention

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"inkwell/markup"
	"inkwell/model"
)

// DefaultPunctuation delimits words for auto tagging together with white
// space.
const DefaultPunctuation = `.,;:!?"'()[]{}<>/-–—…“”‘’«»`

// DetectTrigger returns query typed after the nearest unescaped '@' in text
// preceding cursor. Whitespace between '@' and cursor cancels the trigger.
func DetectTrigger(before string) (string, bool) {
	for i := len(before); i > 0; {
		r, size := utf8.DecodeLastRuneInString(before[:i])
		i -= size
		if unicode.IsSpace(r) {
			return "", false
		}
		if r == '@' && (i == 0 || before[i-1] != '\\') {
			return before[i+1:], true
		}
	}
	return "", false
}

// ExtractMentionedIDs returns ids of mentioned characters in order of the
// first appearance.
func ExtractMentionedIDs(content string) []string {
	var ids []string
	for _, id := range markup.IDs(content, model.AnnotationKindMention) {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

type term struct {
	text string
	id   string
}

// Tagger wraps known character names found in untagged text into mention
// tags.
type Tagger struct {
	terms []term
	punct string
}

// NewTagger prepares matching terms: names and nicknames ordered longest
// first, equal lengths keep character list order with name ahead of
// nicknames. Empty punct selects DefaultPunctuation.
func NewTagger(characters []model.Character, punct string) *Tagger {
	if punct == "" {
		punct = DefaultPunctuation
	}
	var terms []term
	for _, c := range characters {
		for _, t := range append([]string{c.Name}, c.Nicknames...) {
			if t = strings.TrimSpace(t); t != "" {
				terms = append(terms, term{text: t, id: c.ID})
			}
		}
	}
	slices.SortStableFunc(terms, func(a, b term) int {
		return len(b.text) - len(a.text)
	})
	return &Tagger{terms: terms, punct: punct}
}

// AutoTag returns content with new mention tags and number of tags added.
// Text already inside mention tags is never scanned, neither is markup.
func AutoTag(content string, characters []model.Character) (string, int) {
	return NewTagger(characters, "").Tag(content)
}

// Tag is AutoTag with tagger settings.
func (t *Tagger) Tag(content string) (string, int) {
	if len(t.terms) == 0 {
		return content, 0
	}

	root := markup.Parse(content)
	var texts []*markup.Node
	root.Walk(func(n *markup.Node) bool {
		switch n.Kind {
		case markup.MentionNode:
			return false
		case markup.TextNode:
			texts = append(texts, n)
		}
		return true
	})

	total := 0
	for _, n := range texts {
		nodes, count := t.tagText(n.Data)
		if count == 0 {
			continue
		}
		n.ReplaceWith(nodes...)
		total += count
	}
	if total == 0 {
		return content, 0
	}
	return root.String(), total
}

// tagText splits raw text into text and mention nodes. Only runs between
// tags are matched, tag edges are word boundaries.
func (t *Tagger) tagText(raw string) ([]*markup.Node, int) {
	var (
		nodes []*markup.Node
		count int
		last  int
	)
	for _, seg := range textRuns(raw) {
		for pos := seg[0]; pos < seg[1]; {
			if !t.boundaryBefore(raw, seg[0], pos) {
				_, size := utf8.DecodeRuneInString(raw[pos:])
				pos += size
				continue
			}
			tm, ok := t.match(raw[pos:seg[1]])
			if !ok {
				_, size := utf8.DecodeRuneInString(raw[pos:])
				pos += size
				continue
			}
			if last < pos {
				nodes = append(nodes, &markup.Node{Kind: markup.TextNode, Data: raw[last:pos]})
			}
			m := &markup.Node{Kind: markup.MentionNode, ID: tm.id}
			m.SetText(tm.text)
			nodes = append(nodes, m)
			count++
			pos += len(tm.text)
			last = pos
		}
	}
	if count == 0 {
		return nil, 0
	}
	if last < len(raw) {
		nodes = append(nodes, &markup.Node{Kind: markup.TextNode, Data: raw[last:]})
	}
	return nodes, count
}

func (t *Tagger) match(s string) (term, bool) {
	for _, tm := range t.terms {
		if !strings.HasPrefix(s, tm.text) {
			continue
		}
		rest := s[len(tm.text):]
		for _, possessive := range []string{"'s", "’s"} {
			if after, ok := strings.CutPrefix(rest, possessive); ok && t.boundaryAt(after) {
				return tm, true
			}
		}
		if t.boundaryAt(rest) {
			return tm, true
		}
	}
	return term{}, false
}

func (t *Tagger) isBoundary(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(t.punct, r)
}

// boundaryAt checks the start of the rest of the run.
func (t *Tagger) boundaryAt(rest string) bool {
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return t.isBoundary(r) || r == '&'
}

func (t *Tagger) boundaryBefore(raw string, start, pos int) bool {
	if pos == start {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(raw[:pos])
	return t.isBoundary(r) || r == ';'
}

// textRuns returns [start, end) byte ranges of raw text between tags.
func textRuns(raw string) [][2]int {
	var (
		runs  [][2]int
		start int
	)
	for i := 0; i < len(raw); i++ {
		if raw[i] != '<' || i+1 >= len(raw) {
			continue
		}
		if next := raw[i+1]; !isTagStart(next) {
			continue
		}
		end := strings.IndexByte(raw[i:], '>')
		if end < 0 {
			break
		}
		if start < i {
			runs = append(runs, [2]int{start, i})
		}
		i += end
		start = i + 1
	}
	if start < len(raw) {
		runs = append(runs, [2]int{start, len(raw)})
	}
	return runs
}

func isTagStart(ch byte) bool {
	return ch == '/' || ch == '!' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}
