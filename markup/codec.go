package markup

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"inkwell/model"
)

// Rich text attributes identifying annotation spans.
const (
	richCommentID   = "data-comment-id"
	richCharacterID = "data-character-id"
	richEventID     = "data-event-id"
	richPending     = "data-pending"
)

// attributes which are pure decoration and never make it back into stored
// content
var decorationAttrs = map[string]bool{
	"class":           true,
	"style":           true,
	"contenteditable": true,
	"spellcheck":      true,
}

// block elements rendered verbatim, no markdown equivalent
var rawBlocks = map[atom.Atom]bool{
	atom.Table:   true,
	atom.Pre:     true,
	atom.Figure:  true,
	atom.Dl:      true,
	atom.Details: true,
}

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Codec converts chapter content between stored structured-markdown and
// editable rich text. Annotation tags survive both directions with their
// identity attributes, decorations are added on the way to rich text only.
type Codec struct {
	dec Decorator
	log *zap.Logger
}

// NewCodec creates codec, decorator may be nil.
func NewCodec(dec Decorator, log *zap.Logger) *Codec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Codec{dec: dec, log: log.Named("codec")}
}

// ToRich converts stored content to rich text. Output is always in
// canonical form - parsed and re-rendered by HTML5 parser.
func (c *Codec) ToRich(structured string) (string, error) {
	var b strings.Builder
	for _, block := range splitBlocks(structured) {
		c.block(&b, block)
	}

	nodes, err := html.ParseFragment(strings.NewReader(b.String()), bodyContext)
	if err != nil {
		return "", fmt.Errorf("unable to parse produced rich text: %w", err)
	}
	var out strings.Builder
	for _, n := range nodes {
		if err := html.Render(&out, n); err != nil {
			return "", fmt.Errorf("unable to render rich text: %w", err)
		}
	}
	return out.String(), nil
}

// splitBlocks splits content on blank lines.
func splitBlocks(content string) [][]string {
	var (
		blocks  [][]string
		current []string
	)
	for line := range strings.SplitSeq(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func (c *Codec) block(b *strings.Builder, lines []string) {
	first := lines[0]

	if level, text, ok := headingLine(first); ok {
		fmt.Fprintf(b, "<h%d>", level)
		c.inline(b, text)
		fmt.Fprintf(b, "</h%d>", level)
		if len(lines) > 1 {
			c.block(b, lines[1:])
		}
		return
	}

	if len(lines) == 1 {
		if t := strings.TrimSpace(first); t == "---" || t == "***" {
			b.WriteString("<hr>")
			return
		}
	}

	if isRawBlock(first) {
		b.WriteString(strings.Join(lines, "\n"))
		return
	}

	if items, ok := allLines(lines, quoteLine); ok {
		b.WriteString("<blockquote>")
		c.inline(b, strings.Join(items, "\n"))
		b.WriteString("</blockquote>")
		return
	}

	for _, list := range []struct {
		tag   string
		match func(string) (string, bool)
	}{{"ul", bulletLine}, {"ol", orderedLine}} {
		if items, ok := allLines(lines, list.match); ok {
			b.WriteString("<" + list.tag + ">")
			for _, item := range items {
				b.WriteString("<li>")
				c.inline(b, item)
				b.WriteString("</li>")
			}
			b.WriteString("</" + list.tag + ">")
			return
		}
	}

	b.WriteString("<p>")
	c.inline(b, strings.Join(lines, "\n"))
	b.WriteString("</p>")
}

func headingLine(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(line) || line[level] != ' ' {
		return 0, "", false
	}
	return level, line[level+1:], true
}

func quoteLine(line string) (string, bool) {
	if !strings.HasPrefix(line, ">") {
		return "", false
	}
	return strings.TrimPrefix(line[1:], " "), true
}

func bulletLine(line string) (string, bool) {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return line[2:], true
	}
	return "", false
}

func orderedLine(line string) (string, bool) {
	i := 0
	for i < len(line) && '0' <= line[i] && line[i] <= '9' {
		i++
	}
	if i == 0 || !strings.HasPrefix(line[i:], ". ") {
		return "", false
	}
	return line[i+2:], true
}

func allLines(lines []string, match func(string) (string, bool)) ([]string, bool) {
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		item, ok := match(l)
		if !ok {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

func isRawBlock(line string) bool {
	if !strings.HasPrefix(line, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(line))
	if tt := z.Next(); tt != html.StartTagToken {
		return false
	}
	name, _ := z.TagName()
	return rawBlocks[atom.Lookup(name)]
}

// inline converts markdown inline syntax and annotation tags of a block to
// rich text.
func (c *Codec) inline(b *strings.Builder, text string) {
	st := &inlineState{b: b}
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())
		switch tt {
		case html.TextToken:
			st.text(raw)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			kind := kindFromTag(string(name))
			if kind == TextNode {
				b.WriteString(raw)
				continue
			}
			n := &Node{Kind: kind}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				switch k := string(key); k {
				case attrID:
					n.ID = string(val)
				case attrPending:
					n.Pending = string(val) != "false"
				default:
					n.Attrs = append(n.Attrs, html.Attribute{Key: k, Val: string(val)})
				}
			}
			c.openSpan(b, n)
			if tt == html.SelfClosingTagToken {
				b.WriteString("</span>")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if kindFromTag(string(name)) != TextNode {
				b.WriteString("</span>")
				continue
			}
			b.WriteString(raw)
		default:
			b.WriteString(raw)
		}
	}
	st.closeAll()
}

func (c *Codec) openSpan(b *strings.Builder, n *Node) {
	var dec Decoration
	if c.dec != nil {
		dec = c.dec.Decorate(n.Kind.Annotation(), n.ID)
	}
	classes := append([]string{baseClass[n.Kind]}, dec.Classes...)

	b.WriteString("<span")
	writeAttr(b, "class", strings.Join(classes, " "))
	switch n.Kind {
	case CommentNode:
		writeAttr(b, richCommentID, n.ID)
	case MentionNode:
		writeAttr(b, richCharacterID, n.ID)
	case EventNode:
		writeAttr(b, richEventID, n.ID)
	}
	if n.Pending {
		writeAttr(b, richPending, "true")
	}
	if dec.Style != "" {
		writeAttr(b, "style", dec.Style)
	}
	for _, a := range n.Attrs {
		writeAttr(b, a.Key, a.Val)
	}
	b.WriteByte('>')
}

type inlineFmt int

const (
	fmtStrong inlineFmt = iota
	fmtEm
	fmtStrike
	fmtCode
)

var fmtTags = [...]string{"strong", "em", "s", "code"}

type inlineState struct {
	b    *strings.Builder
	open []inlineFmt
}

func (st *inlineState) isOpen(f inlineFmt) bool {
	for _, o := range st.open {
		if o == f {
			return true
		}
	}
	return false
}

func (st *inlineState) toggle(f inlineFmt) {
	if !st.isOpen(f) {
		st.open = append(st.open, f)
		st.b.WriteString("<" + fmtTags[f] + ">")
		return
	}
	// close everything above f, close f, reopen the rest
	var reopen []inlineFmt
	for {
		top := st.open[len(st.open)-1]
		st.open = st.open[:len(st.open)-1]
		st.b.WriteString("</" + fmtTags[top] + ">")
		if top == f {
			break
		}
		reopen = append([]inlineFmt{top}, reopen...)
	}
	for _, r := range reopen {
		st.open = append(st.open, r)
		st.b.WriteString("<" + fmtTags[r] + ">")
	}
}

func (st *inlineState) closeAll() {
	for len(st.open) > 0 {
		top := st.open[len(st.open)-1]
		st.open = st.open[:len(st.open)-1]
		st.b.WriteString("</" + fmtTags[top] + ">")
	}
}

func (st *inlineState) text(raw string) {
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch == '\\' && i+1 < len(raw) && isASCIIPunct(raw[i+1]):
			i++
			st.literal(raw[i])
		case ch == '`':
			st.toggle(fmtCode)
		case st.isOpen(fmtCode):
			st.literal(ch)
		case ch == '*':
			n := 1
			for i+n < len(raw) && raw[i+n] == '*' {
				n++
			}
			i += n - 1
			st.stars(n)
		case ch == '~' && i+1 < len(raw) && raw[i+1] == '~':
			i++
			st.toggle(fmtStrike)
		case ch == '\n':
			st.b.WriteString("<br>")
		default:
			st.b.WriteByte(ch)
		}
	}
}

// stars resolves a run of asterisks. Formats already open are closed
// before anything is opened, so "*a***b**" is em followed by strong.
func (st *inlineState) stars(n int) {
	for n > 0 {
		strong, em := st.isOpen(fmtStrong), st.isOpen(fmtEm)
		switch {
		case n >= 3 && strong && em:
			// close in nesting order
			first, second := fmtStrong, fmtEm
			if st.open[len(st.open)-1] == fmtStrong {
				first, second = fmtEm, fmtStrong
			}
			st.toggle(second)
			st.toggle(first)
			n -= 3
		case n >= 3 && em:
			st.toggle(fmtEm)
			n--
		case n >= 3 && strong:
			st.toggle(fmtStrong)
			n -= 2
		case n >= 3:
			st.toggle(fmtStrong)
			st.toggle(fmtEm)
			n -= 3
		case n == 2:
			st.toggle(fmtStrong)
			n -= 2
		default:
			st.toggle(fmtEm)
			n--
		}
	}
}

func (st *inlineState) literal(ch byte) {
	switch ch {
	case '<':
		st.b.WriteString("&lt;")
	case '>':
		st.b.WriteString("&gt;")
	case '&':
		st.b.WriteString("&amp;")
	default:
		st.b.WriteByte(ch)
	}
}

func isASCIIPunct(ch byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", ch) >= 0
}

// ToStructured converts rich text back to stored content. Decoration
// attributes are dropped, annotation spans become annotation tags.
func (c *Codec) ToStructured(rich string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(rich), bodyContext)
	if err != nil {
		return "", fmt.Errorf("unable to parse rich text: %w", err)
	}

	var (
		blocks []string
		loose  strings.Builder
	)
	flush := func() {
		if strings.TrimSpace(loose.String()) != "" {
			blocks = append(blocks, paragraph(loose.String()))
		}
		loose.Reset()
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode && isBlockElement(n.DataAtom) {
			flush()
			if s := c.blockToStructured(n); s != "" {
				blocks = append(blocks, s)
			}
			continue
		}
		c.inlineToStructured(&loose, n)
	}
	flush()
	return strings.Join(blocks, "\n\n"), nil
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Hr, atom.Ul, atom.Ol:
		return true
	}
	return rawBlocks[a]
}

func (c *Codec) blockToStructured(n *html.Node) string {
	switch n.DataAtom {
	case atom.P, atom.Div:
		return paragraph(c.children(n))
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		return strings.Repeat("#", level) + " " + strings.ReplaceAll(c.children(n), "\n", " ")
	case atom.Hr:
		return "---"
	case atom.Blockquote:
		var lines []string
		for _, l := range strings.Split(c.quoteContent(n), "\n") {
			if l != "" {
				lines = append(lines, "> "+l)
			}
		}
		return strings.Join(lines, "\n")
	case atom.Ul, atom.Ol:
		var lines []string
		for li := n.FirstChild; li != nil; li = li.NextSibling {
			if li.Type != html.ElementNode || li.DataAtom != atom.Li {
				continue
			}
			marker := "- "
			if n.DataAtom == atom.Ol {
				marker = fmt.Sprintf("%d. ", len(lines)+1)
			}
			lines = append(lines, marker+strings.ReplaceAll(c.children(li), "\n", " "))
		}
		return strings.Join(lines, "\n")
	}
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		c.log.Warn("Unable to render raw block", zap.String("tag", n.Data), zap.Error(err))
	}
	return b.String()
}

// quoteContent flattens blockquote, nested paragraphs become lines.
func (c *Codec) quoteContent(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && (ch.DataAtom == atom.P || ch.DataAtom == atom.Div) {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(c.children(ch))
			continue
		}
		c.inlineToStructured(&b, ch)
	}
	return b.String()
}

func (c *Codec) children(n *html.Node) string {
	var b strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.inlineToStructured(&b, ch)
	}
	return b.String()
}

// paragraph removes empty lines (they would split the block) and escapes
// line starts which would be taken for block syntax.
func paragraph(text string) string {
	var lines []string
	for l := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, escapeLineStart(l))
	}
	return strings.Join(lines, "\n")
}

func escapeLineStart(line string) string {
	switch {
	case strings.HasPrefix(line, "#"), strings.HasPrefix(line, "-"), strings.HasPrefix(line, "+"):
		return `\` + line
	}
	i := 0
	for i < len(line) && '0' <= line[i] && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && line[i] == '.' {
		return line[:i] + `\` + line[i:]
	}
	return line
}

func (c *Codec) inlineToStructured(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(escapeText(n.Data))
		return
	case html.CommentNode:
		b.WriteString("<!--" + n.Data + "-->")
		return
	case html.ElementNode:
	default:
		return
	}

	wrap := func(pre, post string) {
		b.WriteString(pre)
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			c.inlineToStructured(b, ch)
		}
		b.WriteString(post)
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		wrap("**", "**")
		return
	case atom.Em, atom.I:
		// "*a**b*" would read as strong, touching em runs are merged
		pre, post := "*", "*"
		if isEm(n.PrevSibling) {
			pre = ""
		}
		if isEm(n.NextSibling) {
			post = ""
		}
		wrap(pre, post)
		return
	case atom.S, atom.Del, atom.Strike:
		wrap("~~", "~~")
		return
	case atom.Code:
		wrap("`", "`")
		return
	case atom.Br:
		b.WriteByte('\n')
		return
	case atom.P, atom.Div:
		// nested paragraphs inside of inline context
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			c.inlineToStructured(b, ch)
		}
		return
	}

	if an := annotationFromSpan(n); an != nil {
		b.WriteString(strings.TrimSuffix(an.String(), "</"+an.Kind.tag()+">"))
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			c.inlineToStructured(b, ch)
		}
		b.WriteString("</" + an.Kind.tag() + ">")
		return
	}

	var kept []html.Attribute
	for _, a := range n.Attr {
		if !decorationAttrs[a.Key] {
			kept = append(kept, a)
		}
	}
	if n.DataAtom == atom.Span && len(kept) == 0 {
		// decoration only span
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			c.inlineToStructured(b, ch)
		}
		return
	}

	b.WriteString("<" + n.Data)
	for _, a := range kept {
		writeAttr(b, a.Key, a.Val)
	}
	b.WriteByte('>')
	if isVoid(n.DataAtom) {
		return
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.inlineToStructured(b, ch)
	}
	b.WriteString("</" + n.Data + ">")
}

// annotationFromSpan recognizes annotation span, returned node has no
// children.
func annotationFromSpan(n *html.Node) *Node {
	if n.DataAtom != atom.Span {
		return nil
	}
	an := &Node{Kind: TextNode}
	var rest []html.Attribute
	for _, a := range n.Attr {
		switch a.Key {
		case richCommentID:
			an.Kind, an.ID = CommentNode, a.Val
		case richCharacterID:
			an.Kind, an.ID = MentionNode, a.Val
		case richEventID:
			an.Kind, an.ID = EventNode, a.Val
		case richPending:
			an.Pending = a.Val != "false"
		default:
			if !decorationAttrs[a.Key] {
				rest = append(rest, a)
			}
		}
	}
	if an.Kind == TextNode {
		return nil
	}
	an.Attrs = rest
	return an
}

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Img, atom.Br, atom.Hr, atom.Wbr, atom.Input, atom.Source, atom.Embed:
		return true
	}
	return false
}

// escapeText escapes characters meaningful for stored representation.
func isEm(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && (n.DataAtom == atom.Em || n.DataAtom == atom.I)
}

func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\\', '*', '~', '`':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Rich returns content converted with the codec using decorations computed
// from snapshot.
func Rich(content string, snap *model.Snapshot, activeID string, log *zap.Logger) (string, error) {
	return NewCodec(Decorations(snap, activeID, log), log).ToRich(content)
}

// Paragraphs returns plain text of every block of stored content as a
// reader would see it: no markup, entities decoded, line breaks kept.
func (c *Codec) Paragraphs(structured string) ([]string, error) {
	rich, err := c.ToRich(structured)
	if err != nil {
		return nil, err
	}
	nodes, err := html.ParseFragment(strings.NewReader(rich), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("unable to parse rich text: %w", err)
	}
	var paras []string
	for _, n := range nodes {
		var b strings.Builder
		plainText(&b, n)
		if s := strings.TrimSpace(b.String()); s != "" {
			paras = append(paras, s)
		}
	}
	return paras, nil
}

// PlainText returns reader visible text of stored content, blocks
// separated by empty line.
func (c *Codec) PlainText(structured string) (string, error) {
	paras, err := c.Paragraphs(structured)
	if err != nil {
		return "", err
	}
	return strings.Join(paras, "\n\n"), nil
}

func plainText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteByte('\n')
			return
		case atom.Li, atom.Tr, atom.P, atom.Div:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte('\n')
			}
		case atom.Td, atom.Th:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteByte(' ')
			}
		}
	case html.DocumentNode:
	default:
		return
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		plainText(b, ch)
	}
}
