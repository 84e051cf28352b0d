// Package markup handles annotation tags embedded in chapter content: the
// stored tag tree, conversion between stored (structured-markdown) and
// editable (rich text) representations, and render time decorations.
//
// Only three tag kinds are structured, everything else (text, formatting
// markup, entities) is kept byte for byte inside text nodes.
package markup

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"inkwell/model"
)

// NodeKind identifies node in the stored content tree.
type NodeKind int

const (
	RootNode NodeKind = iota
	TextNode
	CommentNode
	MentionNode
	EventNode
)

const (
	tagComment = "comment"
	tagMention = "mention"
	tagEvent   = "event"

	attrID      = "id"
	attrPending = "pending"
)

var (
	ErrBadRange    = errors.New("selection is out of content bounds")
	ErrSplitMarkup = errors.New("selection boundary splits formatting markup")
)

// KindOf maps annotation kind to tree node kind.
func KindOf(k model.AnnotationKind) NodeKind {
	switch k {
	case model.AnnotationKindComment:
		return CommentNode
	case model.AnnotationKindMention:
		return MentionNode
	case model.AnnotationKindEvent:
		return EventNode
	}
	return TextNode
}

// Annotation maps node kind back to annotation kind.
func (k NodeKind) Annotation() model.AnnotationKind {
	switch k {
	case CommentNode:
		return model.AnnotationKindComment
	case MentionNode:
		return model.AnnotationKindMention
	case EventNode:
		return model.AnnotationKindEvent
	}
	return ""
}

func (k NodeKind) tag() string {
	switch k {
	case CommentNode:
		return tagComment
	case MentionNode:
		return tagMention
	case EventNode:
		return tagEvent
	}
	return ""
}

func kindFromTag(name string) NodeKind {
	switch name {
	case tagComment:
		return CommentNode
	case tagMention:
		return MentionNode
	case tagEvent:
		return EventNode
	}
	return TextNode
}

// Node of the stored content tree. Text nodes keep raw source in Data.
type Node struct {
	Kind     NodeKind
	Data     string
	ID       string
	Pending  bool
	Attrs    []html.Attribute
	Parent   *Node
	Children []*Node
}

// NewAnnotation creates detached annotation node.
func NewAnnotation(kind model.AnnotationKind, id string, pending bool) *Node {
	return &Node{Kind: KindOf(kind), ID: id, Pending: pending}
}

// IsAnnotation reports whether node is one of reserved tags.
func (n *Node) IsAnnotation() bool {
	return n.Kind == CommentNode || n.Kind == MentionNode || n.Kind == EventNode
}

// Parse builds content tree. It never fails: unknown or stray tags are
// kept as text, unclosed annotation tags are closed at the end of input.
func Parse(content string) *Node {
	root := &Node{Kind: RootNode}
	cur := root

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF, tokenizer does not report anything else for string readers
			break
		}
		// TagName lowercases in place, keep raw copy first
		raw := string(z.Raw())
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			kind := kindFromTag(string(name))
			if kind == TextNode {
				cur.appendText(raw)
				continue
			}
			n := &Node{Kind: kind, Parent: cur}
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
			cur.Children = append(cur.Children, n)
			if tt == html.StartTagToken {
				cur = n
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			kind := kindFromTag(string(name))
			if kind == TextNode {
				cur.appendText(raw)
				continue
			}
			closed := false
			for p := cur; p != nil && p.Kind != RootNode; p = p.Parent {
				if p.Kind == kind {
					cur, closed = p.Parent, true
					break
				}
			}
			if !closed {
				cur.appendText(raw)
			}
		default:
			cur.appendText(raw)
		}
	}
	return root
}

func (n *Node) appendText(raw string) {
	if l := len(n.Children); l > 0 && n.Children[l-1].Kind == TextNode {
		n.Children[l-1].Data += raw
		return
	}
	n.Children = append(n.Children, &Node{Kind: TextNode, Data: raw, Parent: n})
}

// String serializes the tree back to stored representation. Attributes of
// annotation tags are written in canonical order: id, pending, the rest.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	switch n.Kind {
	case TextNode:
		b.WriteString(n.Data)
		return
	case RootNode:
	default:
		b.WriteByte('<')
		b.WriteString(n.Kind.tag())
		if n.ID != "" {
			writeAttr(b, attrID, n.ID)
		}
		if n.Pending {
			writeAttr(b, attrPending, "true")
		}
		for _, a := range n.Attrs {
			writeAttr(b, a.Key, a.Val)
		}
		b.WriteByte('>')
	}
	for _, c := range n.Children {
		c.render(b)
	}
	if n.IsAnnotation() {
		b.WriteString("</")
		b.WriteString(n.Kind.tag())
		b.WriteByte('>')
	}
}

func writeAttr(b *strings.Builder, key, val string) {
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(val))
	b.WriteByte('"')
}

// Text returns content of the subtree with all annotation tags removed.
func (n *Node) Text() string {
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Kind == TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Walk visits subtree in document order, returning false from fn skips
// children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns all annotation nodes of requested kind with matching id,
// empty id matches any.
func (n *Node) Find(kind NodeKind, id string) []*Node {
	var found []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == kind && (id == "" || c.ID == id) {
			found = append(found, c)
		}
		return true
	})
	return found
}

// HasAncestor checks if node is nested inside annotation of given kind.
func (n *Node) HasAncestor(kind NodeKind) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

func (n *Node) index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// Unwrap removes annotation tag keeping its children in place.
func (n *Node) Unwrap() {
	p := n.Parent
	i := n.index()
	if i < 0 {
		return
	}
	for _, c := range n.Children {
		c.Parent = p
	}
	children := make([]*Node, 0, len(p.Children)-1+len(n.Children))
	children = append(children, p.Children[:i]...)
	children = append(children, n.Children...)
	children = append(children, p.Children[i+1:]...)
	p.Children = children
	n.Parent, n.Children = nil, nil
	p.normalize()
}

// ReplaceWith puts nodes in place of n.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.Parent
	i := n.index()
	if i < 0 {
		return
	}
	for _, c := range nodes {
		c.Parent = p
	}
	children := make([]*Node, 0, len(p.Children)-1+len(nodes))
	children = append(children, p.Children[:i]...)
	children = append(children, nodes...)
	children = append(children, p.Children[i+1:]...)
	p.Children = children
	n.Parent = nil
	p.normalize()
}

// ReplaceWithText replaces whole node (tag and content) with raw text.
func (n *Node) ReplaceWithText(raw string) {
	n.ReplaceWith(&Node{Kind: TextNode, Data: raw})
}

// Inner serializes children of the node.
func (n *Node) Inner() string {
	var b strings.Builder
	for _, c := range n.Children {
		c.render(&b)
	}
	return b.String()
}

// SetText replaces children of the node with single text node.
func (n *Node) SetText(raw string) {
	n.Children = []*Node{{Kind: TextNode, Data: raw, Parent: n}}
}

// normalize merges adjacent text nodes and drops empty ones.
func (n *Node) normalize() {
	out := n.Children[:0]
	for _, c := range n.Children {
		if c.Kind == TextNode {
			if c.Data == "" {
				continue
			}
			if l := len(out); l > 0 && out[l-1].Kind == TextNode {
				out[l-1].Data += c.Data
				continue
			}
		}
		out = append(out, c)
	}
	n.Children = out
}

// Strip removes all annotation tags from content keeping inner text,
// ordinary formatting markup is left untouched.
func Strip(content string) string {
	return Parse(content).Text()
}

// UnwrapAll removes every annotation tag of the kind with given id and
// returns new content and number of removed tags.
func UnwrapAll(content string, kind model.AnnotationKind, id string) (string, int) {
	root := Parse(content)
	found := root.Find(KindOf(kind), id)
	for _, n := range found {
		n.Unwrap()
	}
	if len(found) == 0 {
		return content, 0
	}
	return root.String(), len(found)
}

// IDs returns ids of annotations of the kind in document order, duplicates
// included.
func IDs(content string, kind model.AnnotationKind) []string {
	var ids []string
	for _, n := range Parse(content).Find(KindOf(kind), "") {
		if n.ID != "" {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func (k NodeKind) String() string {
	switch k {
	case RootNode:
		return "root"
	case TextNode:
		return "text"
	}
	return k.tag()
}

func (n *Node) GoString() string {
	return fmt.Sprintf("%s[%q]%q", n.Kind, n.ID, n.Text())
}
