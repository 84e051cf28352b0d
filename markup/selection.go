package markup

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Selection is a run of whole sibling nodes covering requested range of
// stripped text. Boundaries falling inside annotation tags are widened to
// include the whole tag - annotations are never split.
type Selection struct {
	Parent   *Node
	From, To int // children indices, inclusive
}

// Select locates byte range [start, end) of the stripped text (see Strip)
// splitting text nodes at the boundaries as necessary.
func (n *Node) Select(start, end int) (*Selection, error) {
	total := len(n.Text())
	if start < 0 || end > total || start >= end {
		return nil, fmt.Errorf("range [%d, %d) of %d bytes: %w", start, end, total, ErrBadRange)
	}

	first, err := n.splitAt(start)
	if err != nil {
		return nil, err
	}
	if _, err := n.splitAt(end); err != nil {
		return nil, err
	}

	// leaves fully inside the range
	var leaves []*Node
	pos := 0
	n.Walk(func(c *Node) bool {
		if c.Kind != TextNode {
			return true
		}
		if pos >= start && pos+len(c.Data) <= end && len(c.Data) > 0 {
			leaves = append(leaves, c)
		}
		pos += len(c.Data)
		return true
	})
	if len(leaves) == 0 {
		// should not happen after successful splits
		return nil, fmt.Errorf("nothing selected at %d: %w", first, ErrBadRange)
	}

	a, b := leaves[0], leaves[len(leaves)-1]
	parent := commonAncestor(a, b)
	ca, cb := childOn(parent, a), childOn(parent, b)
	return &Selection{Parent: parent, From: ca.index(), To: cb.index()}, nil
}

// splitAt makes sure there is a text node boundary at offset.
func (n *Node) splitAt(offset int) (int, error) {
	pos := 0
	var target *Node
	n.Walk(func(c *Node) bool {
		if target != nil || c.Kind != TextNode {
			return target == nil
		}
		if pos < offset && offset < pos+len(c.Data) {
			target = c
			return false
		}
		pos += len(c.Data)
		return true
	})
	if target == nil {
		return offset, nil
	}
	at := offset - pos
	if !utf8.RuneStart(target.Data[at]) {
		return 0, fmt.Errorf("offset %d is inside of a character: %w", offset, ErrBadRange)
	}
	if insideMarkup(target.Data, at) {
		return 0, fmt.Errorf("offset %d: %w", offset, ErrSplitMarkup)
	}
	tail := &Node{Kind: TextNode, Data: target.Data[at:], Parent: target.Parent}
	target.Data = target.Data[:at]
	p := target.Parent
	i := target.index()
	p.Children = append(p.Children[:i+1], append([]*Node{tail}, p.Children[i+1:]...)...)
	return offset, nil
}

// insideMarkup reports if position in raw text falls inside of a tag or
// character reference.
func insideMarkup(raw string, at int) bool {
	inTag, inRef := false, false
	for i := 0; i < at; i++ {
		switch ch := raw[i]; {
		case inTag:
			inTag = ch != '>'
		case inRef:
			inRef = ch != ';' && (isAlnum(ch) || ch == '#')
		case ch == '<' && i+1 < len(raw) && (isAlpha(raw[i+1]) || raw[i+1] == '/' || raw[i+1] == '!'):
			inTag = true
		case ch == '&' && i+1 < len(raw) && (isAlnum(raw[i+1]) || raw[i+1] == '#'):
			inRef = true
		}
	}
	return inTag || inRef
}

func isAlpha(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isAlnum(ch byte) bool {
	return isAlpha(ch) || ('0' <= ch && ch <= '9')
}

func commonAncestor(a, b *Node) *Node {
	seen := make(map[*Node]bool)
	for p := a.Parent; p != nil; p = p.Parent {
		seen[p] = true
	}
	for p := b.Parent; p != nil; p = p.Parent {
		if seen[p] {
			return p
		}
	}
	return nil
}

// childOn returns direct child of parent on the path to node.
func childOn(parent, node *Node) *Node {
	for node.Parent != parent {
		node = node.Parent
	}
	return node
}

// Nodes returns selected sibling nodes.
func (s *Selection) Nodes() []*Node {
	return s.Parent.Children[s.From : s.To+1]
}

// String serializes selected nodes.
func (s *Selection) String() string {
	var b strings.Builder
	for _, c := range s.Nodes() {
		c.render(&b)
	}
	return b.String()
}

// Text returns stripped text of selected nodes.
func (s *Selection) Text() string {
	var b strings.Builder
	for _, c := range s.Nodes() {
		b.WriteString(c.Text())
	}
	return b.String()
}

// Inside reports whether selection is nested in annotation of given kind.
func (s *Selection) Inside(kind NodeKind) bool {
	return s.Parent.Kind == kind || s.Parent.HasAncestor(kind)
}

// Wrap moves selected nodes under w and puts w in their place.
func (s *Selection) Wrap(w *Node) {
	nodes := s.Nodes()
	w.Children = make([]*Node, len(nodes))
	copy(w.Children, nodes)
	for _, c := range w.Children {
		c.Parent = w
	}
	w.Parent = s.Parent

	children := make([]*Node, 0, len(s.Parent.Children)-len(nodes)+1)
	children = append(children, s.Parent.Children[:s.From]...)
	children = append(children, w)
	children = append(children, s.Parent.Children[s.To+1:]...)
	s.Parent.Children = children
	s.To = s.From
}
