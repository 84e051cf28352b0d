package markup

import (
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"inkwell/model"
)

func TestDecorations(t *testing.T) {
	snap := &model.Snapshot{
		Characters: []model.Character{
			{ID: "alice", Name: "Alice", Color: "#ff0000"},
			{ID: "bob", Name: "Bob", Color: "red; background: url(x)"},
		},
		Comments: []model.Comment{
			{ID: "c1", IsHidden: true},
			{ID: "c2", IsSuggestion: true, IsPreviewing: true},
		},
		Events: []model.Event{{ID: "e1", Title: "Battle"}},
	}
	dec := Decorations(snap, "c2", zaptest.NewLogger(t))

	tests := []struct {
		name    string
		kind    model.AnnotationKind
		id      string
		classes []string
		style   string
	}{
		{"mention color", model.AnnotationKindMention, "alice", nil, "color: #ff0000"},
		{"unsafe color dropped", model.AnnotationKindMention, "bob", nil, ""},
		{"hidden comment", model.AnnotationKindComment, "c1", []string{"comment-hidden"}, ""},
		{"active previewed suggestion", model.AnnotationKindComment, "c2", []string{"comment-suggestion", "suggestion-preview", "active"}, ""},
		{"event", model.AnnotationKindEvent, "e1", nil, ""},
		{"dangling", model.AnnotationKindMention, "ghost", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dec.Decorate(tt.kind, tt.id)
			if !slices.Equal(d.Classes, tt.classes) {
				t.Errorf("classes = %v, want %v", d.Classes, tt.classes)
			}
			if d.Style != tt.style {
				t.Errorf("style = %q, want %q", d.Style, tt.style)
			}
		})
	}
}

func TestSanitizeColor(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"#abc", true},
		{"#336699", true},
		{"rebeccapurple", true},
		{"rgb(10, 20, 30)", true},
		{"hsla(120, 50%, 50%, 0.3)", true},
		{"", false},
		{"red blue", false},
		{"red; color: blue", false},
		{"url(javascript:x)", false},
		{"expression(alert(1))", false},
		{"rgb(1,2,3) red", false},
		{`"quoted"`, false},
	}
	for _, tt := range tests {
		if _, ok := sanitizeColor(tt.in); ok != tt.ok {
			t.Errorf("sanitizeColor(%q) = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

func TestDecorationsAreProjection(t *testing.T) {
	snap := &model.Snapshot{Characters: []model.Character{{ID: "a", Color: "blue"}}}
	c := NewCodec(Decorations(snap, "", zaptest.NewLogger(t)), zaptest.NewLogger(t))
	in := `<mention id="a">A</mention>`

	rich, err := c.ToRich(in)
	if err != nil {
		t.Fatalf("ToRich: %v", err)
	}
	if want := `<p><span class="character-mention" data-character-id="a" style="color: blue">A</span></p>`; rich != want {
		t.Errorf("got %q, want %q", rich, want)
	}

	snap.Characters[0].Color = "green"
	rich, err = Rich(in, snap, "", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Rich: %v", err)
	}
	if want := `<p><span class="character-mention" data-character-id="a" style="color: green">A</span></p>`; rich != want {
		t.Errorf("got %q, want %q", rich, want)
	}
}
