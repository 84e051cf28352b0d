package markup

import (
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"inkwell/model"
)

func TestToRich(t *testing.T) {
	c := NewCodec(nil, zaptest.NewLogger(t))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraph", "Hello **world**", "<p>Hello <strong>world</strong></p>"},
		{"emphasis", "*soft* and ~~gone~~ and `code`", "<p><em>soft</em> and <s>gone</s> and <code>code</code></p>"},
		{"both", "***both***", "<p><strong><em>both</em></strong></p>"},
		{"line break", "line1\nline2", "<p>line1<br/>line2</p>"},
		{"blocks", "# Title\n\nText", "<h1>Title</h1><p>Text</p>"},
		{"heading followed by text", "## Sub\nText", "<h2>Sub</h2><p>Text</p>"},
		{"bullets", "- one\n- two", "<ul><li>one</li><li>two</li></ul>"},
		{"ordered", "1. one\n2. two", "<ol><li>one</li><li>two</li></ol>"},
		{"quote", "> quoted\n> more", "<blockquote>quoted<br/>more</blockquote>"},
		{"rule", "---", "<hr/>"},
		{"escapes", `2 \* 3 &lt; 4`, "<p>2 * 3 &lt; 4</p>"},
		{"unclosed emphasis", "*open", "<p><em>open</em></p>"},
		{"em then strong", "*a***b**", "<p><em>a</em><strong>b</strong></p>"},
		{"strong then em", "**a***b*", "<p><strong>a</strong><em>b</em></p>"},
		{"strong inside em", "*a **b** c*", "<p><em>a <strong>b</strong> c</em></p>"},
		{"mention", `<mention id="m1">Bob</mention> smiled`, `<p><span class="character-mention" data-character-id="m1">Bob</span> smiled</p>`},
		{"pending event", `<event id="e1" pending="true">x</event>`, `<p><span class="event-marker" data-event-id="e1" data-pending="true">x</span></p>`},
		{"comment around mention", `<comment id="c1">Hi <mention id="m1">Bob</mention></comment>`, `<p><span class="comment-highlight" data-comment-id="c1">Hi <span class="character-mention" data-character-id="m1">Bob</span></span></p>`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ToRich(tt.in)
			if err != nil {
				t.Fatalf("ToRich: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToRich(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToStructured(t *testing.T) {
	c := NewCodec(nil, zaptest.NewLogger(t))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraphs", "<p>One</p><p>Two</p>", "One\n\nTwo"},
		{"formatting", "<p><b>bold</b> <i>it</i> <del>x</del></p>", "**bold** *it* ~~x~~"},
		{"touching em merged", "<p><em>a</em><em>b</em></p>", "*ab*"},
		{"em then strong", "<p><em>a</em><strong>b</strong></p>", "*a***b**"},
		{"decorated mention", `<p><span class="character-mention active" data-character-id="m1" style="color: red">Bob</span> smiled</p>`, `<mention id="m1">Bob</mention> smiled`},
		{"pending event", `<span class="event-marker" data-event-id="e1" data-pending="true">x</span>`, `<event id="e1" pending="true">x</event>`},
		{"decoration only span", `<p><span style="color:red">hi</span></p>`, "hi"},
		{"escaping", "<p>2 * 3 &lt; 4</p>", `2 \* 3 &lt; 4`},
		{"line start", "<p>- not a list</p>", `\- not a list`},
		{"numbered line start", "<p>1. not a list</p>", `1\. not a list`},
		{"loose text", "hello <b>there</b>", "hello **there**"},
		{"empty paragraphs skipped", "<p></p><p>x</p><p> </p>", "x"},
		{"lists", "<ul><li>a</li><li>b</li></ul><ol><li>c</li></ol>", "- a\n- b\n\n1. c"},
		{"heading", "<h3>Three</h3>", "### Three"},
		{"quote", "<blockquote><p>one</p><p>two</p></blockquote>", "> one\n> two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ToStructured(tt.in)
			if err != nil {
				t.Fatalf("ToStructured: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToStructured(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	snap := &model.Snapshot{
		Characters: []model.Character{{ID: "m1", Name: "Bob", Color: "#336699"}},
		Comments:   []model.Comment{{ID: "c1", Text: "note", IsSuggestion: true}},
	}
	c := NewCodec(Decorations(snap, "c1", zaptest.NewLogger(t)), zaptest.NewLogger(t))

	inputs := []string{
		"# Chapter One\n\nHello **bold** and *em* <mention id=\"m1\">Bob</mention>\n\n- a\n- b\n\n> quote",
		`<comment id="c1">Some <mention id="m1">Bob</mention> text</comment> and <event id="e" pending="true">more</event>`,
		"***both*** ~~strike~~ `code`\nsecond line",
		`Escaped \* star and \# hash`,
		"1. first\n2. second\n\n---\n\nTail & <u>raw</u>",
		"*a***b**",
		"**a****b**",
		"*a****b***",
		`*a***<comment id="c1">b</comment>**`,
	}
	for _, in := range inputs {
		rich, err := c.ToRich(in)
		if err != nil {
			t.Fatalf("ToRich(%q): %v", in, err)
		}
		structured, err := c.ToStructured(rich)
		if err != nil {
			t.Fatalf("ToStructured(%q): %v", rich, err)
		}
		again, err := c.ToRich(structured)
		if err != nil {
			t.Fatalf("ToRich(%q): %v", structured, err)
		}
		if again != rich {
			t.Errorf("round trip mismatch for %q\nfirst  %q\nsecond %q", in, rich, again)
		}
	}
}

func TestCodecRichRoundTrip(t *testing.T) {
	c := NewCodec(nil, zaptest.NewLogger(t))

	tests := []struct {
		in   string
		want string
	}{
		{"<p><em>a</em><strong>b</strong></p>", "<p><em>a</em><strong>b</strong></p>"},
		{"<p><strong>a</strong><strong>b</strong></p>", "<p><strong>a</strong><strong>b</strong></p>"},
		{"<p><em>a</em><em>b</em></p>", "<p><em>ab</em></p>"},
		{`<p><em>a</em><strong><span class="comment-highlight" data-comment-id="c1">b</span></strong></p>`,
			`<p><em>a</em><strong><span class="comment-highlight" data-comment-id="c1">b</span></strong></p>`},
	}
	for _, tt := range tests {
		structured, err := c.ToStructured(tt.in)
		if err != nil {
			t.Fatalf("ToStructured(%q): %v", tt.in, err)
		}
		got, err := c.ToRich(structured)
		if err != nil {
			t.Fatalf("ToRich(%q): %v", structured, err)
		}
		if got != tt.want {
			t.Errorf("%q via %q\n got %q\nwant %q", tt.in, structured, got, tt.want)
		}
	}
}

func TestCodecKeepsAnnotationIdentity(t *testing.T) {
	c := NewCodec(nil, zaptest.NewLogger(t))
	in := `<comment id="c1">Hi <mention id="m1">Bob</mention></comment> <event id="e1">then</event>`

	rich, err := c.ToRich(in)
	if err != nil {
		t.Fatalf("ToRich: %v", err)
	}
	out, err := c.ToStructured(rich)
	if err != nil {
		t.Fatalf("ToStructured: %v", err)
	}
	if out != in {
		t.Errorf("got %q, want %q", out, in)
	}
	for _, kind := range []model.AnnotationKind{model.AnnotationKindComment, model.AnnotationKindMention, model.AnnotationKindEvent} {
		if a, b := IDs(in, kind), IDs(out, kind); !slices.Equal(a, b) {
			t.Errorf("%s ids changed: %v -> %v", kind, a, b)
		}
	}
}

func TestPlainText(t *testing.T) {
	c := NewCodec(nil, zaptest.NewLogger(t))

	got, err := c.PlainText("Hello **world** &amp; <mention id=\"m\">Bob</mention>\n\n- one\n- two\n\nline1\nline2")
	if err != nil {
		t.Fatalf("PlainText: %v", err)
	}
	want := "Hello world & Bob\n\none\ntwo\n\nline1\nline2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	paras, err := c.Paragraphs("a\n\n\n\nb")
	if err != nil {
		t.Fatalf("Paragraphs: %v", err)
	}
	if !slices.Equal(paras, []string{"a", "b"}) {
		t.Errorf("Paragraphs = %q", paras)
	}
}
