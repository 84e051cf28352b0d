package fb2

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap/zaptest"

	"inkwell/model"
)

func texts(elems []*etree.Element) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, e.Text())
	}
	return out
}

func manuscript() *model.Snapshot {
	snap := model.NewSnapshot()
	snap.Characters = append(snap.Characters,
		model.Character{ID: "c2", Name: "Bob"},
		model.Character{ID: "c1", Name: "Alice", Nicknames: []string{"Ally"}},
	)
	snap.Chapters = append(snap.Chapters,
		model.Chapter{ID: "ch1", Title: "The Start", Content: "Hello <mention id=\"c1\">Alice</mention> and **Bob**.\n\nFirst line\nsecond line"},
		model.Chapter{ID: "ch2"},
	)
	return snap
}

func TestExport(t *testing.T) {
	x := NewExporter(zaptest.NewLogger(t))
	meta := Meta{
		Title:   "My Novel",
		Author:  "Jane Q Public",
		Lang:    "en",
		Project: "novel",
		Date:    time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}
	doc, err := x.Export(manuscript(), meta)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	book := doc.SelectElement("FictionBook")
	if book == nil {
		t.Fatal("no FictionBook root")
	}
	if ns := book.SelectAttrValue("xmlns", ""); ns != namespaceFB2 {
		t.Errorf("namespace = %q", ns)
	}

	ti := book.FindElement("description/title-info")
	if got := ti.SelectElement("book-title").Text(); got != "My Novel" {
		t.Errorf("book-title = %q", got)
	}
	if got := ti.SelectElement("lang").Text(); got != "en" {
		t.Errorf("lang = %q", got)
	}
	a := ti.SelectElement("author")
	if a.SelectElement("first-name").Text() != "Jane" || a.SelectElement("middle-name").Text() != "Q" || a.SelectElement("last-name").Text() != "Public" {
		t.Errorf("unexpected author %v", texts(a.ChildElements()))
	}
	if got := book.FindElement("description/document-info/date").SelectAttrValue("value", ""); got != "2024-03-05" {
		t.Errorf("date = %q", got)
	}

	custom := texts(book.FindElements("description/custom-info"))
	if want := []string{"Alice (Ally)", "Bob"}; !reflect.DeepEqual(custom, want) {
		t.Errorf("custom-info = %v, want %v", custom, want)
	}

	sections := book.FindElements("body/section")
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	first := sections[0]
	if id := first.SelectAttrValue("id", ""); id != "ch-1-the-start" {
		t.Errorf("section id = %q", id)
	}
	if got := first.FindElement("title/p").Text(); got != "The Start" {
		t.Errorf("section title = %q", got)
	}
	want := []string{"Hello Alice and Bob.", "First line", "second line"}
	if got := texts(first.SelectElements("p")); !reflect.DeepEqual(got, want) {
		t.Errorf("paragraphs = %q, want %q", got, want)
	}

	second := sections[1]
	if id := second.SelectAttrValue("id", ""); id != "ch-2" {
		t.Errorf("section id = %q", id)
	}
	if second.SelectElement("empty-line") == nil || second.SelectElement("title") != nil {
		t.Error("empty chapter should have empty line and no title")
	}

	out, err := doc.WriteToString()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "mention") {
		t.Error("annotation markup leaked into export")
	}
}

func TestExportStableID(t *testing.T) {
	x := NewExporter(zaptest.NewLogger(t))
	id := func(project string) string {
		doc, err := x.Export(manuscript(), Meta{Title: "T", Lang: "en", Project: project})
		if err != nil {
			t.Fatal(err)
		}
		return doc.FindElement("FictionBook/description/document-info/id").Text()
	}
	if id("a") != id("a") {
		t.Error("book id changes between exports")
	}
	if id("a") == id("b") {
		t.Error("different projects share book id")
	}
}

func TestAuthor(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"", []string{"nickname"}},
		{"Homer", []string{"nickname"}},
		{"Jane Austen", []string{"first-name", "last-name"}},
	}
	for _, tt := range tests {
		root := etree.NewElement("root")
		author(root, tt.name)
		var tags []string
		for _, e := range root.SelectElement("author").ChildElements() {
			tags = append(tags, e.Tag)
		}
		if !reflect.DeepEqual(tags, tt.want) {
			t.Errorf("author(%q) = %v, want %v", tt.name, tags, tt.want)
		}
	}
}
