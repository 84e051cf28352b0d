package cleantext

import (
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"inkwell/model"
)

func TestStripAnnotationsNested(t *testing.T) {
	in := `<comment><mention>Alice</mention> met <event>Bob</event></comment>`
	if got, want := StripAnnotations(in), "Alice met Bob"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  string
	}{
		{0, "0 min"},
		{1, "1 min"},
		{150, "1 min"},
		{300, "1-2 min"},
		{301, "2-3 min"},
		{500, "2-4 min"},
		{600, "2-4 min"},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.words, FastWPM, SlowWPM); got != tt.want {
			t.Errorf("ReadingTime(%d) = %q, want %q", tt.words, got, tt.want)
		}
	}
	if got := ReadingTime(500, 0, 0); got != "2-4 min" {
		t.Errorf("defaults are not applied: %q", got)
	}
}

func TestStats(t *testing.T) {
	p := NewProjector(0, 0, zaptest.NewLogger(t))

	in := `<comment id="c"><mention id="m">Alice</mention> met <event id="e">Bob</event>.</comment> They talked. It rained!`
	st, err := p.Stats(in)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{Words: 7, Characters: 38, Sentences: 3, ReadingTime: "1 min"}
	if st != want {
		t.Errorf("got %+v, want %+v", st, want)
	}

	st, err = p.Stats(strings.Repeat("word ", 500))
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Words != 500 || st.ReadingTime != "2-4 min" {
		t.Errorf("got %+v", st)
	}
}

func TestDocument(t *testing.T) {
	p := NewProjector(FastWPM, SlowWPM, zaptest.NewLogger(t))
	chapters := []model.Chapter{
		{ID: "1", Title: "One", Content: strings.Repeat("alpha ", 200)},
		{ID: "2", Title: "Two", Content: strings.Repeat("beta ", 100)},
	}
	per, total, err := p.Document(chapters)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(per) != 2 || per[0].Words != 200 || per[1].Words != 100 || per[1].Title != "Two" {
		t.Errorf("unexpected chapters %+v", per)
	}
	if total.Words != 300 || total.ReadingTime != "1-2 min" {
		t.Errorf("unexpected total %+v", total)
	}
}

func TestPreview(t *testing.T) {
	p := NewProjector(0, 0, zaptest.NewLogger(t))
	got, err := p.Preview(`<comment id="c">Hi **there**</comment>`)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if want := "<p>Hi <strong>there</strong></p>"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWords(t *testing.T) {
	got := slices.Collect(Words("  one\ttwo\u00a0three \n four  "))
	want := []string{"one", "two\u00a0three", "four"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplit(t *testing.T) {
	s := NewSplitter(zaptest.NewLogger(t))
	got := s.Split("One sentence here. Another one follows.")
	want := []string{"One sentence here. ", "Another one follows."}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	var off *Splitter
	if got := off.Split("a. b."); !slices.Equal(got, []string{"a. b."}) {
		t.Errorf("disabled splitter got %q", got)
	}
}
