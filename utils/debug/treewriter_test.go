package debug

import "testing"

func TestTreeWriter(t *testing.T) {
	tests := []struct {
		name  string
		write func(tw *TreeWriter)
		want  string
	}{
		{
			name:  "empty",
			write: func(*TreeWriter) {},
			want:  "",
		},
		{
			name: "indented lines",
			write: func(tw *TreeWriter) {
				tw.Line(0, "Root %d", 1)
				tw.Line(2, "Leaf")
			},
			want: "Root 1\n    Leaf\n",
		},
		{
			name: "text block quotes and skips empty",
			write: func(tw *TreeWriter) {
				tw.TextBlock(1, "Text", "say \"hi\"\n")
				tw.TextBlock(1, "Missing", "")
			},
			want: "  Text: \"say \\\"hi\\\"\\n\"\n",
		},
		{
			name: "list",
			write: func(tw *TreeWriter) {
				tw.List(1, "Ids", []string{"a", "b"})
				tw.List(1, "None", nil)
			},
			want: "  Ids: \"a\", \"b\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tt.write(tw)
			if got := tw.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
