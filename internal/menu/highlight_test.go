package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  Segments
	}{
		{
			name:  "single occurrence",
			text:  "Mail Settings",
			query: "mail",
			want:  Segments{{Text: "Mail", Match: true}, {Text: " Settings"}},
		},
		{
			name:  "every occurrence",
			text:  "abcABCabc",
			query: "bc",
			want: Segments{
				{Text: "a"}, {Text: "bc", Match: true},
				{Text: "A"}, {Text: "BC", Match: true},
				{Text: "a"}, {Text: "bc", Match: true},
			},
		},
		{
			name:  "non-overlapping leftmost first",
			text:  "aaaa",
			query: "aa",
			want:  Segments{{Text: "aa", Match: true}, {Text: "aa", Match: true}},
		},
		{
			name:  "literal metacharacters",
			text:  "a(b) widget",
			query: "a(b",
			want:  Segments{{Text: "a(b", Match: true}, {Text: ") widget"}},
		},
		{
			name:  "no occurrence",
			text:  "Option 1",
			query: "zzz",
			want:  Segments{{Text: "Option 1"}},
		},
		{
			name:  "empty query is a no-op",
			text:  "Option 1",
			query: "",
			want:  Segments{{Text: "Option 1"}},
		},
		{
			name:  "invalid utf-8 query matches the same byte",
			text:  "a\xffb",
			query: "\xff",
			want:  Segments{{Text: "a"}, {Text: "\xff", Match: true}, {Text: "b"}},
		},
		{
			name:  "invalid utf-8 query against valid text",
			text:  "Navigation One",
			query: "\xfe\xff",
			want:  Segments{{Text: "Navigation One"}},
		},
		{
			name:  "multibyte text",
			text:  "Настройки почты",
			query: "почт",
			want:  Segments{{Text: "Настройки "}, {Text: "почт", Match: true}, {Text: "ы"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Highlight(tt.text, tt.query)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
		})
	}
}

func TestSegments_Marked(t *testing.T) {
	segs := Highlight("Option 1 / option 2", "option")
	assert.Equal(t, "[Option] 1 / [option] 2", segs.Marked("[", "]"))
	assert.True(t, segs.HasMatch())
	assert.False(t, Highlight("Option", "zzz").HasMatch())
}

func TestHighlight_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		query := rapid.StringN(1, 4, -1).Draw(t, "query")
		if got := Highlight(text, query).String(); got != text {
			t.Fatalf("Highlight(%q, %q) rebuilt %q", text, query, got)
		}
	})
}

func TestHighlight_ArbitraryBytes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := string(rapid.SliceOf(rapid.Byte()).Draw(t, "text"))
		query := string(rapid.SliceOfN(rapid.Byte(), 1, 4).Draw(t, "query"))
		if got := Highlight(text, query).String(); got != text {
			t.Fatalf("Highlight(%q, %q) rebuilt %q", text, query, got)
		}
	})
}

func TestHighlight_CaseFolding(t *testing.T) {
	// Unicode simple folding: the Kelvin sign and long s fold to k and s.
	assert.True(t, Highlight("\u212Aelvin", "k").HasMatch())
	assert.True(t, Highlight("Me\u017Fsage", "ss").HasMatch())
}
