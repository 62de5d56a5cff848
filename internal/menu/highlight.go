package menu

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Segment is a run of label text, tagged when it is an occurrence of the query.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// Segments is a highlighted label.
type Segments []Segment

// String returns the plain text the segments were split from.
func (s Segments) String() string {
	var sb strings.Builder
	for _, seg := range s {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// Marked returns the text with every matching segment wrapped in open and close.
func (s Segments) Marked(open, close string) string {
	var sb strings.Builder
	for _, seg := range s {
		if seg.Match {
			sb.WriteString(open)
			sb.WriteString(seg.Text)
			sb.WriteString(close)
			continue
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// HasMatch reports whether any segment is a match.
func (s Segments) HasMatch() bool {
	for _, seg := range s {
		if seg.Match {
			return true
		}
	}
	return false
}

// matcher is a compiled, case-insensitive, literal query.
type matcher struct {
	re *regexp.Regexp
}

// newMatcher escapes query so that no input can fail to compile or act as a pattern.
// Folding is Unicode simple case folding, so the Kelvin sign matches "k".
func newMatcher(query string) *matcher {
	return &matcher{re: regexp.MustCompile("(?i)" + regexp.QuoteMeta(validUTF8(query)))}
}

// validUTF8 replaces every invalid byte with U+FFFD, one per byte. regexp
// decodes invalid bytes in the searched text the same way, so a query byte
// still finds the same byte in a label.
func validUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	return sb.String()
}

func (m *matcher) matches(s string) bool {
	return m.re.MatchString(s)
}

// split cuts text at every leftmost, non-overlapping occurrence of the query.
func (m *matcher) split(text string) Segments {
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return Segments{{Text: text}}
	}
	out := make(Segments, 0, 2*len(locs)+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			out = append(out, Segment{Text: text[last:loc[0]]})
		}
		out = append(out, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}

// Highlight splits text into matching and non-matching segments for query.
// Concatenating the segment texts always yields text. An empty query
// returns text as a single non-matching segment.
func Highlight(text, query string) Segments {
	if query == "" {
		return Segments{{Text: text}}
	}
	return newMatcher(query).split(text)
}
