package search

import (
	"strings"
	"unicode"
)

// span is one term occurrence in the content, in rune offsets.
type span struct {
	start, end int
}

// highlight extracts up to maxFragments fragments of at most fragmentSize
// runes from the content, each containing at least one query-term
// occurrence. Matched terms are wrapped in <em> tags. The first fragment
// surrounds the first occurrence; further fragments cover occurrences the
// earlier ones missed.
func highlight(content string, terms []string, fragmentSize, maxFragments int) []string {
	runes := []rune(content)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	occurrences := findOccurrences(lower, dedupe(terms))
	if len(occurrences) == 0 {
		return nil
	}

	var fragments []string
	covered := make([]bool, len(occurrences))

	for len(fragments) < maxFragments {
		first := -1
		for i, done := range covered {
			if !done {
				first = i
				break
			}
		}
		if first < 0 {
			break
		}

		occ := occurrences[first]
		fragStart := occ.start - (fragmentSize-(occ.end-occ.start))/2
		if fragStart < 0 {
			fragStart = 0
		}
		fragEnd := fragStart + fragmentSize
		if fragEnd > len(runes) {
			fragEnd = len(runes)
			fragStart = fragEnd - fragmentSize
			if fragStart < 0 {
				fragStart = 0
			}
		}

		var inFragment []span
		for i, o := range occurrences {
			if o.start >= fragStart && o.end <= fragEnd {
				covered[i] = true
				inFragment = append(inFragment, o)
			}
		}

		fragments = append(fragments, renderFragment(runes, fragStart, fragEnd, inFragment))
	}

	return fragments
}

// findOccurrences locates whole-word matches of each term, returned in
// ascending position order.
func findOccurrences(lower []rune, terms []string) []span {
	var occurrences []span
	for _, term := range terms {
		tr := []rune(term)
		if len(tr) == 0 {
			continue
		}
		for i := 0; i+len(tr) <= len(lower); i++ {
			if !runesEqual(lower[i:i+len(tr)], tr) {
				continue
			}
			if i > 0 && isWordRune(lower[i-1]) {
				continue
			}
			if end := i + len(tr); end < len(lower) && isWordRune(lower[end]) {
				continue
			}
			occurrences = append(occurrences, span{start: i, end: i + len(tr)})
		}
	}

	// Insertion-order by term; restore positional order
	for i := 1; i < len(occurrences); i++ {
		for j := i; j > 0 && occurrences[j].start < occurrences[j-1].start; j-- {
			occurrences[j], occurrences[j-1] = occurrences[j-1], occurrences[j]
		}
	}
	return occurrences
}

// renderFragment emits the [fragStart, fragEnd) slice with <em> marks
// around the given occurrence spans.
func renderFragment(runes []rune, fragStart, fragEnd int, marks []span) string {
	var sb strings.Builder
	pos := fragStart
	for _, m := range marks {
		if m.start < pos {
			continue
		}
		sb.WriteString(string(runes[pos:m.start]))
		sb.WriteString("<em>")
		sb.WriteString(string(runes[m.start:m.end]))
		sb.WriteString("</em>")
		pos = m.end
	}
	sb.WriteString(string(runes[pos:fragEnd]))
	return sb.String()
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
