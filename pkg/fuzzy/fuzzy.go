package fuzzy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, strips diacritics and collapses whitespace, so
// "Reunião  Semanal" and "reuniao semanal" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Distance is the Levenshtein edit distance between a and b, counted in runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Threshold is the typo tolerance for a search term of this length.
func Threshold(term string) int {
	switch n := utf8.RuneCountInString(term); {
	case n <= 3:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

// Score rates how well query matches text. Zero means no match. Every word of
// a multi-word query must match for the text to score.
func Score(query, text string) float64 {
	q, t := Fold(query), Fold(text)
	if q == "" || t == "" {
		return 0
	}

	words := strings.Fields(t)
	if strings.Contains(t, q) {
		if containsPhrase(words, q) {
			return 150
		}
		return 100
	}

	terms := strings.Fields(q)
	total := 0.0
	for _, term := range terms {
		s := termScore(term, words)
		if s == 0 {
			return 0
		}
		total += s
	}
	return total / float64(len(terms))
}

// Match reports whether query matches text at all.
func Match(query, text string) bool {
	return Score(query, text) > 0
}

func termScore(term string, words []string) float64 {
	best := 0.0
	threshold := Threshold(term)
	for _, w := range words {
		switch {
		case w == term:
			return 90
		case strings.HasPrefix(w, term):
			best = max(best, 60)
		case strings.Contains(w, term):
			best = max(best, 45)
		}
		if d := Distance(term, w); d <= threshold {
			best = max(best, 50-float64(d)*12)
		}
	}
	return best
}

func containsPhrase(words []string, phrase string) bool {
	n := len(strings.Fields(phrase))
	for i := 0; i+n <= len(words); i++ {
		if strings.Join(words[i:i+n], " ") == phrase {
			return true
		}
	}
	return false
}
