package ats

import (
	"strings"
	"unicode"
)

// normalizeLines splits text into lines with trailing whitespace removed and
// internal runs of spaces collapsed. Line structure is preserved because the
// section detector works line by line.
func normalizeLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return lines
}

// normalizeText lowercases and collapses all whitespace into single spaces.
// Used for phrase containment checks.
func normalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// tokenize lowercases the text, strips punctuation and returns word tokens.
// Intra-word characters that matter for skills (+, #, .) are kept so that
// "c++", "c#" and "node.js" survive tokenization.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, strings.Trim(b.String(), "."))
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' || r == '#' || r == '.' || r == '/':
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	out := tokens[:0]
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// contentTokens tokenizes and drops stop words and single characters.
func contentTokens(text string, stop map[string]struct{}) []string {
	var out []string
	for _, t := range tokenize(text) {
		if len(t) < 2 {
			continue
		}
		if _, skip := stop[t]; skip {
			continue
		}
		out = append(out, t)
	}
	return out
}

// stem applies light suffix stripping so that "manage", "managed" and
// "managing" collapse to a common form. It is deliberately crude; the goal
// is stem-equivalence for matching, not linguistics.
func stem(token string) string {
	if len(token) <= 4 {
		return token
	}
	for _, suffix := range []string{"ingly", "edly", "ing", "ies", "ed", "es", "s", "e"} {
		if strings.HasSuffix(token, suffix) && len(token)-len(suffix) >= 3 {
			return token[:len(token)-len(suffix)]
		}
	}
	return token
}

// stemPhrase stems every word of a space-separated phrase.
func stemPhrase(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = stem(w)
	}
	return strings.Join(words, " ")
}

// bigrams returns adjacent two-token phrases.
func bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// containsPhrase reports whether phrase occurs in normalized text on word
// boundaries.
func containsPhrase(normText, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(normText[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		startOK := start == 0 || !isWordChar(rune(normText[start-1]))
		endOK := end == len(normText) || !isWordChar(rune(normText[end]))
		if startOK && endOK {
			return true
		}
		idx = start + 1
		if idx >= len(normText) {
			return false
		}
	}
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

// editDistanceAtMostOne reports whether a and b differ by at most one
// substitution, insertion or deletion. Cheap misspelling tolerance without a
// full distance matrix.
func editDistanceAtMostOne(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := len(a), len(b)
	if la > lb {
		a, b, la, lb = b, a, lb, la
	}
	if lb-la > 1 {
		return false
	}
	if la == lb {
		diff := 0
		for i := 0; i < la; i++ {
			if a[i] != b[i] {
				diff++
				if diff > 1 {
					return false
				}
			}
		}
		return true
	}
	// lb == la+1: b must be a with one extra character
	i, j := 0, 0
	skipped := false
	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		j++
	}
	return true
}

// countWords returns the whitespace-token count of text.
func countWords(text string) int {
	return len(strings.Fields(text))
}
