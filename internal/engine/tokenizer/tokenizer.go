// Package tokenizer normalizes raw field text into the token set stored in
// the inverted index. Tokenization is field-aware: name-like fields,
// controlled-vocabulary attribute fields, and free-text fields each produce
// a different mix of words, prefixes, and phrases.
package tokenizer

import (
	"strings"
	"unicode"
)

// FieldClass selects the tokenization rules for a field.
type FieldClass int

const (
	// ClassText is the default: words, word prefixes, and adjacent bigrams.
	ClassText FieldClass = iota
	// ClassName is for name-like fields: the full name, its words, and
	// word prefixes.
	ClassName
	// ClassAttribute is for controlled-vocabulary fields: words, prefixes
	// of longer words, and the full value.
	ClassAttribute
)

// ClassFromString maps a config field class name to its FieldClass.
func ClassFromString(s string) FieldClass {
	switch s {
	case "name":
		return ClassName
	case "attribute":
		return ClassAttribute
	default:
		return ClassText
	}
}

// Normalize lowercases text, replaces every non-alphanumeric character with
// a space, and collapses runs of whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Words normalizes text and splits it into words, discarding words shorter
// than 2 characters.
func Words(text string) []string {
	fields := strings.Fields(Normalize(text))
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) < 2 {
			continue
		}
		words = append(words, w)
	}
	return words
}

// Preprocess produces the token set for one field value. Duplicates
// collapse; callers must not rely on any ordering.
func Preprocess(text string, class FieldClass) map[string]struct{} {
	words := Words(text)
	tokens := make(map[string]struct{}, len(words)*3)

	switch class {
	case ClassName:
		if len(words) >= 2 {
			tokens[strings.Join(words, " ")] = struct{}{}
		}
		for _, w := range words {
			if len(w) >= 3 {
				tokens[w] = struct{}{}
			}
			if len(w) >= 4 {
				addPrefixes(tokens, w, len(w)-1)
			}
		}
	case ClassAttribute:
		for _, w := range words {
			tokens[w] = struct{}{}
			if len(w) >= 5 {
				addPrefixes(tokens, w, len(w)-1)
			}
		}
		if len(words) >= 2 {
			tokens[strings.Join(words, " ")] = struct{}{}
		}
	default:
		for _, w := range words {
			tokens[w] = struct{}{}
			if len(w) >= 4 {
				addPrefixes(tokens, w, len(w)-1)
			}
		}
		for i := 0; i+1 < len(words); i++ {
			tokens[words[i]+" "+words[i+1]] = struct{}{}
		}
	}
	return tokens
}

// addPrefixes emits prefixes of w from length 3 up to and including maxLen.
func addPrefixes(tokens map[string]struct{}, w string, maxLen int) {
	for l := 3; l <= maxLen && l <= len(w); l++ {
		tokens[w[:l]] = struct{}{}
	}
}
