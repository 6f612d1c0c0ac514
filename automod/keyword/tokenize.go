package keyword

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// spacing marks (eg, Devanagari vowel signs) belong to the word they modify
var nonTokenChars = regexp.MustCompile(`[^\pL\pN\pM\s]+`)

// Splits free-form text in to tokens, including lower-case, unicode normalization, and some unicode folding.
//
// Punctuation and symbols separate tokens ("#giveaway!" is the single token "giveaway", "don't" is "don" and "t"), so
// matching against tokens gives word-boundary semantics: "cat" never matches inside "category".
func TokenizeText(text string) []string {
	// the transformer is stateful, so a fresh chain is needed per call
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	// fold before splitting, so combining marks never act as separators
	folded, _, err := transform.String(normFunc, text)
	if err != nil {
		slog.Warn("unicode normalization error", "err", err)
		folded = text
	}
	return strings.Fields(strings.ToLower(nonTokenChars.ReplaceAllString(folded, " ")))
}

func splitIdentRune(c rune) bool {
	return !unicode.IsLetter(c) && !unicode.IsNumber(c)
}

// Splits an identifier in to tokens. Removes any single-character tokens.
//
// For example, the-handle.bsky.social would be split in to ["the", "handle", "bsky", "social"]
func TokenizeIdentifier(orig string) []string {
	fields := strings.FieldsFunc(orig, splitIdentRune)
	out := make([]string, 0, len(fields))
	for _, v := range fields {
		tok := Slugify(v)
		if len(tok) > 1 {
			out = append(out, tok)
		}
	}
	return out
}
