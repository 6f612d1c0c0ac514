package helpers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spaolacci/murmur3"
)

func DedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range in {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}

// returns a fast, compact hash of a string
//
// current implementation uses murmur3, default seed, and hex encoding
func HashOfString(s string) string {
	val := murmur3.Sum64([]byte(s))
	return fmt.Sprintf("%016x", val)
}

// only explicit http(s) links; bare domains in text are left to the lexical detectors
var urlRegex = regexp.MustCompile(`https?://\S+`)

// trailing sentence punctuation is not part of a link in running text
const urlTrailingPunct = `.,;:!?'"`

var urlClosingBrackets = map[byte]string{')': "(", ']': "[", '}': "{"}

// Strips trailing punctuation from a link found in running text. A closing bracket is only stripped when the link has
// no matching opener, so "https://en.wikipedia.org/wiki/Foo_(bar)" survives intact but "(see https://example.com)"
// loses its parenthesis.
func trimURLTail(u string) string {
	for len(u) > 0 {
		c := u[len(u)-1]
		if opener, ok := urlClosingBrackets[c]; ok {
			if strings.Count(u, opener) >= strings.Count(u, string(c)) {
				return u
			}
		} else if !strings.ContainsRune(urlTrailingPunct, rune(c)) {
			return u
		}
		u = u[:len(u)-1]
	}
	return u
}

// Extracts http(s) URLs from free-form text, in order of appearance, without de-duplication.
func ExtractTextURLs(raw string) []string {
	var out []string
	for _, u := range urlRegex.FindAllString(raw, -1) {
		u = trimURLTail(u)
		if len(u) <= len("https://") || strings.HasSuffix(u, "://") {
			continue
		}
		out = append(out, u)
	}
	return out
}
