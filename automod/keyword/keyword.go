package keyword

import (
	"strings"
)

// Compiled set of words and multi-word phrases, matched against tokenized text.
//
// Entries are tokenized with [TokenizeText] at construction, so both sides of a comparison get the same folding.
// Single-token entries are an O(1) map lookup per text token; multi-token entries are indexed by their first token.
// A PhraseSet is immutable after construction and safe for concurrent use.
type PhraseSet struct {
	// insertion-ordered normalized entries
	entries []string
	single  map[string]int
	// first token to candidate token sequences (including the first token)
	multi map[string][]phrase
}

type phrase struct {
	idx    int
	tokens []string
}

// Builds a set from raw entries. Entries which contain no word characters at all (eg, "!!!") can never match on token
// boundaries and are dropped. Duplicates after normalization collapse to the first occurrence.
func NewPhraseSet(entries []string) *PhraseSet {
	s := &PhraseSet{
		single: make(map[string]int),
		multi:  make(map[string][]phrase),
	}
	seen := make(map[string]bool)
	for _, raw := range entries {
		toks := TokenizeText(raw)
		if len(toks) == 0 {
			continue
		}
		key := strings.Join(toks, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		idx := len(s.entries)
		s.entries = append(s.entries, key)
		if len(toks) == 1 {
			s.single[toks[0]] = idx
			continue
		}
		s.multi[toks[0]] = append(s.multi[toks[0]], phrase{idx: idx, tokens: toks})
	}
	return s
}

// Number of distinct matchable entries.
func (s *PhraseSet) Len() int {
	return len(s.entries)
}

// Normalized entries, in insertion order.
func (s *PhraseSet) Entries() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Returns the normalized entry with the lowest insertion index that occurs in the token sequence.
func (s *PhraseSet) MatchTokens(tokens []string) (string, bool) {
	best := -1
	for i, tok := range tokens {
		if idx, ok := s.single[tok]; ok && (best < 0 || idx < best) {
			best = idx
		}
		for _, p := range s.multi[tok] {
			if best >= 0 && p.idx > best {
				continue
			}
			if hasPrefixTokens(tokens[i:], p.tokens) {
				best = p.idx
			}
		}
	}
	if best < 0 {
		return "", false
	}
	return s.entries[best], true
}

// Tokenizes text and reports whether any entry occurs in it on token boundaries.
func (s *PhraseSet) Match(text string) bool {
	if s == nil || len(s.entries) == 0 {
		return false
	}
	_, ok := s.MatchTokens(TokenizeText(text))
	return ok
}

// Whether a single already-normalized token is in the set.
func (s *PhraseSet) HasToken(tok string) bool {
	_, ok := s.single[tok]
	return ok
}

func hasPrefixTokens(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Helper to check a single token against a short list of tokens
func TokenInSet(tok string, set []string) bool {
	for _, v := range set {
		if v == tok {
			return true
		}
	}
	return false
}
