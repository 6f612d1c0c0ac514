package rules

import (
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"
)

// Domains match as plain case-insensitive substrings of the text; words and phrases only match on token boundaries.
func MatchTrustAndSafety(text string, ref *refdata.Store) bool {
	if ref == nil {
		return false
	}
	if _, ok := ref.TrustSafetyDomains.FirstSubstring(text); ok {
		return true
	}
	return ref.TrustSafetyWords.Match(text)
}

var _ engine.PostRuleFunc = TrustAndSafetyPostRule

func TrustAndSafetyPostRule(c *engine.PostContext) error {
	if c.Reference() == nil {
		return errNoReference
	}
	if MatchTrustAndSafety(c.Post.Text, c.Reference()) {
		c.AddLabel(LabelTrustAndSafety)
	}
	return nil
}
