package rules

import (
	"fmt"

	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
)

// What to do when the threat service can not be reached or answers garbage.
type ThreatFailurePolicy string

var (
	// no link label (fail open)
	ThreatFailureSkip ThreatFailurePolicy = "skip"
	// treat the links as unsafe (fail closed)
	ThreatFailureUnsafe ThreatFailurePolicy = "unsafe"
)

func ParseThreatFailurePolicy(s string) (ThreatFailurePolicy, error) {
	switch ThreatFailurePolicy(s) {
	case ThreatFailureSkip, ThreatFailureUnsafe:
		return ThreatFailurePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown threat failure policy: %q", s)
	}
}

// Checks all the post's links in one batched lookup. Posts without links get no link label at all.
func LinkSafetyPostRule(policy ThreatFailurePolicy) engine.PostRuleFunc {
	return func(c *engine.PostContext) error {
		urls := helpers.DedupeStrings(c.Post.ExternalLinks)
		if len(urls) == 0 {
			return nil
		}
		unsafe, err := c.AnyThreat(urls)
		if err != nil {
			if policy != ThreatFailureUnsafe {
				return err
			}
			c.Logger.Warn("threat lookup failed, treating links as unsafe", "err", err)
			unsafe = true
		}
		if unsafe {
			c.AddLabel(LabelUnsafeLink)
		} else {
			c.AddLabel(LabelSafeLink)
		}
		return nil
	}
}
