package rules

import (
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"
)

// Returns the source name for the earliest-loaded news domain found in the text.
func AttributeNews(text string, ref *refdata.Store) (string, bool) {
	if ref == nil {
		return "", false
	}
	src, ok := ref.NewsDomains.Attribute(text)
	if !ok {
		return "", false
	}
	return src.Source, true
}

var _ engine.PostRuleFunc = NewsPostRule

// Labels the post with the outlet name, not a fixed value.
func NewsPostRule(c *engine.PostContext) error {
	if c.Reference() == nil {
		return errNoReference
	}
	if source, ok := AttributeNews(c.Post.Text, c.Reference()); ok {
		c.Logger.Debug("news source attributed", "source", source)
		c.AddLabel(source)
	}
	return nil
}
