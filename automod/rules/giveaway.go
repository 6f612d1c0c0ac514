package rules

import (
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/keyword"
	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"
)

// A giveaway needs both a giveaway keyword and a call to action ("follow to enter").
func IsGiveaway(text string, ref *refdata.Store) bool {
	if ref == nil {
		return false
	}
	tokens := keyword.TokenizeText(text)
	if ref.GiveawayKeywords == nil || ref.CallsToAction == nil {
		return false
	}
	if _, ok := ref.GiveawayKeywords.MatchTokens(tokens); !ok {
		return false
	}
	_, ok := ref.CallsToAction.MatchTokens(tokens)
	return ok
}

var _ engine.GateFunc = GiveawayGate

func GiveawayGate(c *engine.PostContext) bool {
	return IsGiveaway(c.Post.Text, c.Reference())
}
