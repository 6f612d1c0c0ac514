package rules

import (
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
)

// Thresholds for the bot heuristic. Both comparisons are strict.
type BotConfig struct {
	// follows / (followers + 1)
	RatioThreshold float64
	// posts / (account age in days + 1)
	RateThreshold float64
	// Optional extra condition for brand-new mass-following accounts; nil disables it.
	NewAccountRule *NewAccountRule
}

// Flags accounts with few followers which follow many others and are only days old.
type NewAccountRule struct {
	MaxFollowers int64
	MinFollows   int64
	MaxAgeDays   int64
}

func DefaultBotConfig() BotConfig {
	return BotConfig{
		RatioThreshold: 3.0,
		RateThreshold:  10.0,
	}
}

func DefaultNewAccountRule() *NewAccountRule {
	return &NewAccountRule{
		MaxFollowers: 3,
		MinFollows:   300,
		MaxAgeDays:   14,
	}
}

func (r *NewAccountRule) matches(p *engine.ActorProfile, ageDays int64) bool {
	return p.FollowersCount <= r.MaxFollowers && p.FollowsCount > r.MinFollows && ageDays < r.MaxAgeDays
}

func ScoreBot(p *engine.ActorProfile, cfg BotConfig, now time.Time) engine.BotScore {
	age := helpers.AccountAgeDays(p.CreatedAt, now)
	score := engine.BotScore{
		AccountAgeDays: age,
		FollowRatio:    float64(p.FollowsCount) / float64(p.FollowersCount+1),
		PostsPerDay:    float64(p.PostsCount) / float64(age+1),
	}
	score.IsBot = score.FollowRatio > cfg.RatioThreshold || score.PostsPerDay > cfg.RateThreshold
	if !score.IsBot && cfg.NewAccountRule != nil {
		score.IsBot = cfg.NewAccountRule.matches(p, age)
	}
	return score
}

// Emits exactly one of the bot or human labels whenever the author's profile could be fetched.
func BotPostRule(cfg BotConfig) engine.PostRuleFunc {
	return func(c *engine.PostContext) error {
		profile, err := c.AuthorProfile()
		if err != nil {
			return err
		}
		score := ScoreBot(profile, cfg, c.Now())
		c.SetBotScore(score)
		if score.IsBot {
			c.AddLabel(LabelLikelyBot)
		} else {
			c.AddLabel(LabelLikelyHuman)
		}
		return nil
	}
}
