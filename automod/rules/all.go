package rules

import (
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/visual"
)

type Config struct {
	Bot                 BotConfig
	ThreatFailurePolicy ThreatFailurePolicy
	ImageMatchThreshold float64
	ImageLabel          string
	// Skip image download and matching entirely
	DisableImages bool
}

func DefaultConfig() Config {
	return Config{
		Bot:                 DefaultBotConfig(),
		ThreatFailurePolicy: ThreatFailureSkip,
		ImageMatchThreshold: visual.DefaultMatchThreshold,
		ImageLabel:          LabelDog,
	}
}

func DefaultRules() engine.RuleSet {
	return NewRuleSet(DefaultConfig())
}

// Trust-and-safety and news always run; bot scoring and link safety only run for giveaways; image matching runs whenever the post has images.
func NewRuleSet(cfg Config) engine.RuleSet {
	rules := engine.RuleSet{
		PostRules: []engine.PostRule{
			{Name: "t-and-s", Func: TrustAndSafetyPostRule},
			{Name: "news", Func: NewsPostRule},
		},
		Gates: []engine.RuleGate{
			{
				Name:  "giveaway",
				Match: GiveawayGate,
				Rules: []engine.PostRule{
					{Name: "bot", Func: BotPostRule(cfg.Bot)},
					{Name: "link-safety", Func: LinkSafetyPostRule(cfg.ThreatFailurePolicy)},
				},
			},
		},
	}
	if !cfg.DisableImages {
		label := cfg.ImageLabel
		if label == "" {
			label = LabelDog
		}
		rules.BlobRules = []engine.BlobRule{
			{Name: "reference-image", Func: ReferenceImageBlobRule(cfg.ImageMatchThreshold, label)},
		}
	}
	return rules
}
