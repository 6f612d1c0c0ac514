package engine

import (
	"fmt"

	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"

	"golang.org/x/sync/errgroup"
)

type PostRuleFunc = func(c *PostContext) error
type BlobRuleFunc = func(c *PostContext, img helpers.ImageRef, data []byte) (bool, error)
type GateFunc = func(c *PostContext) bool

type PostRule struct {
	Name string
	Func PostRuleFunc
}

// Blob rules return true to indicate a match, which stops processing of any further images on the post.
type BlobRule struct {
	Name string
	Func BlobRuleFunc
}

// Group of rules which only run when Match returns true. Rules within a gate run concurrently with each other.
type RuleGate struct {
	Name  string
	Match GateFunc
	Rules []PostRule
}

// Holds configuration of which rules should be run, and dispatches a post to those rules.
type RuleSet struct {
	// Run first, in order, on every post.
	PostRules []PostRule
	Gates     []RuleGate
	// Run against each embedded image, independent of gates.
	BlobRules []BlobRule
}

func (r *RuleSet) Empty() bool {
	return len(r.PostRules) == 0 && len(r.Gates) == 0 && len(r.BlobRules) == 0
}

// Executes all rules against the post. Rule failures and panics are logged and recorded on the context; they never abort evaluation of the other rules.
func (r *RuleSet) CallPostRules(c *PostContext) {
	for _, rule := range r.PostRules {
		callRule(c, rule.Name, func() error { return rule.Func(c) })
	}

	// gated rules and image rules only depend on the fetched post, so they run side by side
	var eg errgroup.Group
	for _, gate := range r.Gates {
		if !gate.Match(c) {
			continue
		}
		c.Logger.Debug("rule gate matched", "gate", gate.Name)
		for _, rule := range gate.Rules {
			eg.Go(func() error {
				callRule(c, rule.Name, func() error { return rule.Func(c) })
				return nil
			})
		}
	}
	if len(r.BlobRules) > 0 && c.Post.HasImages() {
		eg.Go(func() error {
			r.fetchAndProcessBlobs(c)
			return nil
		})
	}
	_ = eg.Wait()
}

// Images are processed in order, and processing stops at the first image any blob rule matches.
func (r *RuleSet) fetchAndProcessBlobs(c *PostContext) {
	for _, img := range c.Post.Images {
		if c.Ctx.Err() != nil {
			return
		}
		data, err := c.FetchImage(img)
		if err != nil {
			c.Logger.Warn("failed to fetch image blob", "cid", img.CID, "err", err)
			ruleFailureCount.WithLabelValues("image-fetch").Inc()
			c.recordFailure("image-fetch")
			continue
		}
		matched := false
		for _, rule := range r.BlobRules {
			callRule(c, rule.Name, func() error {
				ok, err := rule.Func(c, img, data)
				if ok {
					matched = true
				}
				return err
			})
		}
		if matched {
			return
		}
	}
}

func callRule(c *PostContext, name string, f func() error) {
	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("automod rule execution exception", "rule", name, "err", r)
			ruleFailureCount.WithLabelValues(name).Inc()
			c.recordFailure(name)
		}
	}()
	if err := f(); err != nil {
		c.Logger.Warn("rule failed", "rule", name, "err", err)
		ruleFailureCount.WithLabelValues(name).Inc()
		c.recordFailure(name)
	}
}

// Validates that every rule has a name and function.
func (r *RuleSet) Validate() error {
	for _, rule := range r.PostRules {
		if rule.Name == "" || rule.Func == nil {
			return fmt.Errorf("post rule missing name or func: %q", rule.Name)
		}
	}
	for _, gate := range r.Gates {
		if gate.Name == "" || gate.Match == nil {
			return fmt.Errorf("rule gate missing name or match: %q", gate.Name)
		}
		for _, rule := range gate.Rules {
			if rule.Name == "" || rule.Func == nil {
				return fmt.Errorf("gated rule missing name or func: %q", rule.Name)
			}
		}
	}
	for _, rule := range r.BlobRules {
		if rule.Name == "" || rule.Func == nil {
			return fmt.Errorf("blob rule missing name or func: %q", rule.Name)
		}
	}
	return nil
}
