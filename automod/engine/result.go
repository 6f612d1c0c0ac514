package engine

import (
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
)

type Outcome string

var (
	OutcomeLabeled Outcome = "labeled"
	OutcomeSkipped Outcome = "skipped"
)

// Reasons a post can end in the skipped state.
const (
	SkipFetchFailed = "fetch failed"
	SkipTimeout     = "timeout"
)

// Terminal state of moderating a single post.
type Result struct {
	URL     string       `json:"url"`
	URI     syntax.ATURI `json:"uri,omitempty"`
	CID     string       `json:"cid,omitempty"`
	Outcome Outcome      `json:"outcome"`
	// Empty (but non-nil) for labeled posts that matched nothing.
	Labels     LabelSet `json:"labels"`
	SkipReason string   `json:"skip_reason,omitempty"`
	// Set when the bot scorer ran for this post.
	Bot *BotScore `json:"bot,omitempty"`
	// Names of detectors which failed and contributed nothing.
	Failed   []string      `json:"failed,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	// Underlying cause for skipped posts.
	Err error `json:"-"`
}

func (r *Result) Labeled() bool {
	return r.Outcome == OutcomeLabeled
}

func labeledResult(url string, post *PostRecord) Result {
	return Result{
		URL:     url,
		URI:     post.URI,
		CID:     post.CID,
		Outcome: OutcomeLabeled,
		Labels:  NewLabelSet(),
	}
}

func skippedResult(url, reason string, err error) Result {
	return Result{
		URL:        url,
		Outcome:    OutcomeSkipped,
		Labels:     NewLabelSet(),
		SkipReason: reason,
		Err:        err,
	}
}

// Receives every result produced by an engine. Implementations must be safe for concurrent use when the engine runs batches.
type Observer interface {
	Observe(res Result)
}

type ObserverFunc func(res Result)

func (f ObserverFunc) Observe(res Result) {
	f(res)
}
