package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"
	"github.com/RachMink/cs5342-spring2025-team7/xrpc"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("automod")

type Config struct {
	// Deadline for evaluating a single post, including the initial fetch. Zero disables the deadline.
	PostTimeout time.Duration
	// Clock used by rules which depend on the current time. Defaults to time.Now.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{
		PostTimeout: 30 * time.Second,
	}
}

// runtime for executing rules against posts and recording moderation results.
//
// Posts must be set. The other collaborators are optional: rules which need a missing collaborator fail and contribute no label.
type Engine struct {
	Logger    *slog.Logger
	Posts     PostResolver
	Profiles  ProfileResolver
	Images    ImageFetcher
	Blobs     BlobAddresser
	Threats   ThreatChecker
	Reference *refdata.Store
	Rules     RuleSet
	Config    Config
	// receives every result (optional)
	Observer Observer
	// used to publish labels to the moderation service (optional)
	AdminClient *xrpc.Client
}

func (eng *Engine) now() time.Time {
	if eng.Config.Now != nil {
		return eng.Config.Now()
	}
	return time.Now()
}

// Moderates a single post, identified by URL, and returns its terminal state.
//
// Only failure to resolve the post itself (or running out of time) results in a skip; any other failure degrades to "no label" from the failing detector.
func (eng *Engine) ModeratePost(ctx context.Context, url string) Result {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "ModeratePost", trace.WithAttributes(attribute.String("url", url)))
	defer span.End()

	if eng.Config.PostTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, eng.Config.PostTimeout)
		defer cancel()
	}

	res := eng.moderate(ctx, url)
	res.Duration = time.Since(start)

	span.SetAttributes(attribute.String("outcome", string(res.Outcome)))
	if !res.Labeled() {
		span.SetStatus(codes.Error, res.SkipReason)
	}
	postProcessDuration.WithLabelValues(string(res.Outcome)).Observe(res.Duration.Seconds())
	postProcessCount.WithLabelValues(string(res.Outcome), res.SkipReason).Inc()
	eng.CanonicalLogLine(&res)

	if res.Labeled() && eng.AdminClient != nil && res.Labels.Len() > 0 {
		if err := eng.persistLabels(ctx, &res); err != nil {
			actionPersistErrors.Inc()
			eng.Logger.Error("failed to publish post labels", "url", url, "err", err)
		}
	}
	if eng.Observer != nil {
		eng.Observer.Observe(res)
	}
	return res
}

func (eng *Engine) moderate(ctx context.Context, url string) Result {
	post, err := eng.fetchPost(ctx, url)
	if err != nil {
		if timedOut(ctx, err) {
			return skippedResult(url, SkipTimeout, err)
		}
		return skippedResult(url, SkipFetchFailed, err)
	}

	c := NewPostContext(ctx, eng, post)
	c.Logger.Debug("processing post", "url", url)
	eng.Rules.CallPostRules(c)

	if timedOut(ctx, nil) {
		return skippedResult(url, SkipTimeout, ctx.Err())
	}

	res := labeledResult(url, post)
	c.effects.mu.Lock()
	defer c.effects.mu.Unlock()
	for v := range c.effects.Labels {
		res.Labels.Add(v)
	}
	res.Bot = c.effects.Bot
	res.Failed = append(res.Failed, c.effects.Failed...)
	return res
}

func (eng *Engine) fetchPost(ctx context.Context, url string) (post *PostRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("post resolver exception: %v", r)
		}
	}()
	if eng.Posts == nil {
		return nil, fmt.Errorf("post resolver: %w", ErrNoCollaborator)
	}
	post, err = eng.Posts.FetchPost(ctx, url)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post resolver returned no record: %w", ErrNotFound)
	}
	return post, nil
}

func timedOut(ctx context.Context, err error) bool {
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// Moderates all the URLs with at most "workers" posts in flight at once, invoking fn for each result.
//
// Results arrive in completion order, not input order. Calls to fn are serialized. Returns the context error if the batch was cancelled before all posts were started.
func (eng *Engine) ModerateBatch(ctx context.Context, urls []string, workers int, fn func(Result)) error {
	if workers < 1 {
		workers = 1
	}
	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(workers)
	for _, url := range urls {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			res := eng.ModeratePost(ctx, url)
			if fn != nil {
				mu.Lock()
				defer mu.Unlock()
				fn(res)
			}
			return nil
		})
	}
	_ = eg.Wait()
	return ctx.Err()
}

// One structured summary log line per post.
func (eng *Engine) CanonicalLogLine(res *Result) {
	if !res.Labeled() {
		eng.Logger.Warn("post skipped",
			"url", res.URL,
			"reason", res.SkipReason,
			"err", res.Err,
			"duration", res.Duration,
		)
		return
	}
	for _, v := range res.Labels.Sorted() {
		labelCount.WithLabelValues(v).Inc()
	}
	eng.Logger.Info("post moderated",
		"url", res.URL,
		"uri", res.URI,
		"labels", res.Labels.Sorted(),
		"failed", res.Failed,
		"duration", res.Duration,
	)
}
