package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"
)

// Returned from context helpers when the engine was built without the corresponding collaborator.
var ErrNoCollaborator = errors.New("collaborator not configured")

// The interface exposed to rules, for a single post.
//
// Rules in the same gate may run concurrently, so label and analytics effects are protected by a mutex. Everything else on the context is read-only.
type PostContext struct {
	// Actual golang "context.Context", carrying the per-post deadline
	Ctx context.Context
	// slog logger handle, with post-specific structured fields pre-populated. Pointer, but expected to never be nil.
	Logger *slog.Logger
	Post   *PostRecord

	engine  *Engine // NOTE: pointer, but expected never to be nil
	effects *Effects
}

// Mutable container for the side-effects of rule execution on one post.
type Effects struct {
	mu sync.Mutex

	Labels LabelSet
	Bot    *BotScore
	Failed []string
}

func NewPostContext(ctx context.Context, eng *Engine, post *PostRecord) *PostContext {
	return &PostContext{
		Ctx:    ctx,
		Logger: eng.Logger.With("uri", post.URI, "did", post.AuthorDID),
		Post:   post,
		engine: eng,
		effects: &Effects{
			Labels: NewLabelSet(),
		},
	}
}

// Adds a label to the post's result.
func (c *PostContext) AddLabel(val string) {
	c.effects.mu.Lock()
	defer c.effects.mu.Unlock()
	c.effects.Labels.Add(val)
}

// Records the bot score computed for the post's author, for analytics.
func (c *PostContext) SetBotScore(score BotScore) {
	c.effects.mu.Lock()
	defer c.effects.mu.Unlock()
	c.effects.Bot = &score
}

func (c *PostContext) recordFailure(rule string) {
	c.effects.mu.Lock()
	defer c.effects.mu.Unlock()
	c.effects.Failed = append(c.effects.Failed, rule)
}

// Copy of the current labels.
func (c *PostContext) Labels() LabelSet {
	c.effects.mu.Lock()
	defer c.effects.mu.Unlock()
	return NewLabelSet(c.effects.Labels.Sorted()...)
}

func (c *PostContext) Reference() *refdata.Store {
	return c.engine.Reference
}

func (c *PostContext) Config() *Config {
	return &c.engine.Config
}

func (c *PostContext) Now() time.Time {
	return c.engine.now()
}

// Fetches the profile of the post's author.
func (c *PostContext) AuthorProfile() (*ActorProfile, error) {
	if c.engine.Profiles == nil {
		return nil, fmt.Errorf("profile resolver: %w", ErrNoCollaborator)
	}
	return c.engine.Profiles.FetchProfile(c.Ctx, c.Post.AuthorDID)
}

// Issues a single batched threat lookup for the provided URLs.
func (c *PostContext) AnyThreat(urls []string) (bool, error) {
	if c.engine.Threats == nil {
		return false, fmt.Errorf("threat checker: %w", ErrNoCollaborator)
	}
	return c.engine.Threats.AnyThreat(c.Ctx, urls)
}

// Resolves the blob address for an image on the post and downloads it.
func (c *PostContext) FetchImage(img helpers.ImageRef) ([]byte, error) {
	if c.engine.Images == nil || c.engine.Blobs == nil {
		return nil, fmt.Errorf("image fetcher: %w", ErrNoCollaborator)
	}
	blobURL, err := c.engine.Blobs.BlobURL(c.Ctx, c.Post.AuthorDID, img)
	if err != nil {
		return nil, fmt.Errorf("resolving blob address: %w", err)
	}
	return c.engine.Images.FetchImage(c.Ctx, blobURL)
}
