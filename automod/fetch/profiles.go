package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	appbsky "github.com/RachMink/cs5342-spring2025-team7/api/bsky"
	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/RachMink/cs5342-spring2025-team7/automod/cachestore"
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
	"github.com/RachMink/cs5342-spring2025-team7/util"
	"github.com/RachMink/cs5342-spring2025-team7/xrpc"

	"golang.org/x/time/rate"
)

var DefaultAppViewHost = "https://public.api.bsky.app"

// Fetches profile statistics from an AppView.
type ProfileResolver struct {
	Client  *xrpc.Client
	Limiter *rate.Limiter
	// Optional; profiles are only cached when set
	Cache  cachestore.CacheStore
	Logger *slog.Logger
}

var _ engine.ProfileResolver = (*ProfileResolver)(nil)

func NewProfileResolver(host string, limiter *rate.Limiter) *ProfileResolver {
	if host == "" {
		host = DefaultAppViewHost
	}
	return &ProfileResolver{
		Client: &xrpc.Client{
			Client: util.RobustHTTPClient(),
			Host:   host,
		},
		Limiter: limiter,
		Logger:  slog.Default().With("system", "profiles"),
	}
}

func (r *ProfileResolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *ProfileResolver) FetchProfile(ctx context.Context, did syntax.DID) (*engine.ActorProfile, error) {
	if r.Cache != nil {
		var cached engine.ActorProfile
		ok, err := cachestore.GetJSON(ctx, r.Cache, cachestore.NamespaceProfile, did.String(), &cached)
		if err != nil {
			r.logger().Warn("profile cache read failed", "did", did, "err", err)
		} else if ok {
			return &cached, nil
		}
	}

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	view, err := appbsky.ActorGetProfile(ctx, r.Client, did.String())
	if err != nil {
		if xrpc.IsNotFound(err) {
			accountMetaFetches.WithLabelValues("not-found").Inc()
			return nil, fmt.Errorf("profile %s: %w", did, engine.ErrNotFound)
		}
		accountMetaFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	accountMetaFetches.WithLabelValues("ok").Inc()

	p := profileFromView(view, r.logger())
	if p.DID == "" {
		p.DID = did
	}
	if r.Cache != nil {
		if err := cachestore.SetJSON(ctx, r.Cache, cachestore.NamespaceProfile, did.String(), p); err != nil {
			r.logger().Warn("profile cache write failed", "did", did, "err", err)
		}
	}
	return p, nil
}

func derefCount(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func profileFromView(view *appbsky.ActorDefs_ProfileViewDetailed, logger *slog.Logger) *engine.ActorProfile {
	p := &engine.ActorProfile{
		DID:            syntax.DID(view.Did),
		Handle:         syntax.Handle(view.Handle),
		FollowersCount: derefCount(view.FollowersCount),
		FollowsCount:   derefCount(view.FollowsCount),
		PostsCount:     derefCount(view.PostsCount),
	}
	if view.CreatedAt != nil && *view.CreatedAt != "" {
		t, err := util.ParseTimestampLenient(*view.CreatedAt)
		if err != nil {
			logger.Debug("unparseable account creation time", "did", view.Did, "createdAt", *view.CreatedAt, "err", err)
		} else if helpers.PlausibleAccountCreation(&t, time.Now()) {
			p.CreatedAt = &t
		}
	}
	return p
}
