package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/identity"
	"github.com/RachMink/cs5342-spring2025-team7/automod/cachestore"
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/fetch"
	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"
	"github.com/RachMink/cs5342-spring2025-team7/automod/rules"
	"github.com/RachMink/cs5342-spring2025-team7/automod/safebrowsing"
	"github.com/RachMink/cs5342-spring2025-team7/automod/visual"
	"github.com/RachMink/cs5342-spring2025-team7/util/ssrf"
	"github.com/RachMink/cs5342-spring2025-team7/util/xrpcutil"
	"github.com/RachMink/cs5342-spring2025-team7/xrpc"

	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

func limiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func loadReference(cctx *cli.Context, logger *slog.Logger) (*refdata.Store, error) {
	ref, err := refdata.Load(refdata.DefaultConfig(cctx.String("inputs-dir")), logger)
	if err != nil {
		return nil, fmt.Errorf("loading reference data: %w", err)
	}
	return ref, nil
}

func configCache(ctx context.Context, cctx *cli.Context, logger *slog.Logger) (cachestore.CacheStore, error) {
	ttl := cctx.Duration("cache-ttl")
	if redisURL := cctx.String("redis-url"); redisURL != "" {
		csh, err := cachestore.NewRedisCacheStore(ctx, redisURL, ttl)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cachestore: %w", err)
		}
		logger.Info("caching profiles and threat verdicts in redis", "ttl", ttl)
		return csh, nil
	}
	if cctx.Bool("cache") {
		logger.Info("caching profiles and threat verdicts in memory", "ttl", ttl)
		return cachestore.NewMemCacheStore(50_000, ttl), nil
	}
	return nil, nil
}

func configRules(cctx *cli.Context) (engine.RuleSet, error) {
	policy, err := rules.ParseThreatFailurePolicy(cctx.String("threat-failure-policy"))
	if err != nil {
		return engine.RuleSet{}, err
	}
	cfg := rules.DefaultConfig()
	cfg.ThreatFailurePolicy = policy
	cfg.Bot.RatioThreshold = cctx.Float64("bot-ratio-threshold")
	cfg.Bot.RateThreshold = cctx.Float64("bot-rate-threshold")
	if cctx.Bool("bot-new-account-rule") {
		cfg.Bot.NewAccountRule = rules.DefaultNewAccountRule()
	}
	cfg.ImageMatchThreshold = cctx.Float64("image-match-threshold")
	cfg.DisableImages = cctx.Bool("disable-images")

	ruleset := rules.NewRuleSet(cfg)
	if err := ruleset.Validate(); err != nil {
		return engine.RuleSet{}, err
	}
	return ruleset, nil
}

// Assembles the engine and every network collaborator from command-line configuration.
func NewEngine(ctx context.Context, cctx *cli.Context, logger *slog.Logger) (*engine.Engine, error) {
	ref, err := loadReference(cctx, logger)
	if err != nil {
		return nil, err
	}
	ruleset, err := configRules(cctx)
	if err != nil {
		return nil, err
	}
	cache, err := configCache(ctx, cctx, logger)
	if err != nil {
		return nil, err
	}

	dir := identity.DefaultDirectory(cctx.String("atp-plc-host"), limiter(cctx.Int("plc-rate-limit")))

	profiles := fetch.NewProfileResolver(cctx.String("appview-host"), limiter(cctx.Int("appview-rate-limit")))
	profiles.Logger = logger.With("system", "profiles")
	if cache != nil {
		profiles.Cache = cache
	}

	images := visual.NewBlobFetcher(cctx.Duration("image-fetch-timeout"), limiter(cctx.Int("blob-rate-limit")))
	if !cctx.Bool("allow-private-blob-hosts") {
		// blob addresses come from DID documents, which anybody can point anywhere
		images.Client.Transport = otelhttp.NewTransport(ssrf.PublicOnlyTransport())
	}

	eng := engine.Engine{
		Logger:    logger,
		Posts:     fetch.NewPostResolver(dir, limiter(cctx.Int("pds-rate-limit"))),
		Profiles:  profiles,
		Images:    images,
		Blobs:     &fetch.ImageAddresser{Directory: dir, CDNTemplate: cctx.String("image-cdn-template")},
		Reference: ref,
		Rules:     ruleset,
		Config: engine.Config{
			PostTimeout: cctx.Duration("post-timeout"),
		},
	}

	if key := cctx.String("safe-browsing-api-key"); key != "" {
		sb := safebrowsing.NewClient(key)
		sb.Limiter = limiter(cctx.Int("safe-browsing-rate-limit"))
		sb.Logger = logger.With("system", "safebrowsing")
		if cache != nil {
			sb.Cache = cache
		}
		eng.Threats = sb
	} else {
		logger.Warn("no safe browsing API key configured, giveaway links will not be labeled")
	}

	if !ref.HasReferenceImages() && !cctx.Bool("disable-images") {
		logger.Warn("no reference images loaded, image matching will never label")
	}
	return &eng, nil
}

// Creates an authenticated session for the labeler account, with requests proxied to its labeler service.
func NewAdminClient(ctx context.Context, cctx *cli.Context) (*xrpc.Client, error) {
	opts := xrpcutil.DefaultClientOptions()
	opts.Host = cctx.String("atp-pds-host")
	opts.Identifier = cctx.String("atp-username")
	opts.Password = cctx.String("atp-password")
	opts.ProxyService = "atproto_labeler"
	xrpcc, err := xrpcutil.NewClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to labeler account: %w", err)
	}
	return xrpcc, nil
}
