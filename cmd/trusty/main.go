package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/identity"
	"github.com/RachMink/cs5342-spring2025-team7/automod/fetch"
	"github.com/RachMink/cs5342-spring2025-team7/automod/rules"
	"github.com/RachMink/cs5342-spring2025-team7/automod/visual"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/lmittmann/tint"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "trusty",
		Usage:   "multi-signal post labeler (trust-and-safety, news, giveaways, dogs)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			Value:   "info",
			EnvVars: []string{"TRUSTY_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log output format: 'json' or 'text'",
			Value:   "text",
			EnvVars: []string{"TRUSTY_LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "inputs-dir",
			Usage:   "directory holding the reference lists (t-and-s, news, giveaway, image hashes)",
			Value:   "labeler-inputs",
			EnvVars: []string{"TRUSTY_INPUTS_DIR"},
		},
	}

	app.Before = func(cctx *cli.Context) error {
		_, err := configLogging(cctx)
		return err
	}

	app.Commands = []*cli.Command{
		runCmd,
		labelCmd,
		keywordsCmd,
		hashImagesCmd,
	}

	return app.Run(args)
}

func configLogging(cctx *cli.Context) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cctx.String("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	// stdout is reserved for results and reports
	var h slog.Handler
	switch cctx.String("log-format") {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	case "text":
		h = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		return nil, fmt.Errorf("unknown log format: %s", cctx.String("log-format"))
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, nil
}

// Flags for the commands which moderate posts.
var engineFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "atp-plc-host",
		Usage:   "method, hostname, and port of PLC registry",
		Value:   identity.DefaultPLCURL,
		EnvVars: []string{"ATP_PLC_HOST"},
	},
	&cli.StringFlag{
		Name:    "appview-host",
		Usage:   "method, hostname, and port of the AppView used for account metadata",
		Value:   fetch.DefaultAppViewHost,
		EnvVars: []string{"ATP_APPVIEW_HOST"},
	},
	&cli.IntFlag{
		Name:    "plc-rate-limit",
		Usage:   "max number of requests per second to PLC registry",
		Value:   100,
		EnvVars: []string{"TRUSTY_PLC_RATE_LIMIT"},
	},
	&cli.IntFlag{
		Name:    "pds-rate-limit",
		Usage:   "max number of record fetches per second, across all PDS hosts",
		Value:   20,
		EnvVars: []string{"TRUSTY_PDS_RATE_LIMIT"},
	},
	&cli.IntFlag{
		Name:    "appview-rate-limit",
		Usage:   "max number of profile fetches per second to the AppView",
		Value:   20,
		EnvVars: []string{"TRUSTY_APPVIEW_RATE_LIMIT"},
	},
	&cli.IntFlag{
		Name:    "blob-rate-limit",
		Usage:   "max number of image downloads per second",
		Value:   20,
		EnvVars: []string{"TRUSTY_BLOB_RATE_LIMIT"},
	},
	&cli.StringFlag{
		Name:    "safe-browsing-api-key",
		Usage:   "API key for Google Safe Browsing; link safety is not evaluated without one",
		EnvVars: []string{"SAFE_BROWSING_API_KEY"},
	},
	&cli.IntFlag{
		Name:    "safe-browsing-rate-limit",
		Usage:   "max number of threat lookups per second",
		Value:   10,
		EnvVars: []string{"TRUSTY_SAFE_BROWSING_RATE_LIMIT"},
	},
	&cli.StringFlag{
		Name:    "threat-failure-policy",
		Usage:   "what to do when the threat lookup fails: 'skip' (no link label) or 'unsafe'",
		Value:   string(rules.ThreatFailureSkip),
		EnvVars: []string{"TRUSTY_THREAT_FAILURE_POLICY"},
	},
	&cli.DurationFlag{
		Name:    "post-timeout",
		Usage:   "deadline for moderating a single post, including fetches",
		Value:   30 * time.Second,
		EnvVars: []string{"TRUSTY_POST_TIMEOUT"},
	},
	&cli.DurationFlag{
		Name:    "image-fetch-timeout",
		Usage:   "timeout for a single image download",
		Value:   visual.DefaultFetchTimeout,
		EnvVars: []string{"TRUSTY_IMAGE_FETCH_TIMEOUT"},
	},
	&cli.StringFlag{
		Name:    "image-cdn-template",
		Usage:   "download images from a CDN instead of the author's PDS; '{did}' and '{cid}' are substituted (eg: " + visual.DefaultCDNTemplate + ")",
		EnvVars: []string{"TRUSTY_IMAGE_CDN_TEMPLATE"},
	},
	&cli.Float64Flag{
		Name:    "image-match-threshold",
		Usage:   "normalized perceptual hash distance below which an image matches a reference image",
		Value:   visual.DefaultMatchThreshold,
		EnvVars: []string{"TRUSTY_IMAGE_MATCH_THRESHOLD"},
	},
	&cli.BoolFlag{
		Name:    "allow-private-blob-hosts",
		Usage:   "allow image downloads from private or loopback addresses and non-standard ports (for local testing)",
		EnvVars: []string{"TRUSTY_ALLOW_PRIVATE_BLOB_HOSTS"},
	},
	&cli.BoolFlag{
		Name:    "disable-images",
		Usage:   "skip image download and matching",
		EnvVars: []string{"TRUSTY_DISABLE_IMAGES"},
	},
	&cli.Float64Flag{
		Name:    "bot-ratio-threshold",
		Usage:   "follows/followers ratio above which a giveaway author is likely a bot",
		Value:   rules.DefaultBotConfig().RatioThreshold,
		EnvVars: []string{"TRUSTY_BOT_RATIO_THRESHOLD"},
	},
	&cli.Float64Flag{
		Name:    "bot-rate-threshold",
		Usage:   "posts per day above which a giveaway author is likely a bot",
		Value:   rules.DefaultBotConfig().RateThreshold,
		EnvVars: []string{"TRUSTY_BOT_RATE_THRESHOLD"},
	},
	&cli.BoolFlag{
		Name:    "bot-new-account-rule",
		Usage:   "also flag brand-new accounts with very few followers and many follows as bots",
		EnvVars: []string{"TRUSTY_BOT_NEW_ACCOUNT_RULE"},
	},
	&cli.StringFlag{
		Name:    "redis-url",
		Usage:   "redis connection URL, for caching profiles and threat verdicts",
		EnvVars: []string{"TRUSTY_REDIS_URL", "REDIS_URL"},
	},
	&cli.BoolFlag{
		Name:    "cache",
		Usage:   "cache profiles and threat verdicts in process memory (ignored when redis is configured)",
		EnvVars: []string{"TRUSTY_CACHE"},
	},
	&cli.DurationFlag{
		Name:    "cache-ttl",
		Usage:   "lifetime of cached profiles and threat verdicts",
		Value:   30 * time.Minute,
		EnvVars: []string{"TRUSTY_CACHE_TTL"},
	},
}

// Flags for publishing labels to the labeler service.
var emitFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "emit-labels",
		Usage:   "publish labels of each labeled post to the labeler service",
		EnvVars: []string{"TRUSTY_EMIT_LABELS"},
	},
	&cli.StringFlag{
		Name:    "atp-pds-host",
		Usage:   "method, hostname, and port of the PDS of the labeler account",
		Value:   "https://bsky.social",
		EnvVars: []string{"ATP_PDS_HOST"},
	},
	&cli.StringFlag{
		Name:    "atp-username",
		Usage:   "handle or DID of the labeler account",
		EnvVars: []string{"ATP_USERNAME"},
	},
	&cli.StringFlag{
		Name:    "atp-password",
		Usage:   "password (or app password) of the labeler account",
		EnvVars: []string{"ATP_PASSWORD"},
	},
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
