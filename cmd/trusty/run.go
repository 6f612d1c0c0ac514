package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/evaluate"
	"github.com/RachMink/cs5342-spring2025-team7/util/xrpcutil"

	cli "github.com/urfave/cli/v2"
)

var runCmd = &cli.Command{
	Name:      "run",
	Usage:     "moderate every post in an expectations CSV and report how many label sets matched",
	ArgsUsage: "<expected.csv>",
	Flags: withFlags(engineFlags, emitFlags, []cli.Flag{
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "number of posts moderated concurrently",
			Value:   8,
			EnvVars: []string{"TRUSTY_WORKERS"},
		},
		&cli.StringFlag{
			Name:    "results-ndjson",
			Usage:   "append one JSON line per post result (labels, expected labels, bot score) to this file",
			EnvVars: []string{"TRUSTY_RESULTS_NDJSON"},
		},
		&cli.BoolFlag{
			Name:  "summary-json",
			Usage: "print the final summary as JSON instead of text",
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs (disabled when empty)",
			EnvVars: []string{"TRUSTY_METRICS_LISTEN"},
		},
	}),
	Action: runBatch,
}

func runBatch(cctx *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	logger := slog.Default()

	if cctx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one argument: path to expectations CSV")
	}
	exps, err := evaluate.LoadExpectations(cctx.Args().First())
	if err != nil {
		return err
	}
	expected := evaluate.ExpectationIndex(exps)
	if len(expected) != len(exps) {
		logger.Warn("expectations CSV has duplicate URLs, the last row for each wins", "rows", len(exps), "urls", len(expected))
	}

	defer configOTEL("trusty")()

	eng, err := NewEngine(ctx, cctx, logger)
	if err != nil {
		return err
	}

	if listen := cctx.String("metrics-listen"); listen != "" {
		go func() {
			if err := runMetrics(listen); err != nil {
				logger.Error("failed to start metrics endpoint", "error", err)
			}
		}()
	}

	if cctx.Bool("emit-labels") {
		xrpcc, err := NewAdminClient(ctx, cctx)
		if err != nil {
			return err
		}
		logger.Info("publishing labels", "labeler", xrpcc.Auth.Did)
		eng.AdminClient = xrpcc
		go xrpcutil.RunRefresh(ctx, xrpcc, time.Hour, logger)
	}

	if path := cctx.String("results-ndjson"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening results file: %w", err)
		}
		defer f.Close()
		w := evaluate.NewNDJSONWriter(f)
		w.Expected = expected
		w.Logger = logger
		eng.Observer = w
	}

	urls := make([]string, len(exps))
	for i, e := range exps {
		urls[i] = e.URL
	}
	batchPending.Set(float64(len(urls)))

	logger.Info("starting batch", "posts", len(urls), "workers", cctx.Int("workers"))
	tally := evaluate.NewTally()
	batchErr := eng.ModerateBatch(ctx, urls, cctx.Int("workers"), func(res engine.Result) {
		batchPending.Dec()
		want := expected[res.URL]
		if tally.Add(res, want) {
			expectationResults.WithLabelValues("correct").Inc()
			return
		}
		if !res.Labeled() {
			expectationResults.WithLabelValues("skipped").Inc()
			return
		}
		expectationResults.WithLabelValues("mismatch").Inc()
		logger.Info("label mismatch", "url", res.URL, "labels", res.Labels.Sorted(), "expected", want.Sorted())
	})

	summary := tally.Summary()
	if cctx.Bool("summary-json") {
		err = summary.WriteJSON(os.Stdout)
	} else {
		err = summary.WriteText(os.Stdout)
	}
	if err != nil {
		return err
	}
	if batchErr != nil {
		return fmt.Errorf("batch interrupted: %w", batchErr)
	}
	return nil
}

var labelCmd = &cli.Command{
	Name:      "label",
	Usage:     "moderate specific posts and print each result as a line of JSON",
	ArgsUsage: "<url>...",
	Flags: withFlags(engineFlags, emitFlags, []cli.Flag{
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of posts moderated concurrently",
			Value: 4,
		},
	}),
	Action: runLabel,
}

func runLabel(cctx *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	logger := slog.Default()

	if cctx.Args().Len() == 0 {
		return fmt.Errorf("expected at least one post URL")
	}

	eng, err := NewEngine(ctx, cctx, logger)
	if err != nil {
		return err
	}
	if cctx.Bool("emit-labels") {
		xrpcc, err := NewAdminClient(ctx, cctx)
		if err != nil {
			return err
		}
		eng.AdminClient = xrpcc
	}

	out := evaluate.NewNDJSONWriter(os.Stdout)
	out.Logger = logger
	return eng.ModerateBatch(ctx, cctx.Args().Slice(), cctx.Int("workers"), out.Observe)
}
