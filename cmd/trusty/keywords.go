package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/RachMink/cs5342-spring2025-team7/automod/keyword"
	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"
	"github.com/RachMink/cs5342-spring2025-team7/automod/rules"
	"github.com/RachMink/cs5342-spring2025-team7/automod/visual"

	cli "github.com/urfave/cli/v2"
)

var keywordsCmd = &cli.Command{
	Name:   "keywords",
	Usage:  "reads lines of text from stdin, and prints which reference lists each line matches",
	Action: runKeywords,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "tokens",
			Usage: "also print the tokens each line is split into",
		},
	},
}

func runKeywords(cctx *cli.Context) error {
	ref, err := loadReference(cctx, nil)
	if err != nil {
		return err
	}
	showTokens := cctx.Bool("tokens")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if showTokens {
			fmt.Printf("TOKENS\t%s\t%s\n", strings.Join(keyword.TokenizeText(line), " "), line)
		}
		if rules.MatchTrustAndSafety(line, ref) {
			fmt.Printf("MATCH\t%s\t%s\n", rules.LabelTrustAndSafety, line)
		}
		if source, ok := rules.AttributeNews(line, ref); ok {
			fmt.Printf("MATCH\t%s\t%s\n", source, line)
		}
		if rules.IsGiveaway(line, ref) {
			fmt.Printf("MATCH\tgiveaway\t%s\n", line)
		}
	}
	return scanner.Err()
}

var hashImagesCmd = &cli.Command{
	Name:      "hash-images",
	Usage:     "computes perceptual hashes for a folder of reference images, and writes them as a reference hash CSV",
	ArgsUsage: "<dir>",
	Action:    runHashImages,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "output",
			Usage: "path of the CSV to write (default: the image hash file in the inputs directory)",
		},
	},
}

func runHashImages(cctx *cli.Context) error {
	if cctx.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one argument: directory of reference images")
	}
	logger := slog.Default()

	hashes, err := visual.HashDirectory(cctx.Args().First(), logger)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		return fmt.Errorf("no decodable images found in %s", cctx.Args().First())
	}

	out := cctx.String("output")
	if out == "" {
		cfg := refdata.DefaultConfig(cctx.String("inputs-dir"))
		out = filepath.Join(cfg.Dir, cfg.ImageHashesFile)
	}
	if err := refdata.WriteImageHashes(out, hashes); err != nil {
		return err
	}
	logger.Info("wrote reference image hashes", "path", out, "count", len(hashes))
	return nil
}
