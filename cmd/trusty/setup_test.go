package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/RachMink/cs5342-spring2025-team7/automod/cachestore"

	"github.com/stretchr/testify/assert"
	cli "github.com/urfave/cli/v2"
)

func testContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range withFlags(engineFlags, emitFlags) {
		if err := f.Apply(set); err != nil {
			t.Fatal(err)
		}
	}
	set.String("inputs-dir", "labeler-inputs", "")
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(&cli.App{}, set, nil)
}

func TestConfigRules(t *testing.T) {
	assert := assert.New(t)

	ruleset, err := configRules(testContext(t))
	assert.NoError(err)
	assert.Equal(2, len(ruleset.PostRules))
	assert.Equal(1, len(ruleset.Gates))
	assert.Equal(1, len(ruleset.BlobRules))

	ruleset, err = configRules(testContext(t, "--disable-images", "--threat-failure-policy", "unsafe", "--bot-new-account-rule"))
	assert.NoError(err)
	assert.Equal(0, len(ruleset.BlobRules))

	_, err = configRules(testContext(t, "--threat-failure-policy", "shrug"))
	assert.Error(err)
}

func TestConfigCache(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	logger := slog.Default()

	cache, err := configCache(ctx, testContext(t), logger)
	assert.NoError(err)
	assert.Nil(cache)

	cache, err = configCache(ctx, testContext(t, "--cache"), logger)
	assert.NoError(err)
	_, ok := cache.(*cachestore.MemCacheStore)
	assert.True(ok)
}

func TestNewEngine(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	dir := t.TempDir()
	files := map[string]string{
		"t-and-s-domains.csv": "Domain\nexample-safety.org\n",
		"t-and-s-words.csv":   "Word\nharassment\n",
		"news-domains.csv":    "Domain,Source\nbbc.com,BBC\n",
		"giveaway-words.csv":  "Words,call-to-action\ngiveaway,follow\n",
	}
	for name, content := range files {
		assert.NoError(os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	eng, err := NewEngine(ctx, testContext(t, "--inputs-dir", dir, "--safe-browsing-api-key", "abc"), slog.Default())
	assert.NoError(err)
	assert.NotNil(eng.Posts)
	assert.NotNil(eng.Profiles)
	assert.NotNil(eng.Threats)
	assert.False(eng.Reference.HasReferenceImages())

	eng, err = NewEngine(ctx, testContext(t, "--inputs-dir", dir), slog.Default())
	assert.NoError(err)
	assert.Nil(eng.Threats)

	_, err = NewEngine(ctx, testContext(t, "--inputs-dir", t.TempDir()), slog.Default())
	assert.Error(err)
}
