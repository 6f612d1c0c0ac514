package refdata

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/RachMink/cs5342-spring2025-team7/automod/keyword"
)

// File names and columns of the reference inputs. Relative paths are resolved against Dir.
type Config struct {
	Dir string

	TrustSafetyDomainsFile string
	TrustSafetyWordsFile   string
	NewsDomainsFile        string
	GiveawayFile           string
	// Optional; when the file doesn't exist the image detector has nothing to compare against.
	ImageHashesFile string
}

func DefaultConfig(dir string) Config {
	return Config{
		Dir:                    dir,
		TrustSafetyDomainsFile: "t-and-s-domains.csv",
		TrustSafetyWordsFile:   "t-and-s-words.csv",
		NewsDomainsFile:        "news-domains.csv",
		GiveawayFile:           "giveaway-words.csv",
		ImageHashesFile:        "dog-hashes.csv",
	}
}

const (
	columnDomain       = "Domain"
	columnWord         = "Word"
	columnSource       = "Source"
	columnGiveawayWord = "Words"
	columnCallToAction = "call-to-action"
)

// All reference data, loaded once. Fields are read-only after [Load] returns.
type Store struct {
	TrustSafetyDomains *Dictionary
	TrustSafetyWords   *keyword.PhraseSet
	NewsDomains        *NewsDomainMap
	GiveawayKeywords   *keyword.PhraseSet
	CallsToAction      *keyword.PhraseSet
	ReferenceImages    *ImageHashSet
}

func (c Config) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// Loads every reference file. Any required file that is missing or malformed aborts with a [*ConfigError].
func Load(cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("system", "refdata")

	domains, err := LoadColumn(cfg.resolve(cfg.TrustSafetyDomainsFile), columnDomain)
	if err != nil {
		return nil, err
	}
	words, err := LoadColumn(cfg.resolve(cfg.TrustSafetyWordsFile), columnWord)
	if err != nil {
		return nil, err
	}
	news, err := LoadMapping(cfg.resolve(cfg.NewsDomainsFile), columnDomain, columnSource)
	if err != nil {
		return nil, err
	}
	giveaway, err := LoadColumn(cfg.resolve(cfg.GiveawayFile), columnGiveawayWord)
	if err != nil {
		return nil, err
	}
	cta, err := LoadColumn(cfg.resolve(cfg.GiveawayFile), columnCallToAction)
	if err != nil {
		return nil, err
	}

	s := &Store{
		TrustSafetyDomains: NewDictionary(domains),
		TrustSafetyWords:   keyword.NewPhraseSet(words),
		NewsDomains:        NewNewsDomainMap(news),
		GiveawayKeywords:   keyword.NewPhraseSet(giveaway),
		CallsToAction:      keyword.NewPhraseSet(cta),
	}

	if cfg.ImageHashesFile != "" {
		p := cfg.resolve(cfg.ImageHashesFile)
		refs, err := LoadImageHashes(p)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("reference image hash file not found, image matching disabled", "path", p)
		} else if err != nil {
			return nil, err
		} else {
			s.ReferenceImages = refs
		}
	}

	logger.Info("loaded reference data",
		"tands_domains", s.TrustSafetyDomains.Len(),
		"tands_words", s.TrustSafetyWords.Len(),
		"news_domains", s.NewsDomains.Len(),
		"giveaway_keywords", s.GiveawayKeywords.Len(),
		"calls_to_action", s.CallsToAction.Len(),
		"reference_images", s.ReferenceImages.Len(),
	)
	return s, nil
}

// Whether the image detector has anything to compare against.
func (s *Store) HasReferenceImages() bool {
	return s != nil && s.ReferenceImages.Len() > 0
}

// Writes a reference image hash CSV, as read by [LoadImageHashes].
func WriteImageHashes(path string, hashes []ImageHash) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeImageHashes(f, hashes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
