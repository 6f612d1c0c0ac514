package refdata

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadColumn(t *testing.T) {
	assert := assert.New(t)

	raw := "\ufeffWords,call-to-action\nGiveaway,Retweet\nfree,\n,follow and like\n  Contest ,\n"
	words, err := ReadColumn(strings.NewReader(raw), "Words")
	assert.NoError(err)
	assert.Equal([]string{"Giveaway", "free", "Contest"}, words)

	cta, err := ReadColumn(strings.NewReader(raw), "call-to-action")
	assert.NoError(err)
	assert.Equal([]string{"Retweet", "follow and like"}, cta)

	_, err = ReadColumn(strings.NewReader(raw), "Missing")
	assert.Error(err)

	_, err = ReadColumn(strings.NewReader(""), "Words")
	assert.Error(err)
}

func TestReadMapping(t *testing.T) {
	assert := assert.New(t)

	raw := "Domain,Source\nnytimes.com,New York Times\nbbc.com,BBC\nNYTimes.com,Duplicate\n,Nobody\ncnn.com,\n"
	pairs, err := ReadMapping(strings.NewReader(raw), "Domain", "Source")
	assert.NoError(err)
	assert.Equal([]Pair{
		{Key: "nytimes.com", Value: "New York Times"},
		{Key: "bbc.com", Value: "BBC"},
	}, pairs)
}

func TestDictionary(t *testing.T) {
	assert := assert.New(t)

	d := NewDictionary([]string{"Scam.example", " phish.test ", "", "SCAM.example"})
	assert.Equal(2, d.Len())
	assert.Equal([]string{"scam.example", "phish.test"}, d.Entries())
	assert.True(d.Has("PHISH.test"))
	assert.False(d.Has("other.test"))

	m, ok := d.FirstSubstring("Go to https://www.Scam.Example/login now")
	assert.True(ok)
	assert.Equal("scam.example", m)
	_, ok = d.FirstSubstring("nothing here")
	assert.False(ok)

	var nilDict *Dictionary
	assert.False(nilDict.Has("x"))
	assert.Equal(0, nilDict.Len())
}

func TestNewsDomainMapLoadOrder(t *testing.T) {
	assert := assert.New(t)

	m := NewNewsDomainMap([]Pair{
		{Key: "apnews.com", Value: "AP"},
		{Key: "NYTimes.com", Value: "NYT"},
		{Key: "nytimes.com", Value: "Later"},
	})
	assert.Equal(2, m.Len())

	// nytimes.com appears first in the text, but apnews.com was loaded first
	src, ok := m.Attribute("nytimes.com says X, apnews.com says Y")
	assert.True(ok)
	assert.Equal("AP", src.Source)
	assert.Equal("apnews.com", src.Domain)

	src, ok = m.Attribute("via NYTIMES.COM")
	assert.True(ok)
	assert.Equal("NYT", src.Source)

	_, ok = m.Attribute("no sources")
	assert.False(ok)

	v, ok := m.Lookup("NYTimes.com")
	assert.True(ok)
	assert.Equal("NYT", v)
}

func TestImageHashes(t *testing.T) {
	assert := assert.New(t)

	h, err := ParseImageHash("p:00ff00ff00ff00ff")
	assert.NoError(err)
	assert.Equal(uint64(0x00ff00ff00ff00ff), h)
	assert.Equal("p:00ff00ff00ff00ff", FormatImageHash(h))

	_, err = ParseImageHash("abc")
	assert.Error(err)
	_, err = ParseImageHash("zzzzzzzzzzzzzzzz")
	assert.Error(err)

	set, err := ReadImageHashes(strings.NewReader("Hash\n00000000000000ff\nffffffffffffffff\n00000000000000ff\n\n"))
	assert.NoError(err)
	assert.Equal(2, set.Len())
	assert.Equal(uint64(0xff), set.Hashes()[0].Hash)

	var buf bytes.Buffer
	assert.NoError(writeImageHashes(&buf, []ImageHash{{Hash: 1, Source: "rex.jpg"}}))
	again, err := ReadImageHashes(&buf)
	assert.NoError(err)
	assert.Equal([]ImageHash{{Hash: 1, Source: "rex.jpg"}}, again.Hashes())
}

func writeFile(t *testing.T, dir, name, body string) {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadStore(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	writeFile(t, dir, "t-and-s-domains.csv", "Domain\nscam.example\n")
	writeFile(t, dir, "t-and-s-words.csv", "Word\nphishing\ncrypto wallet\n")
	writeFile(t, dir, "news-domains.csv", "Domain,Source\napnews.com,AP\n")
	writeFile(t, dir, "giveaway-words.csv", "Words,call-to-action\ngiveaway,retweet\nprize,\n")

	store, err := Load(DefaultConfig(dir), nil)
	assert.NoError(err)
	assert.Equal(1, store.TrustSafetyDomains.Len())
	assert.Equal(2, store.TrustSafetyWords.Len())
	assert.Equal(1, store.NewsDomains.Len())
	assert.Equal(2, store.GiveawayKeywords.Len())
	assert.Equal(1, store.CallsToAction.Len())
	assert.False(store.HasReferenceImages())

	assert.NoError(WriteImageHashes(filepath.Join(dir, "dog-hashes.csv"), []ImageHash{{Hash: 42, Source: "dog.png"}}))
	store, err = Load(DefaultConfig(dir), nil)
	assert.NoError(err)
	assert.True(store.HasReferenceImages())

	// a missing required file is a configuration error
	assert.NoError(os.Remove(filepath.Join(dir, "news-domains.csv")))
	_, err = Load(DefaultConfig(dir), nil)
	var cfgErr *ConfigError
	assert.True(errors.As(err, &cfgErr))

	// so is a missing column
	writeFile(t, dir, "news-domains.csv", "Domain,Outlet\napnews.com,AP\n")
	_, err = Load(DefaultConfig(dir), nil)
	assert.True(errors.As(err, &cfgErr))
	assert.Contains(err.Error(), "Source")

	// a malformed optional hash file is not ignored
	writeFile(t, dir, "news-domains.csv", "Domain,Source\napnews.com,AP\n")
	writeFile(t, dir, "dog-hashes.csv", "Hash\nnot-a-hash\n")
	_, err = Load(DefaultConfig(dir), nil)
	assert.True(errors.As(err, &cfgErr))
}
