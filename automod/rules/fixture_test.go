package rules

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/keyword"
	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"
)

const (
	fixtureURL = "https://bsky.app/profile/did:plc:abc111/post/3kabc"
	fixtureDID = syntax.DID("did:plc:abc111")
)

func referenceFixture() *refdata.Store {
	return &refdata.Store{
		TrustSafetyDomains: refdata.NewDictionary([]string{"scam-crypto.example", "phish.example.net"}),
		TrustSafetyWords:   keyword.NewPhraseSet([]string{"cat", "wire transfer", "ve", "त"}),
		NewsDomains: refdata.NewNewsDomainMap([]refdata.Pair{
			{Key: "nytimes.com", Value: "New York Times"},
			{Key: "bbc.co.uk", Value: "BBC"},
			{Key: "apnews.com", Value: "Associated Press"},
		}),
		GiveawayKeywords: keyword.NewPhraseSet([]string{"giveaway", "free"}),
		CallsToAction:    keyword.NewPhraseSet([]string{"follow to enter", "retweet"}),
	}
}

func postFixture(text string) engine.PostRecord {
	return engine.PostRecord{
		URI:       syntax.ATURI("at://did:plc:abc111/app.bsky.feed.post/3kabc"),
		CID:       "bafyreiabc",
		AuthorDID: fixtureDID,
		Text:      text,
	}
}

func engineFixture() engine.Engine {
	eng := engine.EngineTestFixture()
	eng.Reference = referenceFixture()
	eng.Rules = DefaultRules()
	return eng
}

func gradientPNG(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for x := 0; x < 48; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8((x + y) * 2), B: uint8(y * 5), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
