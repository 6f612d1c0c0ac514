package helpers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
)

var postCollection = syntax.NSID("app.bsky.feed.post")

// Converts a web post link (https://bsky.app/profile/<handle-or-did>/post/<rkey>) or an AT-URI into a post AT-URI.
// The authority may still be a handle; resolving it is the caller's job.
func ParsePostURL(raw string) (syntax.ATURI, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "at://") {
		aturi, err := syntax.ParseATURI(raw)
		if err != nil {
			return "", err
		}
		coll, err := aturi.Collection()
		if err != nil || coll != postCollection {
			return "", fmt.Errorf("AT-URI is not a post: %s", raw)
		}
		if _, err := aturi.RecordKey(); err != nil {
			return "", fmt.Errorf("AT-URI has no record key: %s", raw)
		}
		return aturi, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing post URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("post URL must be http(s): %s", raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "profile" || parts[2] != "post" {
		return "", fmt.Errorf("not a post URL (expected /profile/<actor>/post/<rkey>): %s", raw)
	}
	actor, err := syntax.ParseAtIdentifier(parts[1])
	if err != nil {
		return "", fmt.Errorf("post URL actor: %w", err)
	}
	rkey, err := syntax.ParseRecordKey(parts[3])
	if err != nil {
		return "", fmt.Errorf("post URL record key: %w", err)
	}
	return syntax.NewRecordURI(actor.Normalize(), postCollection, rkey), nil
}
