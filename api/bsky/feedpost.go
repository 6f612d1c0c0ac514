package bsky

import (
	"github.com/RachMink/cs5342-spring2025-team7/api/atproto"
)

// schema: app.bsky.feed.post

const FeedPostNSID = "app.bsky.feed.post"

// RECORDTYPE: FeedPost
type FeedPost struct {
	LexiconTypeID string `json:"$type,omitempty"`
	// Client-declared timestamp when this post was originally created.
	CreatedAt string         `json:"createdAt"`
	Embed     *FeedPost_Embed `json:"embed,omitempty"`
	// Annotations of text (mentions, URLs, hashtags, etc)
	Facets []*RichtextFacet `json:"facets,omitempty"`
	// Indicates human language of post primary text content.
	Langs []string          `json:"langs,omitempty"`
	Reply *FeedPost_ReplyRef `json:"reply,omitempty"`
	// Additional hashtags, in addition to any included in post text and facets.
	Tags []string `json:"tags,omitempty"`
	// The primary post content. May be an empty string, if there are embeds.
	Text string `json:"text"`
}

type FeedPost_ReplyRef struct {
	Parent *atproto.RepoStrongRef `json:"parent"`
	Root   *atproto.RepoStrongRef `json:"root"`
}
