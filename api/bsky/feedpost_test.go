package bsky

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedPostDecode(t *testing.T) {
	assert := assert.New(t)

	raw := `{
  "$type": "app.bsky.feed.post",
  "text": "giveaway! details at example.com/win",
  "createdAt": "2025-03-01T12:00:00.000Z",
  "facets": [
    {"index": {"byteStart": 21, "byteEnd": 36}, "features": [{"$type": "app.bsky.richtext.facet#link", "uri": "https://example.com/win"}]},
    {"index": {"byteStart": 0, "byteEnd": 8}, "features": [{"$type": "app.bsky.richtext.facet#tag", "tag": "giveaway"}, {"$type": "app.bsky.richtext.facet#unknown"}]}
  ],
  "embed": {
    "$type": "app.bsky.embed.recordWithMedia",
    "record": {"record": {"uri": "at://did:plc:abc/app.bsky.feed.post/3k", "cid": "bafyreia"}},
    "media": {
      "$type": "app.bsky.embed.images",
      "images": [
        {"alt": "a dog", "image": {"$type": "blob", "ref": {"$link": "bafkreidog"}, "mimeType": "image/jpeg", "size": 1234}},
        {"alt": "", "image": {"cid": "bafkreilegacy", "mimeType": "image/png"}}
      ]
    }
  }
}`

	var post FeedPost
	assert.NoError(json.Unmarshal([]byte(raw), &post))
	assert.Equal("giveaway! details at example.com/win", post.Text)
	assert.Equal(2, len(post.Facets))
	assert.Equal("https://example.com/win", post.Facets[0].Features[0].RichtextFacet_Link.Uri)
	assert.Equal("giveaway", post.Facets[1].Features[0].RichtextFacet_Tag.Tag)
	assert.Nil(post.Facets[1].Features[1].RichtextFacet_Link)

	rwm := post.Embed.EmbedRecordWithMedia
	assert.NotNil(rwm)
	assert.Equal("at://did:plc:abc/app.bsky.feed.post/3k", rwm.Record.Record.Uri)
	imgs := rwm.Media.EmbedImages
	assert.NotNil(imgs)
	assert.Equal("bafkreidog", imgs.Images[0].Image.Ref)
	assert.Equal(int64(1234), imgs.Images[0].Image.Size)
	assert.Equal("bafkreilegacy", imgs.Images[1].Image.Ref)

	// re-encoding keeps the union discriminators
	out, err := json.Marshal(&post)
	assert.NoError(err)
	var again FeedPost
	assert.NoError(json.Unmarshal(out, &again))
	assert.Equal("bafkreidog", again.Embed.EmbedRecordWithMedia.Media.EmbedImages.Images[0].Image.Ref)
}

func TestFeedPostExternalEmbed(t *testing.T) {
	assert := assert.New(t)

	raw := `{"text": "", "createdAt": "2025-03-01T12:00:00Z", "embed": {"$type": "app.bsky.embed.external", "external": {"uri": "https://news.example.com/a", "title": "A", "description": ""}}}`
	var post FeedPost
	assert.NoError(json.Unmarshal([]byte(raw), &post))
	assert.Equal("https://news.example.com/a", post.Embed.EmbedExternal.External.Uri)
	assert.Nil(post.Embed.EmbedImages)

	raw = `{"text": "hi", "createdAt": "2025-03-01T12:00:00Z", "embed": {"$type": "app.bsky.embed.somethingNew"}}`
	post = FeedPost{}
	assert.NoError(json.Unmarshal([]byte(raw), &post))
	assert.NotNil(post.Embed)
	assert.Nil(post.Embed.EmbedExternal)
}
