package bsky

import (
	"encoding/json"
	"fmt"

	"github.com/RachMink/cs5342-spring2025-team7/api/atproto"
)

// schema: app.bsky.embed.images

type EmbedImages struct {
	Images []*EmbedImages_Image `json:"images"`
}

type EmbedImages_Image struct {
	// Alt text description of the image, for accessibility.
	Alt   string           `json:"alt"`
	Image *atproto.LexBlob `json:"image"`
}

// schema: app.bsky.embed.external

// A representation of some externally linked content (eg, a URL and 'card'), embedded in a Bluesky record (eg, a post).
type EmbedExternal struct {
	External *EmbedExternal_External `json:"external"`
}

type EmbedExternal_External struct {
	Description string           `json:"description"`
	Thumb       *atproto.LexBlob `json:"thumb,omitempty"`
	Title       string           `json:"title"`
	Uri         string           `json:"uri"`
}

// schema: app.bsky.embed.record

// A representation of a record embedded in a Bluesky record (eg, a post). For example, a quote-post.
type EmbedRecord struct {
	Record *atproto.RepoStrongRef `json:"record"`
}

// schema: app.bsky.embed.video

type EmbedVideo struct {
	Alt   *string          `json:"alt,omitempty"`
	Video *atproto.LexBlob `json:"video"`
}

// schema: app.bsky.embed.recordWithMedia

// A representation of a record embedded in a Bluesky record (eg, a post), alongside other compatible embeds.
type EmbedRecordWithMedia struct {
	Media  *EmbedRecordWithMedia_Media `json:"media"`
	Record *EmbedRecord                `json:"record"`
}

type EmbedRecordWithMedia_Media struct {
	EmbedImages   *EmbedImages
	EmbedExternal *EmbedExternal
	EmbedVideo    *EmbedVideo
}

func (t *EmbedRecordWithMedia_Media) MarshalJSON() ([]byte, error) {
	if t.EmbedImages != nil {
		return marshalTyped("app.bsky.embed.images", t.EmbedImages)
	}
	if t.EmbedExternal != nil {
		return marshalTyped("app.bsky.embed.external", t.EmbedExternal)
	}
	if t.EmbedVideo != nil {
		return marshalTyped("app.bsky.embed.video", t.EmbedVideo)
	}
	return nil, fmt.Errorf("cannot marshal empty enum")
}

func (t *EmbedRecordWithMedia_Media) UnmarshalJSON(b []byte) error {
	typ, err := typeExtract(b)
	if err != nil {
		return err
	}

	switch typ {
	case "app.bsky.embed.images":
		t.EmbedImages = new(EmbedImages)
		return json.Unmarshal(b, t.EmbedImages)
	case "app.bsky.embed.external":
		t.EmbedExternal = new(EmbedExternal)
		return json.Unmarshal(b, t.EmbedExternal)
	case "app.bsky.embed.video":
		t.EmbedVideo = new(EmbedVideo)
		return json.Unmarshal(b, t.EmbedVideo)
	default:
		return nil
	}
}

// Union of post embed types. Unknown types decode without error.
type FeedPost_Embed struct {
	EmbedImages          *EmbedImages
	EmbedExternal        *EmbedExternal
	EmbedRecord          *EmbedRecord
	EmbedRecordWithMedia *EmbedRecordWithMedia
	EmbedVideo           *EmbedVideo
}

func (t *FeedPost_Embed) MarshalJSON() ([]byte, error) {
	if t.EmbedImages != nil {
		return marshalTyped("app.bsky.embed.images", t.EmbedImages)
	}
	if t.EmbedExternal != nil {
		return marshalTyped("app.bsky.embed.external", t.EmbedExternal)
	}
	if t.EmbedRecord != nil {
		return marshalTyped("app.bsky.embed.record", t.EmbedRecord)
	}
	if t.EmbedRecordWithMedia != nil {
		return marshalTyped("app.bsky.embed.recordWithMedia", t.EmbedRecordWithMedia)
	}
	if t.EmbedVideo != nil {
		return marshalTyped("app.bsky.embed.video", t.EmbedVideo)
	}
	return nil, fmt.Errorf("cannot marshal empty enum")
}

func (t *FeedPost_Embed) UnmarshalJSON(b []byte) error {
	typ, err := typeExtract(b)
	if err != nil {
		return err
	}

	switch typ {
	case "app.bsky.embed.images":
		t.EmbedImages = new(EmbedImages)
		return json.Unmarshal(b, t.EmbedImages)
	case "app.bsky.embed.external":
		t.EmbedExternal = new(EmbedExternal)
		return json.Unmarshal(b, t.EmbedExternal)
	case "app.bsky.embed.record":
		t.EmbedRecord = new(EmbedRecord)
		return json.Unmarshal(b, t.EmbedRecord)
	case "app.bsky.embed.recordWithMedia":
		t.EmbedRecordWithMedia = new(EmbedRecordWithMedia)
		return json.Unmarshal(b, t.EmbedRecordWithMedia)
	case "app.bsky.embed.video":
		t.EmbedVideo = new(EmbedVideo)
		return json.Unmarshal(b, t.EmbedVideo)
	default:
		return nil
	}
}
