package bsky

import (
	"encoding/json"
	"fmt"
)

// schema: app.bsky.richtext.facet

// Annotation of a sub-string within rich text.
type RichtextFacet struct {
	Features []*RichtextFacet_Features_Elem `json:"features"`
	Index    *RichtextFacet_ByteSlice       `json:"index"`
}

// Byte offsets (not character offsets) into the UTF-8 encoded text, end exclusive.
type RichtextFacet_ByteSlice struct {
	ByteEnd   int64 `json:"byteEnd"`
	ByteStart int64 `json:"byteStart"`
}

// Facet feature for a URL. The text URL may have been simplified or truncated, but the facet reference should be a complete URL.
type RichtextFacet_Link struct {
	Uri string `json:"uri"`
}

// Facet feature for mention of another account.
type RichtextFacet_Mention struct {
	Did string `json:"did"`
}

// Facet feature for a hashtag. The text usually includes a '#' prefix, but the facet reference should not.
type RichtextFacet_Tag struct {
	Tag string `json:"tag"`
}

// Union of facet feature types. Unknown types decode without error and leave every field nil.
type RichtextFacet_Features_Elem struct {
	RichtextFacet_Link    *RichtextFacet_Link
	RichtextFacet_Mention *RichtextFacet_Mention
	RichtextFacet_Tag     *RichtextFacet_Tag
}

func (t *RichtextFacet_Features_Elem) MarshalJSON() ([]byte, error) {
	if t.RichtextFacet_Link != nil {
		return marshalTyped("app.bsky.richtext.facet#link", t.RichtextFacet_Link)
	}
	if t.RichtextFacet_Mention != nil {
		return marshalTyped("app.bsky.richtext.facet#mention", t.RichtextFacet_Mention)
	}
	if t.RichtextFacet_Tag != nil {
		return marshalTyped("app.bsky.richtext.facet#tag", t.RichtextFacet_Tag)
	}
	return nil, fmt.Errorf("cannot marshal empty enum")
}

func (t *RichtextFacet_Features_Elem) UnmarshalJSON(b []byte) error {
	typ, err := typeExtract(b)
	if err != nil {
		return err
	}

	switch typ {
	case "app.bsky.richtext.facet#link":
		t.RichtextFacet_Link = new(RichtextFacet_Link)
		return json.Unmarshal(b, t.RichtextFacet_Link)
	case "app.bsky.richtext.facet#mention":
		t.RichtextFacet_Mention = new(RichtextFacet_Mention)
		return json.Unmarshal(b, t.RichtextFacet_Mention)
	case "app.bsky.richtext.facet#tag":
		t.RichtextFacet_Tag = new(RichtextFacet_Tag)
		return json.Unmarshal(b, t.RichtextFacet_Tag)
	default:
		return nil
	}
}
