package helpers

import (
	"fmt"

	appbsky "github.com/RachMink/cs5342-spring2025-team7/api/bsky"
)

type PostFacet struct {
	Text string
	URL  *string
	DID  *string
	Tag  *string
}

// Extracts facet features along with the text they annotate. Facets with bogus byte ranges are an error.
func ExtractFacets(post *appbsky.FeedPost) ([]PostFacet, error) {
	var out []PostFacet

	for _, facet := range post.Facets {
		if facet == nil || facet.Index == nil {
			continue
		}
		for _, feat := range facet.Features {
			if feat == nil {
				continue
			}
			if int(facet.Index.ByteEnd) > len(post.Text) || facet.Index.ByteStart < 0 || facet.Index.ByteStart > facet.Index.ByteEnd {
				return nil, fmt.Errorf("invalid facet byte range")
			}
			txt := post.Text[facet.Index.ByteStart:facet.Index.ByteEnd]

			if feat.RichtextFacet_Link != nil {
				out = append(out, PostFacet{
					Text: txt,
					URL:  &feat.RichtextFacet_Link.Uri,
				})
			}
			if feat.RichtextFacet_Tag != nil {
				out = append(out, PostFacet{
					Text: txt,
					Tag:  &feat.RichtextFacet_Tag.Tag,
				})
			}
			if feat.RichtextFacet_Mention != nil {
				out = append(out, PostFacet{
					Text: txt,
					DID:  &feat.RichtextFacet_Mention.Did,
				})
			}
		}
	}
	return out, nil
}

// Link facet URIs, in order. Unlike [ExtractFacets] this doesn't care whether byte ranges line up with the text.
func ExtractFacetURLs(post *appbsky.FeedPost) []string {
	var out []string
	for _, facet := range post.Facets {
		if facet == nil {
			continue
		}
		for _, feat := range facet.Features {
			if feat != nil && feat.RichtextFacet_Link != nil && feat.RichtextFacet_Link.Uri != "" {
				out = append(out, feat.RichtextFacet_Link.Uri)
			}
		}
	}
	return out
}

// URI of an external link card, either directly embedded or as the media half of a quote post.
func ExtractEmbedURL(post *appbsky.FeedPost) string {
	if post.Embed == nil {
		return ""
	}
	ext := post.Embed.EmbedExternal
	if ext == nil && post.Embed.EmbedRecordWithMedia != nil && post.Embed.EmbedRecordWithMedia.Media != nil {
		ext = post.Embed.EmbedRecordWithMedia.Media.EmbedExternal
	}
	if ext == nil || ext.External == nil {
		return ""
	}
	return ext.External.Uri
}

// Union of every outbound link in a post: http(s) URLs in the text, link facets, and the external embed. Order is
// first appearance in that sequence, duplicates removed.
func ExtractPostURLs(post *appbsky.FeedPost) []string {
	var all []string
	all = append(all, ExtractTextURLs(post.Text)...)
	all = append(all, ExtractFacetURLs(post)...)
	if u := ExtractEmbedURL(post); u != "" {
		all = append(all, u)
	}
	return DedupeStrings(all)
}

// Image blob reference, as found in a post embed.
type ImageRef struct {
	CID      string
	MimeType string
	Alt      string
}

// All embedded image blobs, including the media of quote posts, in order.
func ExtractImageRefs(post *appbsky.FeedPost) []ImageRef {
	if post.Embed == nil {
		return nil
	}
	imgs := post.Embed.EmbedImages
	if imgs == nil && post.Embed.EmbedRecordWithMedia != nil && post.Embed.EmbedRecordWithMedia.Media != nil {
		imgs = post.Embed.EmbedRecordWithMedia.Media.EmbedImages
	}
	if imgs == nil {
		return nil
	}
	var out []ImageRef
	seen := make(map[string]bool)
	for _, img := range imgs.Images {
		if img == nil || img.Image == nil || img.Image.Ref == "" || seen[img.Image.Ref] {
			continue
		}
		seen[img.Image.Ref] = true
		out = append(out, ImageRef{
			CID:      img.Image.Ref,
			MimeType: img.Image.MimeType,
			Alt:      img.Alt,
		})
	}
	return out
}
