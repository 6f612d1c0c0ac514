package fetch

import (
	"context"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/identity"
	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
	"github.com/RachMink/cs5342-spring2025-team7/automod/visual"
)

// Builds image blob addresses: getBlob on the author's PDS, or an image CDN when a template is configured.
type ImageAddresser struct {
	Directory   identity.Directory
	CDNTemplate string
}

var _ engine.BlobAddresser = (*ImageAddresser)(nil)

func (a *ImageAddresser) BlobURL(ctx context.Context, did syntax.DID, img helpers.ImageRef) (string, error) {
	if a.CDNTemplate != "" {
		return visual.CDNURL(a.CDNTemplate, did, img.CID), nil
	}
	ident, err := a.Directory.LookupDID(ctx, did)
	if err != nil {
		return "", err
	}
	pds, err := ident.RequirePDS()
	if err != nil {
		return "", err
	}
	return visual.BlobURL(pds, did, img.CID), nil
}
