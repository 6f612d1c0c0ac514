package rules

import (
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
	"github.com/RachMink/cs5342-spring2025-team7/automod/visual"
)

// Labels a post whose image is perceptually close to any reference image.
func ReferenceImageBlobRule(threshold float64, label string) engine.BlobRuleFunc {
	return func(c *engine.PostContext, img helpers.ImageRef, data []byte) (bool, error) {
		ref := c.Reference()
		if ref == nil || !ref.HasReferenceImages() {
			return false, nil
		}
		hash, err := visual.HashImage(data)
		if err != nil {
			return false, err
		}
		match, ok := visual.MatchesReference(hash, ref.ReferenceImages, threshold)
		if !ok {
			return false, nil
		}
		c.Logger.Info("image matched reference", "cid", img.CID, "reference", match.Source)
		c.AddLabel(label)
		return true, nil
	}
}
