package visual

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"

	"github.com/corona10/goimagehash"

	// decoders for the image formats found in post blobs
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const hashBits = 64

var DefaultMatchThreshold = 0.3

// Decodes an image (jpeg, png, gif, or webp) and computes its 64-bit perceptual hash.
func HashImage(data []byte) (uint64, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		imageHashCount.WithLabelValues("decode-error").Inc()
		return 0, fmt.Errorf("decoding image: %w", err)
	}
	h, err := goimagehash.PerceptionHash(img)
	if err != nil {
		imageHashCount.WithLabelValues("hash-error").Inc()
		return 0, fmt.Errorf("hashing %s image: %w", format, err)
	}
	imageHashCount.WithLabelValues("ok").Inc()
	return h.GetHash(), nil
}

// Hamming distance between two perceptual hashes, scaled to [0, 1].
func NormalizedDistance(a, b uint64) float64 {
	ha := goimagehash.NewImageHash(a, goimagehash.PHash)
	hb := goimagehash.NewImageHash(b, goimagehash.PHash)
	d, err := ha.Distance(hb)
	if err != nil {
		// only possible for mismatched hash kinds
		return 1.0
	}
	return float64(d) / hashBits
}

// Returns the first reference hash strictly closer than threshold, in reference set order.
func MatchesReference(hash uint64, refs *refdata.ImageHashSet, threshold float64) (refdata.ImageHash, bool) {
	for _, ref := range refs.Hashes() {
		if NormalizedDistance(hash, ref.Hash) < threshold {
			return ref, true
		}
	}
	return refdata.ImageHash{}, false
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Hashes every image file directly inside dir, in file name order. Files which fail to decode are logged and skipped.
func HashDirectory(dir string, logger *slog.Logger) ([]refdata.ImageHash, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []refdata.ImageHash
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		h, err := HashImage(data)
		if err != nil {
			logger.Warn("skipping reference image", "file", e.Name(), "err", err)
			continue
		}
		out = append(out, refdata.ImageHash{Hash: h, Source: e.Name()})
	}
	return out, nil
}
