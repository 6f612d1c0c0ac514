package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// 64-bit perceptual hash of a reference image, with where it came from (file name or URL) for logging.
type ImageHash struct {
	Hash   uint64
	Source string
}

// Ordered, immutable set of reference image hashes.
type ImageHashSet struct {
	hashes []ImageHash
}

func NewImageHashSet(hashes []ImageHash) *ImageHashSet {
	out := make([]ImageHash, len(hashes))
	copy(out, hashes)
	return &ImageHashSet{hashes: out}
}

func (s *ImageHashSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hashes)
}

func (s *ImageHashSet) Hashes() []ImageHash {
	if s == nil {
		return nil
	}
	return s.hashes
}

// Parses a hash as written by `trusty hash-images`: 16 hex digits, optionally with the "p:" kind prefix.
func ParseImageHash(raw string) (uint64, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "p:")
	if len(raw) != 16 {
		return 0, fmt.Errorf("image hash must be 16 hex digits: %q", raw)
	}
	return strconv.ParseUint(raw, 16, 64)
}

func FormatImageHash(h uint64) string {
	return fmt.Sprintf("p:%016x", h)
}

// Reads a CSV with a "Hash" column and an optional "Source" column. Repeated hashes keep the first row.
func ReadImageHashes(r io.Reader) (*ImageHashSet, error) {
	cr := newReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	hidx, err := columnIndex(header, "Hash")
	if err != nil {
		return nil, err
	}
	sidx, _ := columnIndex(header, "Source")

	var hashes []ImageHash
	seen := make(map[uint64]bool)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		raw := cell(rec, hidx)
		if raw == "" {
			continue
		}
		h, err := ParseImageHash(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		ih := ImageHash{Hash: h}
		if sidx >= 0 {
			ih.Source = cell(rec, sidx)
		}
		hashes = append(hashes, ih)
	}
	return NewImageHashSet(hashes), nil
}

func LoadImageHashes(path string) (*ImageHashSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()
	set, err := ReadImageHashes(f)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return set, nil
}

func writeImageHashes(w io.Writer, hashes []ImageHash) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Hash", "Source"}); err != nil {
		return err
	}
	for _, h := range hashes {
		if err := cw.Write([]string{FormatImageHash(h.Hash), h.Source}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
