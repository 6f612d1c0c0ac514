package visual

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/RachMink/cs5342-spring2025-team7/automod/refdata"

	"github.com/stretchr/testify/assert"
)

func gradientPNG(t *testing.T, invert bool) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			v := uint8((x*3 + y) % 256)
			if invert {
				v = 255 - v
			}
			img.Set(x, y, color.RGBA{R: v, G: uint8(x * 4), B: uint8(y * 4), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// flips the lowest n bits
func flipBits(h uint64, n int) uint64 {
	for i := 0; i < n; i++ {
		h ^= 1 << uint(i)
	}
	return h
}

func TestHashImage(t *testing.T) {
	assert := assert.New(t)

	data := gradientPNG(t, false)
	h1, err := HashImage(data)
	assert.NoError(err)
	h2, err := HashImage(data)
	assert.NoError(err)
	assert.Equal(h1, h2)

	_, err = HashImage([]byte("not an image"))
	assert.Error(err)
}

func TestNormalizedDistance(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0.0, NormalizedDistance(0xdeadbeef, 0xdeadbeef))
	assert.Equal(1.0, NormalizedDistance(0, ^uint64(0)))
	assert.Equal(0.25, NormalizedDistance(0, flipBits(0, 16)))
}

func TestMatchesReference(t *testing.T) {
	assert := assert.New(t)

	h, err := HashImage(gradientPNG(t, false))
	assert.NoError(err)

	// zero distance always matches
	refs := refdata.NewImageHashSet([]refdata.ImageHash{{Hash: h, Source: "same.png"}})
	ref, ok := MatchesReference(h, refs, DefaultMatchThreshold)
	assert.True(ok)
	assert.Equal("same.png", ref.Source)

	// exactly at threshold is not a match
	refs = refdata.NewImageHashSet([]refdata.ImageHash{{Hash: flipBits(h, 16), Source: "edge.png"}})
	_, ok = MatchesReference(h, refs, 0.25)
	assert.False(ok)
	_, ok = MatchesReference(h, refs, 0.26)
	assert.True(ok)

	// first qualifying reference wins
	refs = refdata.NewImageHashSet([]refdata.ImageHash{
		{Hash: ^h, Source: "far.png"},
		{Hash: flipBits(h, 3), Source: "near.png"},
		{Hash: h, Source: "exact.png"},
	})
	ref, ok = MatchesReference(h, refs, DefaultMatchThreshold)
	assert.True(ok)
	assert.Equal("near.png", ref.Source)

	_, ok = MatchesReference(h, nil, DefaultMatchThreshold)
	assert.False(ok)
}

func TestHashDirectory(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	assert.NoError(os.WriteFile(filepath.Join(dir, "b.png"), gradientPNG(t, true), 0o644))
	assert.NoError(os.WriteFile(filepath.Join(dir, "a.PNG"), gradientPNG(t, false), 0o644))
	assert.NoError(os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("nope"), 0o644))
	assert.NoError(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	hashes, err := HashDirectory(dir, nil)
	assert.NoError(err)
	assert.Equal(2, len(hashes))
	assert.Equal("a.PNG", hashes[0].Source)
	assert.Equal("b.png", hashes[1].Source)
}

func TestBlobFetcher(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("imagebytes"))
		case "/big":
			w.Write(bytes.Repeat([]byte("x"), 64))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewBlobFetcher(50*time.Millisecond, nil)
	f.MaxSize = 32

	data, err := f.FetchImage(ctx, srv.URL+"/ok")
	assert.NoError(err)
	assert.Equal("imagebytes", string(data))

	_, err = f.FetchImage(ctx, srv.URL+"/missing")
	assert.Error(err)

	_, err = f.FetchImage(ctx, srv.URL+"/big")
	assert.ErrorIs(err, ErrBlobTooLarge)

	_, err = f.FetchImage(ctx, srv.URL+"/slow")
	assert.Error(err)
}

func TestBlobURLs(t *testing.T) {
	assert := assert.New(t)

	did := syntax.DID("did:plc:abc111")
	assert.Equal(
		"https://pds.example.com/xrpc/com.atproto.sync.getBlob?did=did%3Aplc%3Aabc111&cid=bafkreiabc",
		BlobURL("https://pds.example.com/", did, "bafkreiabc"),
	)
	assert.Equal(
		"https://cdn.bsky.app/img/feed_fullsize/plain/did:plc:abc111/bafkreiabc@jpeg",
		CDNURL(DefaultCDNTemplate, did, "bafkreiabc"),
	)
}
