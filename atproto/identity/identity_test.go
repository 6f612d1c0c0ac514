package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/stretchr/testify/assert"
)

var plcDocJSON = `{
  "@context": ["https://www.w3.org/ns/did/v1"],
  "id": "did:plc:ewvi7nxzyoun6zhxrhs64oiz",
  "alsoKnownAs": ["at://atproto.com"],
  "verificationMethod": [{
    "id": "did:plc:ewvi7nxzyoun6zhxrhs64oiz#atproto",
    "type": "Multikey",
    "controller": "did:plc:ewvi7nxzyoun6zhxrhs64oiz",
    "publicKeyMultibase": "zQ3shunBKsXixLxKtC5qeSG9E4J5RkGN57im31pcTzbNQnm5w"
  }],
  "service": [{
    "id": "#atproto_pds",
    "type": "AtprotoPersonalDataServer",
    "serviceEndpoint": "https://enoki.us-east.host.bsky.network"
  }]
}`

func TestParseIdentity(t *testing.T) {
	assert := assert.New(t)

	var doc DIDDocument
	assert.NoError(json.Unmarshal([]byte(plcDocJSON), &doc))

	ident := ParseIdentity(&doc)
	assert.Equal("did:plc:ewvi7nxzyoun6zhxrhs64oiz", ident.DID.String())
	assert.Equal(syntax.HandleInvalid, ident.Handle)
	assert.Equal("https://enoki.us-east.host.bsky.network", ident.PDSEndpoint())
	pds, err := ident.RequirePDS()
	assert.NoError(err)
	assert.Equal("https://enoki.us-east.host.bsky.network", pds)

	hdl, err := ident.DeclaredHandle()
	assert.NoError(err)
	assert.Equal("atproto.com", hdl.String())

	ident.AlsoKnownAs = []string{"https://example.com", "at://under_score", "at://Correct.Example.com"}
	hdl, err = ident.DeclaredHandle()
	assert.NoError(err)
	assert.Equal("correct.example.com", hdl.String())

	ident.AlsoKnownAs = nil
	_, err = ident.DeclaredHandle()
	assert.ErrorIs(err, ErrHandleNotDeclared)

	ident.Services = nil
	_, err = ident.RequirePDS()
	assert.Error(err)
}

func TestBaseDirectoryPLC(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/did:plc:abc123":
			w.Write([]byte(`{"id":"did:plc:abc123","service":[{"id":"#atproto_pds","type":"AtprotoPersonalDataServer","serviceEndpoint":"https://pds.example.com/"}]}`))
		case "/did:plc:broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := BaseDirectory{PLCURL: srv.URL, HTTPClient: *srv.Client()}
	ctx := context.Background()

	ident, err := dir.LookupDID(ctx, syntax.DID("did:plc:abc123"))
	assert.NoError(err)
	assert.Equal("https://pds.example.com/", ident.PDSEndpoint())
	pds, err := ident.RequirePDS()
	assert.NoError(err)
	assert.Equal("https://pds.example.com", pds)

	_, err = dir.LookupDID(ctx, syntax.DID("did:plc:missing"))
	assert.ErrorIs(err, ErrDIDNotFound)

	_, err = dir.LookupDID(ctx, syntax.DID("did:plc:broken"))
	assert.ErrorIs(err, ErrDIDResolutionFailed)

	_, err = dir.LookupDID(ctx, syntax.DID("did:key:zabc"))
	assert.Error(err)
}

func TestCacheDirectory(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	inner := NewMockDirectory()
	inner.Insert(Identity{
		DID:      syntax.DID("did:plc:abc123"),
		Handle:   syntax.Handle("alice.test"),
		Services: map[string]Service{"atproto_pds": {Type: "AtprotoPersonalDataServer", URL: "https://pds.test"}},
	})
	dir := NewCacheDirectory(&inner, 100, time.Hour, time.Hour)

	for i := 0; i < 3; i++ {
		ident, err := dir.Lookup(ctx, syntax.AtIdentifier("Alice.Test"))
		assert.NoError(err)
		assert.Equal("https://pds.test", ident.PDSEndpoint())
	}
	_, err := dir.LookupDID(ctx, syntax.DID("did:plc:abc123"))
	assert.NoError(err)
	assert.Equal(1, inner.Lookups)

	// negative results are cached as well
	for i := 0; i < 2; i++ {
		_, err = dir.LookupDID(ctx, syntax.DID("did:plc:nobody"))
		assert.True(errors.Is(err, ErrDIDNotFound))
	}
	assert.Equal(2, inner.Lookups)

	assert.NoError(dir.Purge(ctx, syntax.AtIdentifier("did:plc:nobody")))
	_, err = dir.LookupDID(ctx, syntax.DID("did:plc:nobody"))
	assert.Error(err)
	assert.Equal(3, inner.Lookups)

	_, err = dir.LookupHandle(ctx, syntax.HandleInvalid)
	assert.ErrorIs(err, ErrInvalidHandle)
}
