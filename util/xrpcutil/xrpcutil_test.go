package xrpcutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePDS struct {
	refreshAuth string
	proxyHeader string
}

func (f *fakePDS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/xrpc/com.atproto.server.createSession":
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		if in["identifier"] != "labeler.example.com" || in["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "AuthenticationRequired", "message": "Invalid identifier or password"}`))
			return
		}
		w.Write([]byte(`{"did": "did:plc:labeler1", "handle": "labeler.example.com", "accessJwt": "access-1", "refreshJwt": "refresh-1"}`))
	case "/xrpc/com.atproto.server.refreshSession":
		f.refreshAuth = r.Header.Get("Authorization")
		f.proxyHeader = r.Header.Get("atproto-proxy")
		w.Write([]byte(`{"did": "did:plc:labeler1", "handle": "labeler.example.com", "accessJwt": "access-2", "refreshJwt": "refresh-2"}`))
	default:
		http.NotFound(w, r)
	}
}

func TestSessionClient(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	fake := &fakePDS{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	opts := DefaultClientOptions()
	opts.Host = srv.URL
	opts.Identifier = "labeler.example.com"
	opts.Password = "hunter2"
	opts.ProxyService = "atproto_labeler"

	client, err := NewClient(ctx, opts)
	assert.NoError(err)
	assert.Equal("did:plc:labeler1", client.Auth.Did)
	assert.Equal("access-1", client.Auth.AccessJwt)
	assert.Equal("did:plc:labeler1#atproto_labeler", client.Headers["atproto-proxy"])

	assert.NoError(Refresh(ctx, client))
	assert.Equal("Bearer refresh-1", fake.refreshAuth)
	assert.Equal("", fake.proxyHeader)
	assert.Equal("access-2", client.Auth.AccessJwt)
	assert.Equal("refresh-2", client.Auth.RefreshJwt)

	opts.Password = "wrong"
	_, err = NewClient(ctx, opts)
	assert.Error(err)

	_, err = NewClient(ctx, &ClientOptions{Host: srv.URL})
	assert.Error(err)
}
