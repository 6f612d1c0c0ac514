package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	comatproto "github.com/RachMink/cs5342-spring2025-team7/api/atproto"
	appbsky "github.com/RachMink/cs5342-spring2025-team7/api/bsky"
	"github.com/RachMink/cs5342-spring2025-team7/atproto/identity"
	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
	"github.com/RachMink/cs5342-spring2025-team7/util"
	"github.com/RachMink/cs5342-spring2025-team7/xrpc"

	"golang.org/x/time/rate"
)

// Resolves post URLs by looking up the author's PDS and reading the record from it.
type PostResolver struct {
	Directory identity.Directory
	// Optional limit on getRecord calls
	Limiter *rate.Limiter
	// Defaults to a retrying client
	HTTPClient *http.Client
}

var _ engine.PostResolver = (*PostResolver)(nil)

func NewPostResolver(dir identity.Directory, limiter *rate.Limiter) *PostResolver {
	return &PostResolver{
		Directory:  dir,
		Limiter:    limiter,
		HTTPClient: util.RobustHTTPClient(),
	}
}

func (r *PostResolver) FetchPost(ctx context.Context, url string) (*engine.PostRecord, error) {
	aturi, err := helpers.ParsePostURL(url)
	if err != nil {
		return nil, err
	}
	authority, err := aturi.Authority()
	if err != nil {
		return nil, err
	}
	rkey, err := aturi.RecordKey()
	if err != nil {
		return nil, err
	}

	ident, err := r.Directory.Lookup(ctx, authority)
	if err != nil {
		if errors.Is(err, identity.ErrHandleNotFound) || errors.Is(err, identity.ErrDIDNotFound) {
			return nil, fmt.Errorf("resolving post author %s: %w", authority, engine.ErrNotFound)
		}
		return nil, fmt.Errorf("resolving post author %s: %w", authority, err)
	}
	pds, err := ident.RequirePDS()
	if err != nil {
		return nil, err
	}

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	xrpcc := xrpc.Client{
		Client: r.HTTPClient,
		Host:   pds,
	}
	out, err := comatproto.RepoGetRecord(ctx, &xrpcc, "", appbsky.FeedPostNSID, ident.DID.String(), rkey.String())
	if err != nil {
		if xrpc.IsNotFound(err) {
			postFetches.WithLabelValues("not-found").Inc()
			return nil, fmt.Errorf("post %s: %w", aturi, engine.ErrNotFound)
		}
		postFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetching post record: %w", err)
	}

	var post appbsky.FeedPost
	if err := json.Unmarshal(out.Value, &post); err != nil {
		postFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decoding post record: %w", err)
	}
	postFetches.WithLabelValues("ok").Inc()

	rec := &engine.PostRecord{
		URI:           syntax.NewRecordURI(ident.DID.AtIdentifier(), syntax.NSID(appbsky.FeedPostNSID), rkey),
		AuthorDID:     ident.DID,
		Text:          post.Text,
		ExternalLinks: helpers.ExtractPostURLs(&post),
		Images:        helpers.ExtractImageRefs(&post),
		CreatedAt:     post.CreatedAt,
	}
	if out.Cid != nil {
		rec.CID = *out.Cid
	}
	return rec, nil
}
