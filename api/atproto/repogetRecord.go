package atproto

import (
	"context"
	"encoding/json"

	"github.com/RachMink/cs5342-spring2025-team7/xrpc"
)

// schema: com.atproto.repo.getRecord

type RepoGetRecord_Output struct {
	Cid *string `json:"cid,omitempty"`
	Uri string  `json:"uri"`
	// record body, decoded by the caller according to its collection
	Value json.RawMessage `json:"value"`
}

// Fetches a single record from a repository. Does not require auth.
//
// cid: optional; the CID of the version of the record. If not specified, returns the most recent version.
func RepoGetRecord(ctx context.Context, c *xrpc.Client, cid string, collection string, repo string, rkey string) (*RepoGetRecord_Output, error) {
	var out RepoGetRecord_Output

	params := map[string]interface{}{
		"collection": collection,
		"repo":       repo,
		"rkey":       rkey,
	}
	if cid != "" {
		params["cid"] = cid
	}
	if err := c.Do(ctx, xrpc.Query, "", "com.atproto.repo.getRecord", params, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
