package atproto

import (
	"context"

	"github.com/RachMink/cs5342-spring2025-team7/xrpc"
)

// schema: com.atproto.server.refreshSession

type ServerRefreshSession_Output struct {
	AccessJwt  string `json:"accessJwt"`
	Did        string `json:"did"`
	Handle     string `json:"handle"`
	RefreshJwt string `json:"refreshJwt"`
}

// Refresh an authentication session. Requires auth using the 'refreshJwt' (not the 'accessJwt').
func ServerRefreshSession(ctx context.Context, c *xrpc.Client) (*ServerRefreshSession_Output, error) {
	var out ServerRefreshSession_Output
	if err := c.Do(ctx, xrpc.Procedure, "", "com.atproto.server.refreshSession", nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
