package atproto

import (
	"context"

	"github.com/RachMink/cs5342-spring2025-team7/xrpc"
)

// schema: com.atproto.server.createSession

type ServerCreateSession_Input struct {
	// Handle or other identifier supported by the server for the authenticating user.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type ServerCreateSession_Output struct {
	AccessJwt  string `json:"accessJwt"`
	Did        string `json:"did"`
	Handle     string `json:"handle"`
	RefreshJwt string `json:"refreshJwt"`
}

// Create an authentication session.
func ServerCreateSession(ctx context.Context, c *xrpc.Client, input *ServerCreateSession_Input) (*ServerCreateSession_Output, error) {
	var out ServerCreateSession_Output
	if err := c.Do(ctx, xrpc.Procedure, "application/json", "com.atproto.server.createSession", nil, input, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
