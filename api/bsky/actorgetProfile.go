package bsky

import (
	"context"

	"github.com/RachMink/cs5342-spring2025-team7/xrpc"
)

// schema: app.bsky.actor.getProfile

type ActorDefs_ProfileViewDetailed struct {
	Avatar         *string `json:"avatar,omitempty"`
	CreatedAt      *string `json:"createdAt,omitempty"`
	Description    *string `json:"description,omitempty"`
	Did            string  `json:"did"`
	DisplayName    *string `json:"displayName,omitempty"`
	FollowersCount *int64  `json:"followersCount,omitempty"`
	FollowsCount   *int64  `json:"followsCount,omitempty"`
	Handle         string  `json:"handle"`
	IndexedAt      *string `json:"indexedAt,omitempty"`
	PostsCount     *int64  `json:"postsCount,omitempty"`
}

// Get detailed profile view of an actor. Does not require auth, but contains relevant metadata with auth.
//
// actor: Handle or DID of account to fetch profile of.
func ActorGetProfile(ctx context.Context, c *xrpc.Client, actor string) (*ActorDefs_ProfileViewDetailed, error) {
	var out ActorDefs_ProfileViewDetailed

	params := map[string]interface{}{
		"actor": actor,
	}
	if err := c.Do(ctx, xrpc.Query, "", "app.bsky.actor.getProfile", params, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
