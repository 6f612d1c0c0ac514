package ozone

import (
	"encoding/json"
	"testing"

	"github.com/RachMink/cs5342-spring2025-team7/api/atproto"
	"github.com/stretchr/testify/assert"
)

func TestEmitEventEncoding(t *testing.T) {
	assert := assert.New(t)

	in := ModerationEmitEvent_Input{
		CreatedBy: "did:plc:labeler",
		Event: &ModerationEmitEvent_Input_Event{
			ModerationDefs_ModEventLabel: &ModerationDefs_ModEventLabel{
				CreateLabelVals: []string{"dog"},
				NegateLabelVals: []string{},
			},
		},
		Subject: &ModerationEmitEvent_Input_Subject{
			RepoStrongRef: &atproto.RepoStrongRef{Uri: "at://did:plc:abc/app.bsky.feed.post/3k", Cid: "bafyreia"},
		},
	}
	b, err := json.Marshal(&in)
	assert.NoError(err)

	var generic struct {
		CreatedBy string         `json:"createdBy"`
		Event     map[string]any `json:"event"`
		Subject   map[string]any `json:"subject"`
	}
	assert.NoError(json.Unmarshal(b, &generic))
	assert.Equal("did:plc:labeler", generic.CreatedBy)
	assert.Equal("tools.ozone.moderation.defs#modEventLabel", generic.Event["$type"])
	assert.Equal([]any{"dog"}, generic.Event["createLabelVals"])
	assert.Equal("com.atproto.repo.strongRef", generic.Subject["$type"])
	assert.Equal("bafyreia", generic.Subject["cid"])
}
