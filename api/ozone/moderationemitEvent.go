package ozone

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RachMink/cs5342-spring2025-team7/api/atproto"
	"github.com/RachMink/cs5342-spring2025-team7/xrpc"
)

// schema: tools.ozone.moderation.emitEvent

// Apply/Negate labels on a subject
type ModerationDefs_ModEventLabel struct {
	Comment         *string  `json:"comment,omitempty"`
	CreateLabelVals []string `json:"createLabelVals"`
	NegateLabelVals []string `json:"negateLabelVals"`
}

type ModerationEmitEvent_Input struct {
	CreatedBy string                           `json:"createdBy"`
	Event     *ModerationEmitEvent_Input_Event `json:"event"`
	Subject   *ModerationEmitEvent_Input_Subject `json:"subject"`
}

type ModerationEmitEvent_Input_Event struct {
	ModerationDefs_ModEventLabel *ModerationDefs_ModEventLabel
}

func (t *ModerationEmitEvent_Input_Event) MarshalJSON() ([]byte, error) {
	if t.ModerationDefs_ModEventLabel != nil {
		return marshalTyped("tools.ozone.moderation.defs#modEventLabel", t.ModerationDefs_ModEventLabel)
	}
	return nil, fmt.Errorf("cannot marshal empty enum")
}

type ModerationEmitEvent_Input_Subject struct {
	RepoStrongRef *atproto.RepoStrongRef
}

func (t *ModerationEmitEvent_Input_Subject) MarshalJSON() ([]byte, error) {
	if t.RepoStrongRef != nil {
		return marshalTyped("com.atproto.repo.strongRef", t.RepoStrongRef)
	}
	return nil, fmt.Errorf("cannot marshal empty enum")
}

// Only the fields this client reads; the full event view is larger.
type ModerationDefs_ModEventView struct {
	Id        int64  `json:"id"`
	CreatedAt string `json:"createdAt"`
	CreatedBy string `json:"createdBy"`
}

// Take a moderation action on an actor or record.
func ModerationEmitEvent(ctx context.Context, c *xrpc.Client, input *ModerationEmitEvent_Input) (*ModerationDefs_ModEventView, error) {
	var out ModerationDefs_ModEventView
	if err := c.Do(ctx, xrpc.Procedure, "application/json", "tools.ozone.moderation.emitEvent", nil, input, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func marshalTyped(typ string, v any) ([]byte, error) {
	inner, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, err
	}
	t, _ := json.Marshal(typ)
	fields["$type"] = t
	return json.Marshal(fields)
}
