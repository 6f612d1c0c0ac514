package engine

import (
	"context"
	"fmt"
	"time"

	comatproto "github.com/RachMink/cs5342-spring2025-team7/api/atproto"
	toolsozone "github.com/RachMink/cs5342-spring2025-team7/api/ozone"
)

// Publishes the labels of a moderated post to the moderation service as a single label event on the post's strong reference.
//
// The admin client is expected to be authenticated, and to carry any service proxy header needed to reach the labeler.
func (eng *Engine) persistLabels(ctx context.Context, res *Result) error {
	if res.URI == "" || res.CID == "" {
		return fmt.Errorf("can not label post without URI and CID: %s", res.URL)
	}
	xrpcc := eng.AdminClient
	if xrpcc.Auth == nil {
		return fmt.Errorf("admin client is not authenticated")
	}

	// the post deadline may have been used up by detectors; publishing gets its own budget
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	vals := res.Labels.Sorted()
	comment := "[automod]: auto-labeling post"
	_, err := toolsozone.ModerationEmitEvent(ctx, xrpcc, &toolsozone.ModerationEmitEvent_Input{
		CreatedBy: xrpcc.Auth.Did,
		Event: &toolsozone.ModerationEmitEvent_Input_Event{
			ModerationDefs_ModEventLabel: &toolsozone.ModerationDefs_ModEventLabel{
				Comment:         &comment,
				CreateLabelVals: vals,
				NegateLabelVals: []string{},
			},
		},
		Subject: &toolsozone.ModerationEmitEvent_Input_Subject{
			RepoStrongRef: &comatproto.RepoStrongRef{
				Uri: res.URI.String(),
				Cid: res.CID,
			},
		},
	})
	if err != nil {
		return err
	}
	for _, v := range vals {
		actionNewLabelCount.WithLabelValues(v).Inc()
	}
	eng.Logger.Info("published post labels", "uri", res.URI, "labels", vals)
	return nil
}
