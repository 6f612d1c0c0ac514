// Package engine composes moderation detectors into a per-post label set.
//
// An [Engine] resolves a post from its URL, runs the configured [RuleSet]
// against it, and produces a [Result]: either a set of labels, or a skip with
// a reason. Network collaborators (post and profile resolution, image
// download, threat lookups) are injected as interfaces, so the engine has no
// ambient global state and can be exercised with in-memory fakes.
package engine
