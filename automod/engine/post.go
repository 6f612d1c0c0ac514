package engine

import (
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
	"github.com/RachMink/cs5342-spring2025-team7/automod/helpers"
)

// Returned by resolvers when the requested post or account does not exist.
var ErrNotFound = errors.New("not found")

// Immutable snapshot of a post, as fetched by a PostResolver.
type PostRecord struct {
	URI       syntax.ATURI
	CID       string
	AuthorDID syntax.DID
	Text      string
	// Ordered set of every link on the post: bare URLs in the text, link facets, and the external embed.
	ExternalLinks []string
	Images        []helpers.ImageRef
	CreatedAt     string
}

func (p *PostRecord) HasImages() bool {
	return len(p.Images) > 0
}

type ActorProfile struct {
	DID            syntax.DID
	Handle         syntax.Handle
	FollowersCount int64
	FollowsCount   int64
	PostsCount     int64
	// nil when the account has no (or an unparseable) creation timestamp
	CreatedAt *time.Time
}

// Derived from a single profile fetch; never persisted.
type BotScore struct {
	AccountAgeDays int64   `json:"account_age_days"`
	FollowRatio    float64 `json:"follow_ratio"`
	PostsPerDay    float64 `json:"posts_per_day"`
	IsBot          bool    `json:"is_bot"`
}

// Set of label values. The zero value is not usable; use NewLabelSet.
type LabelSet map[string]struct{}

func NewLabelSet(vals ...string) LabelSet {
	s := make(LabelSet, len(vals))
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func (s LabelSet) Add(val string) {
	if val == "" {
		return
	}
	s[val] = struct{}{}
}

func (s LabelSet) Has(val string) bool {
	_, ok := s[val]
	return ok
}

func (s LabelSet) Len() int {
	return len(s)
}

// Label values in lexical order.
func (s LabelSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func (s LabelSet) Equal(other LabelSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

func (s LabelSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *LabelSet) UnmarshalJSON(b []byte) error {
	var vals []string
	if err := json.Unmarshal(b, &vals); err != nil {
		return err
	}
	*s = NewLabelSet(vals...)
	return nil
}
