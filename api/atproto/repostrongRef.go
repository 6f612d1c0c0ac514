package atproto

// schema: com.atproto.repo.strongRef

// A URI with a content-hash fingerprint.
type RepoStrongRef struct {
	LexiconTypeID string `json:"$type,omitempty"`
	Cid           string `json:"cid"`
	Uri           string `json:"uri"`
}
