package atproto

import (
	"encoding/json"
)

// Reference to a blob, as embedded in a record. Decodes both the current
// form ({"$type":"blob","ref":{"$link":...}}) and the legacy form ({"cid":...}).
type LexBlob struct {
	Ref      string
	MimeType string
	Size     int64
}

type blobSchema struct {
	LexiconTypeID string `json:"$type,omitempty"`
	Ref           *struct {
		Link string `json:"$link"`
	} `json:"ref,omitempty"`
	Cid      string `json:"cid,omitempty"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

func (b *LexBlob) UnmarshalJSON(raw []byte) error {
	var s blobSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	b.MimeType = s.MimeType
	b.Size = s.Size
	if s.Ref != nil {
		b.Ref = s.Ref.Link
	} else {
		b.Ref = s.Cid
	}
	return nil
}

func (b LexBlob) MarshalJSON() ([]byte, error) {
	s := blobSchema{
		LexiconTypeID: "blob",
		MimeType:      b.MimeType,
		Size:          b.Size,
	}
	s.Ref = &struct {
		Link string `json:"$link"`
	}{Link: b.Ref}
	return json.Marshal(s)
}
