package syntax

import (
	"errors"
	"regexp"
)

var recordKeyRegex = regexp.MustCompile(`^[a-zA-Z0-9_~.:-]{1,512}$`)

type RecordKey string

func ParseRecordKey(raw string) (RecordKey, error) {
	if raw == "" {
		return "", errors.New("expected record key, got empty string")
	}
	if raw == "." || raw == ".." {
		return "", errors.New("recordkey can not be '.' or '..'")
	}
	if !recordKeyRegex.MatchString(raw) {
		return "", errors.New("recordkey syntax didn't validate via regex")
	}
	return RecordKey(raw), nil
}

func (r RecordKey) String() string {
	return string(r)
}
