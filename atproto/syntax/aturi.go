package syntax

import (
	"fmt"
	"regexp"
	"strings"
)

var aturiRegex = regexp.MustCompile(`^at:\/\/(?P<authority>[a-zA-Z0-9._:%-]+)(\/(?P<collection>[a-zA-Z0-9-.]+)(\/(?P<rkey>[a-zA-Z0-9_~.:-]{1,512}))?)?$`)

// An AT URI without query or fragment, eg "at://did:plc:abc/app.bsky.feed.post/3k2a".
type ATURI string

func ParseATURI(raw string) (ATURI, error) {
	if len(raw) > 8192 {
		return "", fmt.Errorf("ATURI is too long (8192 chars max)")
	}
	parts := aturiRegex.FindStringSubmatch(raw)
	if parts == nil {
		return "", fmt.Errorf("AT-URI syntax didn't validate via regex")
	}
	if _, err := ParseAtIdentifier(parts[1]); err != nil {
		return "", fmt.Errorf("AT-URI authority section neither a DID nor Handle: %s", parts[1])
	}
	if parts[3] != "" {
		if _, err := ParseNSID(parts[3]); err != nil {
			return "", fmt.Errorf("AT-URI first path segment not an NSID: %s", parts[3])
		}
	}
	if parts[5] != "" {
		if _, err := ParseRecordKey(parts[5]); err != nil {
			return "", fmt.Errorf("AT-URI second path segment not a RecordKey: %s", parts[5])
		}
	}
	return ATURI(raw), nil
}

// Builds a record AT-URI from its parts.
func NewRecordURI(authority AtIdentifier, collection NSID, rkey RecordKey) ATURI {
	return ATURI(fmt.Sprintf("at://%s/%s/%s", authority, collection, rkey))
}

func (n ATURI) Authority() (AtIdentifier, error) {
	parts := strings.SplitN(string(n), "/", 4)
	if len(parts) < 3 {
		return "", fmt.Errorf("AT-URI has no authority segment (invalid)")
	}
	return ParseAtIdentifier(parts[2])
}

func (n ATURI) Collection() (NSID, error) {
	parts := strings.SplitN(string(n), "/", 5)
	if len(parts) < 4 {
		return "", fmt.Errorf("AT-URI has no collection segment")
	}
	return ParseNSID(parts[3])
}

func (n ATURI) RecordKey() (RecordKey, error) {
	parts := strings.SplitN(string(n), "/", 6)
	if len(parts) < 5 {
		return "", fmt.Errorf("AT-URI has no record key segment")
	}
	return ParseRecordKey(parts[4])
}

func (n ATURI) String() string {
	return string(n)
}
