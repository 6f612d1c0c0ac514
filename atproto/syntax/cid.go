package syntax

import (
	"fmt"
	"regexp"
	"strings"
)

var cidRegex = regexp.MustCompile(`^[a-zA-Z0-9+=]{8,256}$`)

// String-encoded CID, as found in blob references. Only the string syntax is
// checked; the multihash is not decoded.
type CID string

func ParseCID(raw string) (CID, error) {
	if !cidRegex.MatchString(raw) {
		return "", fmt.Errorf("CID syntax didn't validate via regex")
	}
	if strings.HasPrefix(raw, "Qm") {
		return "", fmt.Errorf("CIDv0 not allowed")
	}
	return CID(raw), nil
}

func (c CID) String() string {
	return string(c)
}
