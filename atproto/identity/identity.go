package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RachMink/cs5342-spring2025-team7/atproto/syntax"
)

// Account identity, as parsed from a DID document. Handle is `handle.invalid`
// when the declared handle could not be verified.
type Identity struct {
	DID         syntax.DID
	Handle      syntax.Handle
	AlsoKnownAs []string
	// service fragment ID (without '#') to service
	Services map[string]Service
}

type Service struct {
	Type string
	URL  string
}

// Extracts identity fields from a DID document. Does not verify the handle.
func ParseIdentity(doc *DIDDocument) Identity {
	svc := make(map[string]Service)
	for _, s := range doc.Service {
		// the ID may be relative ("#atproto_pds") or absolute ("did:plc:abc#atproto_pds")
		parts := strings.SplitN(s.ID, "#", 2)
		if len(parts) != 2 {
			continue
		}
		if parts[0] != "" && parts[0] != doc.DID.String() {
			continue
		}
		svc[parts[1]] = Service{
			Type: s.Type,
			URL:  s.ServiceEndpoint,
		}
	}
	return Identity{
		DID:         doc.DID,
		Handle:      syntax.HandleInvalid,
		AlsoKnownAs: doc.AlsoKnownAs,
		Services:    svc,
	}
}

// Re-builds a DID document from the identity. Round-trips the fields parsed
// by [ParseIdentity].
func (i *Identity) DIDDocument() DIDDocument {
	doc := DIDDocument{
		DID:         i.DID,
		AlsoKnownAs: i.AlsoKnownAs,
	}
	for id, s := range i.Services {
		doc.Service = append(doc.Service, DocService{
			ID:              "#" + id,
			Type:            s.Type,
			ServiceEndpoint: s.URL,
		})
	}
	return doc
}

// First valid `at://` entry in alsoKnownAs, normalized. Does not check that
// the handle resolves back to the DID.
func (i *Identity) DeclaredHandle() (syntax.Handle, error) {
	for _, u := range i.AlsoKnownAs {
		if !strings.HasPrefix(u, "at://") || len(u) <= len("at://") {
			continue
		}
		hdl, err := syntax.ParseHandle(u[5:])
		if err != nil {
			continue
		}
		return hdl.Normalize(), nil
	}
	return "", ErrHandleNotDeclared
}

// The account's PDS base URL, or empty string if none is declared.
func (i *Identity) PDSEndpoint() string {
	return i.GetServiceEndpoint("atproto_pds")
}

func (i *Identity) GetServiceEndpoint(id string) string {
	if i.Services == nil {
		return ""
	}
	s, ok := i.Services[id]
	if !ok {
		return ""
	}
	return s.URL
}

// Returns the PDS endpoint, or an error describing why it is missing.
func (i *Identity) RequirePDS() (string, error) {
	pds := i.PDSEndpoint()
	if pds == "" {
		return "", fmt.Errorf("%w: no PDS declared for %s", errNoPDS, i.DID)
	}
	return strings.TrimSuffix(pds, "/"), nil
}

var errNoPDS = errors.New("identity has no PDS")
