// Package syntax parses and validates the atproto identifier types that show
// up in post URLs, records and identity documents: DIDs, handles, NSIDs,
// record keys, CIDs and AT-URIs.
//
// Parsing is syntax-only; nothing here touches the network.
package syntax
