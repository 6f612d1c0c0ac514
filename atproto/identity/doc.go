// Package identity resolves atproto account identifiers (handles and DIDs)
// to the account's DID document, which names its PDS host.
//
// The moderation pipeline only needs the PDS endpoint of a post's author (to
// fetch the post record and its image blobs), so this package skips signing
// keys and other verification material.
package identity
