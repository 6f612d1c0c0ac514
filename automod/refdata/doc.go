// Package refdata loads the static reference lists the detectors match against: trust-and-safety domains and words,
// news domains with their source names, giveaway keywords and calls to action, and perceptual hashes of reference
// images.
//
// Everything is loaded once at startup and never mutated afterwards, so a [Store] can be shared between goroutines
// without locking. Missing or malformed input files are reported as a [*ConfigError], which callers treat as fatal.
package refdata
