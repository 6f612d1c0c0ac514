// Client for the Google Safe Browsing v4 Lookup API (threatMatches:find).
//
// A whole set of URLs is checked with a single POST. Any match, for any threat type on any platform, makes the set unsafe.
package safebrowsing
