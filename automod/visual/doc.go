// Perceptual image matching against a reference corpus, and the HTTP fetcher for post image blobs.
package visual
