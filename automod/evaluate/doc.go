// Batch evaluation of moderation results against a hand-labeled expectations file.
//
// The expectations file is a CSV with a "URL" column and a "Labels" column, where labels are written as a list literal (eg, `['t-and-s', "BBC"]`).
package evaluate
