// Package bench compares two ways of resolving the Book to Author reference
// in a document store: resolving references on the client after fetching the
// books, and a single server-side lookup/unwind aggregation.
//
// A Runner regenerates a deterministic dataset for each configured Scale,
// times every Strategy once and reports which one finished first.
package bench
