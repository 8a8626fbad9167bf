// Package index implements the immutable TF-IDF term index and the
// cosine-similarity ranker over it.
//
// A TermIndex is built wholesale from a document batch, published by
// the facade with a single atomic pointer swap, and never mutated
// afterwards, so concurrent readers need no locking. Per-document
// weight vectors are L2-normalised at build time so cosine similarity
// reduces to a sparse dot product at query time.
package index
