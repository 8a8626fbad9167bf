// Package analysis derives secondary document signals: frequency-based
// keywords, heuristic summaries, and query-relevant paragraph spans.
// Everything here is pure computation over extracted text; no state,
// no I/O.
package analysis
