// Package services implements the driving port interfaces.
// The knowledge base facade lives here: it owns the published term
// index and orchestrates calls to the driven ports (storage,
// extraction, settings).
//
// Services are pure Go with no CGO or external I/O of their own.
package services
