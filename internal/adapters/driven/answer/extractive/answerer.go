// Package extractive provides an answer generator that works without
// any external completion service. It presents the retrieved excerpts
// directly, which keeps the ask path usable on air-gapped installs.
package extractive

import (
	"context"
	"fmt"

	"github.com/docquery-labs/docquery/internal/core/ports/driven"
)

// Ensure Answerer implements the interface.
var _ driven.AnswerGenerator = (*Answerer)(nil)

// Answerer formats retrieved context as the answer.
type Answerer struct{}

// New creates an extractive answerer.
func New() *Answerer {
	return &Answerer{}
}

// Answer returns the retrieved excerpts verbatim, headed by the
// question. With no context it says so rather than inventing one.
func (a *Answerer) Answer(_ context.Context, question, contextText string) (string, error) {
	if contextText == "" {
		return fmt.Sprintf("No relevant documents found for: %s", question), nil
	}
	return fmt.Sprintf("Most relevant excerpts for: %s\n\n%s", question, contextText), nil
}
