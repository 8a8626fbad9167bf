package driven

import "context"

// AnswerGenerator is the external completion step that consumes the
// assembled context verbatim. The retrieval core only feeds it text;
// provider selection, prompting and transport live outside this
// repository.
type AnswerGenerator interface {
	// Answer produces a grounded answer for question given context.
	Answer(ctx context.Context, question, contextText string) (string, error)
}
