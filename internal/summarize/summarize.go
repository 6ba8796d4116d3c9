// Package summarize produces elderly-friendly summaries of news text, with a
// remote LLM when configured and a local sentence-cut fallback otherwise.
package summarize

import (
	"context"

	"github.com/rs/zerolog/log"
)

// NaiveModel is the model identifier recorded for locally produced summaries.
const NaiveModel = "naive"

// Result is the outcome of a summarization: the text and the model that
// produced it. Remote reports whether the LLM was used; false means the
// local fallback ran, either because no key is configured or because the
// remote call returned an error.
type Result struct {
	Summary string
	Model   string
	Remote  bool
}

// Summarizer prefers the remote client and degrades to the naive summarizer.
// A nil remote client means local-only operation.
type Summarizer struct {
	remote   *OpenAIClient
	maxChars int
}

// New builds a Summarizer. An empty apiKey disables the remote client.
func New(apiKey, model string) *Summarizer {
	s := &Summarizer{maxChars: DefaultMaxChars}
	if apiKey != "" {
		s.remote = NewOpenAIClient(apiKey, model)
	}
	return s
}

// Available reports whether a remote LLM is configured.
func (s *Summarizer) Available() bool {
	return s.remote != nil
}

// Summarize returns a summary of text. The remote path is attempted first
// when configured; its failure is reported in the log and answered with the
// local fallback, never with an error to the caller.
func (s *Summarizer) Summarize(ctx context.Context, text string) Result {
	if s.remote != nil {
		summary, err := s.remote.Summarize(ctx, text)
		if err == nil {
			return Result{Summary: summary, Model: s.remote.Model(), Remote: true}
		}
		log.Warn().Err(err).Msg("Remote summarization failed, using local fallback")
	}
	return Result{Summary: Naive(text, s.maxChars), Model: NaiveModel}
}
