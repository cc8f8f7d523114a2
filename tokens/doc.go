// Package tokens provides approximate token counting for chat transcripts.
//
// The default counter treats every whitespace-delimited chunk of text as one
// token. This is deliberately coarse: it is not a subword tokenizer, and real
// API counts will differ. What it preserves is the relative growth of a
// conversation, which is what replay-based cost estimation depends on.
//
//	counter := tokens.NewWhitespaceCounter()
//	count := counter.Count("  Hello,   world!\n")  // 2
//
// For one-off counting, use the convenience function:
//
//	count := tokens.EstimateTokens("Hello, world!")
//
// A character-ratio counter (~4 characters per token) is available as an
// alternative:
//
//	counter, err := tokens.NewCounter(tokens.EstimatorChars)
//
// # Model Limits
//
// GetModelLimit reports the context window for a model family, falling back
// to a default for unknown names.
package tokens
