package tokens

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio used by
// EstimatingCounter. Approximately 4 characters equals 1 token for English text.
const DefaultCharsPerToken = 4.0

// Estimator names accepted by NewCounter.
const (
	EstimatorWhitespace = "whitespace"
	EstimatorChars      = "chars"
)

// ErrUnknownEstimator is returned by NewCounter for an unrecognized estimator name.
var ErrUnknownEstimator = errors.New("unknown token estimator")

// Counter estimates token counts for text.
type Counter interface {
	// Count estimates the number of tokens in the given text.
	Count(text string) int

	// FitsInLimit returns true if the text fits within the token limit.
	FitsInLimit(text string, limit int) bool
}

// WhitespaceCounter counts whitespace-delimited chunks as tokens.
// It is a coarse stand-in for a real subword tokenizer: absolute counts
// will differ from what an API reports, but growth across a conversation
// is preserved.
type WhitespaceCounter struct{}

// NewWhitespaceCounter creates the default token counter.
func NewWhitespaceCounter() *WhitespaceCounter {
	return &WhitespaceCounter{}
}

// Count returns the number of non-empty whitespace-separated segments in text.
// Leading and trailing whitespace is ignored, so blank text counts as 0.
func (c *WhitespaceCounter) Count(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	return len(strings.Fields(trimmed))
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *WhitespaceCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// EstimatingCounter uses a character-to-token ratio for estimation.
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token.
	// Default is 4, which works well for English text.
	CharsPerToken float64
}

// NewEstimatingCounter creates a ratio-based counter with default settings.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{
		CharsPerToken: DefaultCharsPerToken,
	}
}

// NewEstimatingCounterWithRatio creates a ratio-based counter with a custom ratio.
// If charsPerToken is <= 0, the default ratio (4.0) is used.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{
		CharsPerToken: charsPerToken,
	}
}

// Count estimates tokens as runes divided by CharsPerToken, rounded to nearest.
func (c *EstimatingCounter) Count(text string) int {
	runeCount := utf8.RuneCountInString(strings.TrimSpace(text))
	tokens := float64(runeCount) / c.CharsPerToken
	return int(tokens + 0.5)
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// NewCounter returns the counter registered under name.
// An empty name selects the whitespace counter.
func NewCounter(name string) (Counter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EstimatorWhitespace:
		return NewWhitespaceCounter(), nil
	case EstimatorChars:
		return NewEstimatingCounter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEstimator, name)
	}
}

// EstimateTokens is a convenience function using the whitespace counter.
func EstimateTokens(text string) int {
	return NewWhitespaceCounter().Count(text)
}

// ModelLimits contains context window sizes for common models.
var ModelLimits = map[string]int{
	"opus":   200000,
	"sonnet": 200000,
	"haiku":  200000,

	// Default fallback
	"default": 200000,
}

// GetModelLimit returns the token limit for a model, or a default if not found.
func GetModelLimit(model string) int {
	if limit, ok := ModelLimits[model]; ok {
		return limit
	}
	return ModelLimits["default"]
}
