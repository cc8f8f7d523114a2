package model

import (
	"fmt"
	"strings"
)

// ModelName represents a normalized model family name.
type ModelName string

// Claude model family constants.
const (
	ModelOpus   ModelName = "opus"
	ModelSonnet ModelName = "sonnet"
	ModelHaiku  ModelName = "haiku"
)

// NormalizeModelName converts a full model identifier to its family alias.
// For example, "claude-sonnet-4-20250514" becomes "sonnet" and
// "claude-opus-4-5-20251101" becomes "opus".
// If the name doesn't match any known family it is returned lowercased.
func NormalizeModelName(name string) ModelName {
	lower := strings.ToLower(strings.TrimSpace(name))

	switch {
	case strings.Contains(lower, "opus"):
		return ModelOpus
	case strings.Contains(lower, "sonnet"):
		return ModelSonnet
	case strings.Contains(lower, "haiku"):
		return ModelHaiku
	}
	return ModelName(lower)
}

// LookupPricing returns the list price for a model name or alias.
func LookupPricing(name string) (Pricing, error) {
	m := NormalizeModelName(name)
	p, ok := ModelPrices[m]
	if !ok {
		return Pricing{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return p, nil
}
