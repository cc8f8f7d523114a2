package model

import (
	"errors"
	"fmt"
	"math"
)

// TokensPerMillion is the pricing unit (one MTok).
const TokensPerMillion = 1_000_000

// Default rates in dollars per million tokens.
const (
	DefaultInputPerMillion  = 3.0
	DefaultOutputPerMillion = 15.0
)

var (
	// ErrInvalidPricing indicates a negative or non-finite rate.
	ErrInvalidPricing = errors.New("invalid pricing")

	// ErrUnknownModel indicates no price list entry exists for a model.
	ErrUnknownModel = errors.New("unknown model")
)

// Pricing holds per-million-token rates in dollars.
type Pricing struct {
	InputPerMillion  float64 `json:"input_per_million"`
	OutputPerMillion float64 `json:"output_per_million"`
}

// DefaultPricing returns the default rates (3 in, 15 out).
func DefaultPricing() Pricing {
	return Pricing{
		InputPerMillion:  DefaultInputPerMillion,
		OutputPerMillion: DefaultOutputPerMillion,
	}
}

// ModelPrices contains list pricing for Claude model families.
var ModelPrices = map[ModelName]Pricing{
	ModelOpus:   {InputPerMillion: 15.0, OutputPerMillion: 75.0},
	ModelSonnet: {InputPerMillion: 3.0, OutputPerMillion: 15.0},
	ModelHaiku:  {InputPerMillion: 0.80, OutputPerMillion: 4.0},
}

// Validate rejects negative, NaN and infinite rates.
func (p Pricing) Validate() error {
	if !validRate(p.InputPerMillion) {
		return fmt.Errorf("%w: input rate must be >= 0, got %v", ErrInvalidPricing, p.InputPerMillion)
	}
	if !validRate(p.OutputPerMillion) {
		return fmt.Errorf("%w: output rate must be >= 0, got %v", ErrInvalidPricing, p.OutputPerMillion)
	}
	return nil
}

func validRate(r float64) bool {
	return r >= 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// InputCost returns the dollar cost of n input tokens.
func (p Pricing) InputCost(n int) float64 {
	return float64(n) / TokensPerMillion * p.InputPerMillion
}

// OutputCost returns the dollar cost of n output tokens.
func (p Pricing) OutputCost(n int) float64 {
	return float64(n) / TokensPerMillion * p.OutputPerMillion
}

// Cost returns the total dollar cost of the given usage.
func (p Pricing) Cost(u Usage) float64 {
	return p.InputCost(u.InputTokens) + p.OutputCost(u.OutputTokens)
}
