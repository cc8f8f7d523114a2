package model

import (
	"sync"
)

// Usage tracks replayed token usage.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	Requests     int `json:"requests"`
}

// Add adds the given usage to this usage.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.Requests += other.Requests
}

// TotalTokens returns the total tokens used.
func (u *Usage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// Tracker accumulates usage per conversation and prices the grand total.
// It is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	pricing Pricing
	totals  map[int]Usage
}

// NewTracker creates a tracker that prices usage at the given rates.
func NewTracker(pricing Pricing) *Tracker {
	return &Tracker{
		pricing: pricing,
		totals:  make(map[int]Usage),
	}
}

// Record adds usage for the conversation at index.
func (t *Tracker) Record(index int, usage Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	u := t.totals[index]
	u.Add(usage)
	t.totals[index] = u
}

// TotalUsage returns aggregated usage across all conversations.
func (t *Tracker) TotalUsage() Usage {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total Usage
	for _, u := range t.totals {
		total.Add(u)
	}
	return total
}

// Pricing returns the rates the tracker prices with.
func (t *Tracker) Pricing() Pricing {
	return t.pricing
}
