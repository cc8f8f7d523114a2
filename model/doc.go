// Package model provides pricing and usage accounting for replayed conversations.
//
// # Pricing
//
// Rates are expressed in dollars per million tokens:
//
//	p := model.DefaultPricing()              // 3 in, 15 out
//	p, err := model.LookupPricing("opus")    // list price for a family
//	cost := p.Cost(model.Usage{InputTokens: 181, OutputTokens: 411})
//
// # Tracking
//
// Tracker sums usage across conversations:
//
//	tracker := model.NewTracker(p)
//	tracker.Record(1, usage)
//	total := tracker.TotalUsage()
//	cost := tracker.Pricing().Cost(total)
package model
