package replay

import (
	"log/slog"
	"sync"

	"github.com/randalmurphal/chatcost/model"
)

// Summary is the replay outcome for one conversation.
type Summary struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Result Result `json:"result"`
}

// Totals aggregates usage and cost across a set of conversations.
type Totals struct {
	Conversations int         `json:"conversations"`
	Usage         model.Usage `json:"usage"`
	Cost          Cost        `json:"cost"`
}

// Report is the outcome of replaying a set of conversations.
type Report struct {
	Pricing       model.Pricing `json:"pricing"`
	Conversations []Summary     `json:"conversations"`
	Totals        Totals        `json:"totals"`
}

// Replay replays each conversation independently and sums the results.
// Summaries keep the input order regardless of parallelism.
func Replay(convs []Conversation, pricing model.Pricing, opts ...Option) Report {
	o := buildOptions(opts)
	acc := &Accumulator{counter: o.counter}
	tracker := model.NewTracker(pricing)

	summaries := make([]Summary, len(convs))
	replayOne := func(i int) {
		conv := convs[i]
		res := acc.Accumulate(conv.Messages, pricing)
		tracker.Record(conv.Index, res.Usage)
		summaries[i] = Summary{Index: conv.Index, Title: conv.Title, Result: res}

		slog.Debug("replayed conversation",
			slog.Int("index", conv.Index),
			slog.Int("messages", len(conv.Messages)),
			slog.Int("input_tokens", res.Usage.InputTokens),
			slog.Int("output_tokens", res.Usage.OutputTokens))
	}

	if o.parallel < 2 || len(convs) < 2 {
		for i := range convs {
			replayOne(i)
		}
	} else {
		sem := make(chan struct{}, o.parallel)
		var wg sync.WaitGroup
		for i := range convs {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				replayOne(i)
			}(i)
		}
		wg.Wait()
	}

	total := tracker.TotalUsage()
	return Report{
		Pricing:       pricing,
		Conversations: summaries,
		Totals: Totals{
			Conversations: len(convs),
			Usage:         total,
			Cost:          NewCost(total, tracker.Pricing()),
		},
	}
}
