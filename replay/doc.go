// Package replay estimates pay-per-token API cost for finished chat conversations.
//
// A flat-rate chat app keeps history on the server; the API does not. To ask a
// stateless API the next question, a client resends everything said so far.
// Replay models exactly that:
//
//   - a human turn is billed as input for the whole history up to and
//     including itself
//   - an assistant turn is billed as output for its own tokens only
//   - every turn, of either role, grows the history later turns must resend
//
// Input cost therefore grows quadratically with conversation length, and long
// assistant answers make every later question more expensive.
//
//	res := replay.Accumulate(messages, model.DefaultPricing())
//	fmt.Printf("%d in, %d out, $%.2f\n",
//	    res.Usage.InputTokens, res.Usage.OutputTokens, res.Cost.Total)
//
// Replay runs the accumulator over a set of conversations and sums the totals:
//
//	rep := replay.Replay(convs, pricing, replay.WithParallel(4))
package replay
