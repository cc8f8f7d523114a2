// Package chatcost estimates what chats held in a flat-rate chat app would
// have cost on a pay-per-token API.
//
// A chat app keeps the conversation on the server. A stateless API does not,
// so every new question resends the whole history as input. chatcost replays
// exported conversations under that model and prices the result.
//
// Each subpackage can be used independently:
//
//   - tokens: approximate token counting (whitespace chunks by default)
//   - model: pricing per million tokens and cross-conversation usage tracking
//   - replay: the replay accumulator and multi-conversation reports
//   - export: loading and validating Claude.ai exports and Claude Code sessions
//   - config: layered run configuration (defaults, file, env, flags)
//   - report: text and JSON rendering
//
// # Quick Start
//
//	import (
//	    "github.com/randalmurphal/chatcost/export"
//	    "github.com/randalmurphal/chatcost/model"
//	    "github.com/randalmurphal/chatcost/replay"
//	)
//
//	convs, err := export.Load("conversations.json")
//	if err != nil {
//	    return err
//	}
//	rep := replay.Replay(export.ToReplay(convs), model.DefaultPricing())
//	fmt.Printf("$%.2f\n", rep.Totals.Cost.Total)
//
// The chatcost command in cmd/chatcost wraps the same steps.
package chatcost
