package replay

import (
	"strings"

	"github.com/randalmurphal/chatcost/model"
	"github.com/randalmurphal/chatcost/tokens"
)

// HumanSender is the sender value that marks the human side of a conversation.
// Matching is case-insensitive.
const HumanSender = "human"

// Role is which side of the conversation produced a message.
type Role string

// Role constants. Any sender other than HumanSender replays as RoleAssistant,
// including values like "system".
const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// IsHuman reports whether sender is the human participant.
func IsHuman(sender string) bool {
	return strings.EqualFold(sender, HumanSender)
}

// RoleOf maps a raw sender value onto the two replay roles.
func RoleOf(sender string) Role {
	if IsHuman(sender) {
		return RoleHuman
	}
	return RoleAssistant
}

// Message is one turn of a conversation.
type Message struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Conversation is an ordered list of messages. Order is significant.
type Conversation struct {
	// Index is the 1-based position of the conversation in its source.
	Index    int       `json:"index"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// Step is the replay record for one message.
type Step struct {
	Role   Role `json:"role"`
	Tokens int  `json:"tokens"`

	// Input is the number of tokens this turn sends as input. For a human
	// turn it is the whole history including the turn; otherwise 0.
	Input int `json:"input"`

	// Output is the number of tokens this turn generates. For an assistant
	// turn it is the turn's own tokens; otherwise 0.
	Output int `json:"output"`

	// Running totals after this step.
	AccInput  int `json:"acc_input"`
	AccOutput int `json:"acc_output"`
	History   int `json:"history"`
}

// Cost is a dollar breakdown at a given pricing.
type Cost struct {
	InputRate  float64 `json:"input_rate"`
	OutputRate float64 `json:"output_rate"`
	Input      float64 `json:"input"`
	Output     float64 `json:"output"`
	Total      float64 `json:"total"`
}

// NewCost prices usage at the given rates.
func NewCost(usage model.Usage, pricing model.Pricing) Cost {
	in := pricing.InputCost(usage.InputTokens)
	out := pricing.OutputCost(usage.OutputTokens)
	return Cost{
		InputRate:  pricing.InputPerMillion,
		OutputRate: pricing.OutputPerMillion,
		Input:      in,
		Output:     out,
		Total:      pricing.Cost(usage),
	}
}

// Result is the outcome of replaying one conversation.
type Result struct {
	Steps []Step `json:"steps,omitempty"`

	// Usage holds accInput and accOutput; Requests counts human turns.
	Usage model.Usage `json:"usage"`

	// History is the final running history size.
	History int  `json:"history"`
	Cost    Cost `json:"cost"`
}

// Accumulator replays conversations with a fixed token counter.
// It holds no per-conversation state and is safe for concurrent use
// if its counter is.
type Accumulator struct {
	counter tokens.Counter
}

// Option configures an Accumulator or a Replay run.
type Option func(*options)

type options struct {
	counter  tokens.Counter
	parallel int
}

// WithCounter sets the token counter. The default is the whitespace counter.
func WithCounter(c tokens.Counter) Option {
	return func(o *options) {
		if c != nil {
			o.counter = c
		}
	}
}

// WithParallel replays up to n conversations at once. Values below 2 replay
// sequentially.
func WithParallel(n int) Option {
	return func(o *options) {
		o.parallel = n
	}
}

func buildOptions(opts []Option) options {
	o := options{
		counter:  tokens.NewWhitespaceCounter(),
		parallel: 1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewAccumulator creates an accumulator. Only WithCounter applies.
func NewAccumulator(opts ...Option) *Accumulator {
	o := buildOptions(opts)
	return &Accumulator{counter: o.counter}
}

// Accumulate replays messages in order and returns the per-message breakdown
// and totals priced at pricing.
func (a *Accumulator) Accumulate(messages []Message, pricing model.Pricing) Result {
	var (
		history   int
		accInput  int
		accOutput int
		requests  int
	)

	steps := make([]Step, 0, len(messages))
	for _, msg := range messages {
		n := a.counter.Count(msg.Text)
		next := history + n

		step := Step{Role: RoleOf(msg.Sender), Tokens: n, History: next}
		if step.Role == RoleHuman {
			accInput += next
			requests++
			step.Input = next
		} else {
			accOutput += n
			step.Output = n
		}
		step.AccInput = accInput
		step.AccOutput = accOutput
		steps = append(steps, step)

		history = next
	}

	usage := model.Usage{
		InputTokens:  accInput,
		OutputTokens: accOutput,
		Requests:     requests,
	}
	return Result{
		Steps:   steps,
		Usage:   usage,
		History: history,
		Cost:    NewCost(usage, pricing),
	}
}

// Accumulate replays messages with the default whitespace counter.
func Accumulate(messages []Message, pricing model.Pricing) Result {
	return NewAccumulator().Accumulate(messages, pricing)
}
