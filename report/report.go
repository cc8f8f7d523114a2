// Package report renders replay results for people and for scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/randalmurphal/chatcost/replay"
)

// Options controls what a report includes.
type Options struct {
	// Detailed adds the per-message breakdown and cost summary for each
	// conversation.
	Detailed bool

	// Totals adds a grand total across all conversations.
	Totals bool

	// ContextLimit, when positive, flags conversations whose replayed
	// history exceeds it.
	ContextLimit int
}

// Writer renders a replay.Report.
type Writer interface {
	Write(w io.Writer, rep replay.Report, opts Options) error
}

// New returns the writer for a format name ("text" or "json").
func New(format string) (Writer, error) {
	switch format {
	case "", "text":
		return Text{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Text renders a human-readable report.
type Text struct{}

// Write implements Writer.
func (Text) Write(w io.Writer, rep replay.Report, opts Options) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	warn := r.NewStyle().Foreground(lipgloss.Color("3"))

	var out []string
	for _, s := range rep.Conversations {
		if !opts.Detailed {
			out = append(out, fmt.Sprintf("%d. %s: %s", s.Index, displayTitle(s.Title), dollars(s.Result.Cost.Total)))
			continue
		}

		out = append(out,
			title.Render(fmt.Sprintf("Conversation %d: %s", s.Index, displayTitle(s.Title))),
			stepTable(s.Result.Steps),
			costBlock(s.Result.Cost),
		)
		if opts.ContextLimit > 0 && s.Result.History > opts.ContextLimit {
			out = append(out, warn.Render(fmt.Sprintf(
				"Warning: replayed history reaches %d tokens, beyond the %d-token context window",
				s.Result.History, opts.ContextLimit)))
		}
		out = append(out, "")
	}

	if opts.Totals {
		out = append(out, title.Render(fmt.Sprintf("Total across %d conversation(s)", rep.Totals.Conversations)))
		out = append(out, totalsBlock(rep.Totals))
	}

	for _, line := range out {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

func stepTable(steps []replay.Step) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Role", "Tokens", "Input", "Output", "Acc input", "Acc output")
	for i, s := range steps {
		t.Row(
			strconv.Itoa(i+1),
			string(s.Role),
			strconv.Itoa(s.Tokens),
			strconv.Itoa(s.Input),
			strconv.Itoa(s.Output),
			strconv.Itoa(s.AccInput),
			strconv.Itoa(s.AccOutput),
		)
	}
	return t.String()
}

func costBlock(c replay.Cost) string {
	return fmt.Sprintf(
		"Rates:       $%.2f / MTok input, $%.2f / MTok output\n"+
			"Input cost:  $%.4f\n"+
			"Output cost: $%.4f\n"+
			"Total cost:  %s",
		c.InputRate, c.OutputRate, c.Input, c.Output, dollars(c.Total))
}

func totalsBlock(t replay.Totals) string {
	return fmt.Sprintf(
		"Input tokens:  %d\n"+
			"Output tokens: %d\n"+
			"Total tokens:  %d\n"+
			"Input cost:    $%.4f\n"+
			"Output cost:   $%.4f\n"+
			"Total cost:    %s",
		t.Usage.InputTokens, t.Usage.OutputTokens, t.Usage.TotalTokens(), t.Cost.Input, t.Cost.Output, dollars(t.Cost.Total))
}

func dollars(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func displayTitle(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}

// JSON renders the report as indented JSON. Per-message steps are included
// only when Detailed is set.
type JSON struct{}

// Write implements Writer.
func (JSON) Write(w io.Writer, rep replay.Report, opts Options) error {
	if !opts.Detailed {
		trimmed := make([]replay.Summary, len(rep.Conversations))
		for i, s := range rep.Conversations {
			s.Result.Steps = nil
			trimmed[i] = s
		}
		rep.Conversations = trimmed
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
