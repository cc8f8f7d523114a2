// Command chatcost estimates what chats held in a flat-rate chat app would
// have cost on the pay-per-token API.
//
// Usage:
//
//	chatcost [flags] conversations.json
//	chatcost [flags] session.jsonl
//	chatcost schema
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/chatcost/config"
	"github.com/randalmurphal/chatcost/export"
	"github.com/randalmurphal/chatcost/model"
	"github.com/randalmurphal/chatcost/replay"
	"github.com/randalmurphal/chatcost/report"
	"github.com/randalmurphal/chatcost/tokens"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	conversation int
	configPath   string
	watch        bool

	detailed      bool
	totals        bool
	inputRate     float64
	outputRate    float64
	model         string
	estimator     string
	charsPerToken float64
	format        string
	parallel      int
	logLevel      string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "chatcost [flags] <conversations.json|session.jsonl>",
		Short: "Estimate what chat conversations would cost on the pay-per-token API",
		Long: `chatcost replays exported conversations the way a stateless API sees them:
every human turn resends the whole history as input, every reply is output.

Accepts a Claude.ai conversations.json export or a Claude Code session .jsonl.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, f)
			if err != nil {
				return err
			}
			return runReport(cmd.Context(), cfg, f, args[0], stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.Flags()
	flags.IntVarP(&f.conversation, "conversation", "c", 0, "replay only the conversation at this 1-based index (0 = all)")
	flags.StringVar(&f.configPath, "config", "", "config file (.toml, .yaml, .json)")
	flags.BoolVar(&f.watch, "watch", false, "re-run the report whenever the input file changes")
	flags.BoolVar(&f.detailed, "detailed", false, "show per-message breakdown and per-conversation costs")
	flags.BoolVar(&f.totals, "totals", false, "show a grand total across conversations")
	flags.Float64Var(&f.inputRate, "input-rate", model.DefaultInputPerMillion, "input price in dollars per million tokens")
	flags.Float64Var(&f.outputRate, "output-rate", model.DefaultOutputPerMillion, "output price in dollars per million tokens")
	flags.StringVar(&f.model, "model", "", "use list pricing for a model (opus, sonnet, haiku)")
	flags.StringVar(&f.estimator, "estimator", tokens.EstimatorWhitespace, "token estimator: whitespace or chars")
	flags.Float64Var(&f.charsPerToken, "chars-per-token", tokens.DefaultCharsPerToken, "characters per token for the chars estimator")
	flags.StringVar(&f.format, "format", config.FormatText, "output format: text or json")
	flags.IntVar(&f.parallel, "parallel", 0, "replay up to N conversations concurrently")
	flags.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newSchemaCmd(stdout))
	return rootCmd
}

func newSchemaCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the conversations.json export format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := export.JSONSchema()
			if err != nil {
				return fmt.Errorf("build schema: %w", err)
			}
			_, err = fmt.Fprintln(stdout, string(data))
			return err
		},
	}
}

// buildConfig layers defaults, config file, environment and explicit flags.
func buildConfig(cmd *cobra.Command, f *cliFlags) (config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		if err := cfg.LoadFile(f.configPath); err != nil {
			return cfg, err
		}
	}
	cfg.LoadFromEnv()

	changed := cmd.Flags().Changed
	if changed("detailed") {
		cfg.Detailed = f.detailed
	}
	if changed("totals") {
		cfg.Totals = f.totals
	}
	if changed("input-rate") {
		cfg.InputRate = &f.inputRate
	}
	if changed("output-rate") {
		cfg.OutputRate = &f.outputRate
	}
	if changed("model") {
		cfg.Model = f.model
	}
	if changed("estimator") {
		cfg.Estimator = f.estimator
	}
	if changed("chars-per-token") {
		cfg.CharsPerToken = f.charsPerToken
	}
	if changed("format") {
		cfg.Format = f.format
	}
	if changed("parallel") {
		cfg.Parallel = f.parallel
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runReport(ctx context.Context, cfg config.Config, f *cliFlags, path string, stdout, stderr io.Writer) error {
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl})))
	defer slog.SetDefault(prev)

	pricing, err := cfg.Pricing()
	if err != nil {
		return err
	}
	counter, err := cfg.Counter()
	if err != nil {
		return err
	}
	writer, err := report.New(cfg.Format)
	if err != nil {
		return err
	}

	contextLimit := tokens.GetModelLimit("default")
	if cfg.Model != "" {
		contextLimit = tokens.GetModelLimit(string(model.NormalizeModelName(cfg.Model)))
	}
	opts := report.Options{
		Detailed:     cfg.Detailed,
		Totals:       cfg.Totals,
		ContextLimit: contextLimit,
	}

	once := func() error {
		convs, err := export.LoadAny(path)
		if err != nil {
			return err
		}
		selected, err := export.Select(convs, f.conversation)
		if err != nil {
			return err
		}
		rep := replay.Replay(selected, pricing,
			replay.WithCounter(counter),
			replay.WithParallel(cfg.Parallel))
		return writer.Write(stdout, rep, opts)
	}

	if err := once(); err != nil {
		return err
	}
	if !f.watch {
		return nil
	}

	slog.Info("watching for changes", slog.String("path", path))
	return export.Watch(ctx, path, once)
}
