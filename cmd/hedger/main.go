// Package main is the entry point for hedger, which builds a sparse Lasso
// hedge for a portfolio's P&L against a universe of stock returns.
//
// Input:
//   - a returns CSV (Date column plus one column per instrument, in percentage points)
//   - an optional instrument metadata CSV
//   - one line on stdin: "<portfolio_id> <pnl_1> ... <pnl_n>"
//
// Output is one "<instrument> <quantity>" line per hedge position on stdout.
// Logs go to stderr.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/hedger/internal/config"
	"github.com/aristath/hedger/internal/marketdata"
	"github.com/aristath/hedger/internal/modules/hedging"
	"github.com/aristath/hedger/pkg/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hedger",
		Short: "Build a sparse Lasso hedge for a portfolio P&L series",
		Long: `hedger reads a portfolio id and its P&L series from stdin, regresses the
P&L on historical stock returns with an L1 penalty, and prints the integer
quantity to trade in each selected instrument.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}

			log := logger.New(logger.Config{
				Level:  cfg.LogLevel,
				Pretty: cfg.LogPretty,
				Output: cmd.ErrOrStderr(),
			})
			logger.SetGlobalLogger(log)

			return run(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), log)
		},
	}

	flags := root.Flags()
	flags.String("returns", "", "returns CSV path (overrides HEDGER_RETURNS_PATH)")
	flags.String("metadata", "", "metadata CSV path, empty to skip (overrides HEDGER_METADATA_PATH)")
	flags.Float64("alpha", 0, "L1 penalty weight (overrides HEDGER_ALPHA)")
	flags.Int("max-iter", 0, "coordinate-descent pass limit (overrides HEDGER_MAX_ITER)")
	flags.Float64("tol", 0, "convergence tolerance (overrides HEDGER_TOL)")
	flags.Float64("scale", 0, "divisor applied to returns (overrides HEDGER_RETURNS_SCALE)")
	flags.Bool("positive", false, "restrict hedge weights to be non-negative (overrides HEDGER_POSITIVE)")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hedger %s (%s)\n", version, commit)
		},
	})

	return root
}

// applyFlags copies explicitly set flags over the environment configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("returns") {
		cfg.ReturnsPath, _ = flags.GetString("returns")
	}
	if flags.Changed("metadata") {
		cfg.MetadataPath, _ = flags.GetString("metadata")
	}
	if flags.Changed("alpha") {
		cfg.Alpha, _ = flags.GetFloat64("alpha")
	}
	if flags.Changed("max-iter") {
		cfg.MaxIter, _ = flags.GetInt("max-iter")
	}
	if flags.Changed("tol") {
		cfg.Tol, _ = flags.GetFloat64("tol")
	}
	if flags.Changed("scale") {
		cfg.ReturnsScale, _ = flags.GetFloat64("scale")
	}
	if flags.Changed("positive") {
		cfg.Positive, _ = flags.GetBool("positive")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// run loads the inputs, builds the hedge and writes the positions.
func run(cfg *config.Config, stdin io.Reader, stdout io.Writer, log zerolog.Logger) error {
	returns, err := marketdata.LoadReturnsFile(cfg.ReturnsPath, cfg.ReturnsScale)
	if err != nil {
		return err
	}
	log.Debug().
		Str("path", cfg.ReturnsPath).
		Int("rows", returns.NumRows()).
		Int("instruments", len(returns.Columns)).
		Msg("Loaded reference returns")

	var metadata marketdata.Metadata
	if cfg.MetadataPath != "" {
		metadata, err = marketdata.LoadMetadataFile(cfg.MetadataPath)
		if err != nil {
			return err
		}
		log.Debug().Int("instruments", len(metadata)).Msg("Loaded instrument metadata")
	}

	series, err := marketdata.ReadPortfolio(stdin)
	if err != nil {
		return err
	}

	builder := hedging.NewBuilder(log,
		hedging.WithMaxIter(cfg.MaxIter),
		hedging.WithTolerance(cfg.Tol),
		hedging.WithPositive(cfg.Positive),
	)
	result, err := builder.Build(returns, series.ID, series.PnL, cfg.Alpha)
	if err != nil {
		return fmt.Errorf("failed to build hedge for %s: %w", series.ID, err)
	}

	if metadata != nil {
		ids := make([]string, len(result.Positions))
		for i, p := range result.Positions {
			ids[i] = p.Instrument
		}
		if missing := metadata.Missing(ids); len(missing) > 0 {
			log.Debug().Strs("instruments", missing).Msg("Hedge instruments without metadata")
		}
	}

	return hedging.WritePositions(stdout, result.Positions)
}
