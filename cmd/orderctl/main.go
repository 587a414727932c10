package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"order-intake/internal/config"
)

type options struct {
	matchConfig string
	logLevel    string
	catalog     string
	logger      zerolog.Logger
	matching    config.Matching
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "orderctl",
		Short: "Parse free-text supplier orders offline",
		Long: `orderctl runs the order intake pipeline against a catalog sheet
(CSV, XLS or XLSX) without the HTTP service or a database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			lvl, err := zerolog.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("log level %q: %w", opts.logLevel, err)
			}
			opts.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				Level(lvl).With().Timestamp().Logger()
			opts.matching, err = config.LoadMatching(opts.matchConfig)
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&opts.matchConfig, "match-config", os.Getenv("MATCH_CONFIG"), "YAML file with matching thresholds")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "catalog sheet (csv, xls, xlsx)")
	_ = cmd.MarkPersistentFlagRequired("catalog")

	cmd.AddCommand(parseCmd(opts))
	cmd.AddCommand(quickCmd(opts))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
