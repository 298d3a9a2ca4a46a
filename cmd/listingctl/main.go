// Command listingctl runs listing searches and title generation from the
// shell, without the HTTP server. Results are printed as JSON on stdout;
// logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/use-agent/listingkit/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Config is loaded once, before any
// subcommand runs.
func newRootCmd() *cobra.Command {
	var (
		debug bool
		cfg   *config.Config
	)

	root := &cobra.Command{
		Use:           "listingctl",
		Short:         "Search product listings and generate titles",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg = config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			level := slog.LevelWarn
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log every step to stderr")

	cfgFn := func() *config.Config { return cfg }
	root.AddCommand(newSearchCmd(cfgFn), newTitlesCmd(cfgFn), newRunCmd(cfgFn))
	return root
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
