package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourname/sleeplog/internal/bootstrap"
)

// RootOptions holds global flags and the hooks commands use to reach the
// record store.
type RootOptions struct {
	Format string // "text" | "json" | "yaml"

	Open func(ctx context.Context) (*bootstrap.App, error)
	Now  func() time.Time
}

var ValidFormats = []string{"text", "json", "yaml"}

func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cmd := &cobra.Command{
		Use:           "sleeplog",
		Short:         "Log bed times, wake times and how sleepy you feel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(newBedCommand(opts))
	cmd.AddCommand(newWakeCommand(opts))
	cmd.AddCommand(newSleepinessCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newStreakCommand(opts))
	cmd.AddCommand(newSummaryCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	return cmd
}

// withApp opens the app for one command and always closes it, so pending
// writes reach storage before the process exits.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(app *bootstrap.App, out *OutputFormatter) error) error {
	app, err := opts.Open(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open records", err)
	}
	defer app.Close()
	return fn(app, newOutputFormatter(opts.Format, cmd.OutOrStdout()))
}
