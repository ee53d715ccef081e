package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/bootstrap"
	"github.com/yourname/sleeplog/internal/service"
)

func newBedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bed [time]",
		Short: "Save the time you went to bed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App, out *OutputFormatter) error {
				start, err := parseWhen(firstArg(args), opts.Now(), app.Store.Location())
				if err != nil {
					return WrapExitError(ExitCommandError, "bed", err)
				}
				app.Store.BeginSession(cmd.Context(), start)
				data := map[string]interface{}{"pending_start": start}
				return out.Print(data, func(f *OutputFormatter) {
					f.Line("Bed time saved: %s", start.In(app.Store.Location()).Format(service.SampleLayout))
				})
			})
		},
	}
}

func newWakeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wake [time]",
		Short: "Save the time you woke up and close the night",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App, out *OutputFormatter) error {
				loc := app.Store.Location()
				end, err := parseWhen(firstArg(args), opts.Now(), loc)
				if err != nil {
					return WrapExitError(ExitCommandError, "wake", err)
				}
				sess, err := app.Store.Complete(cmd.Context(), end)
				switch {
				case errors.Is(err, service.ErrNoPendingStart):
					return NewExitError(ExitFailure, "You need to save a sleep time first.")
				case err != nil:
					return NewExitError(ExitFailure, "Wake-up time must be after your sleep time.")
				}
				data := map[string]interface{}{
					"session": sess,
					"hours":   service.RoundedHours(service.DurationHours(sess)),
					"label":   service.RestLabel(service.DurationHours(sess)),
					"streak":  app.Store.Streak(),
				}
				return out.Print(data, func(f *OutputFormatter) {
					f.Line("%s  %s", service.SummaryLine(sess, loc), f.Rest(service.RestLabel(service.DurationHours(sess))))
					f.Line("%s %d", f.Muted("streak:"), app.Store.Streak())
				})
			})
		},
	}
}

func newSleepinessCommand(opts *RootOptions) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "sleepiness <value>",
		Short: "Log how sleepy you feel on the Stanford scale (1-7)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "sleepiness value must be a whole number", err)
			}
			return withApp(cmd, opts, func(app *bootstrap.App, out *OutputFormatter) error {
				loc := app.Store.Location()
				when, err := parseWhen(at, opts.Now(), loc)
				if err != nil {
					return WrapExitError(ExitCommandError, "sleepiness", err)
				}
				sample := app.Store.LogSleepiness(cmd.Context(), value, when)
				return out.Print(sample, func(f *OutputFormatter) {
					f.Line("%s  %s", service.SampleLabel(sample, loc), service.SampleSummary(sample))
					if desc := service.SleepinessDescription(sample.Value); desc != "" {
						f.Line("%s", f.Muted(desc))
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "when you felt this way (default now)")
	return cmd
}

func newDeleteCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a record by its position in the listing",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "session <n>",
		Short: "Delete the nth overnight session (1 is the oldest)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App, out *OutputFormatter) error {
				sessions := app.Store.Sessions()
				i, err := position(args[0], len(sessions))
				if err != nil {
					return err
				}
				return deleteRecord(cmd, app, out, internal.SessionRecord(sessions[i]))
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "sleepiness <n>",
		Short: "Delete the nth sleepiness entry (1 is the oldest)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App, out *OutputFormatter) error {
				samples := app.Store.Sleepiness()
				i, err := position(args[0], len(samples))
				if err != nil {
					return err
				}
				return deleteRecord(cmd, app, out, internal.SleepinessRecord(samples[i]))
			})
		},
	})
	return cmd
}

func deleteRecord(cmd *cobra.Command, app *bootstrap.App, out *OutputFormatter, r internal.Record) error {
	if !app.Store.Delete(cmd.Context(), r) {
		return NewExitError(ExitFailure, "record already gone")
	}
	return out.Print(map[string]interface{}{"deleted": r}, func(f *OutputFormatter) {
		f.Line("Deleted %s from %s", r.Kind, r.Time().In(app.Store.Location()).Format(service.SampleLayout))
	})
}

func position(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		return 0, NewExitError(ExitCommandError, "no record at position "+arg)
	}
	return i - 1, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
