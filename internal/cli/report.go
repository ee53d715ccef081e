package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/bootstrap"
	"github.com/yourname/sleeplog/internal/service"
)

func newHistoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List every night and sleepiness entry in the order they were logged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App, out *OutputFormatter) error {
				all := app.Store.All()
				return out.Print(all, func(f *OutputFormatter) {
					printHistory(f, all, app.Store.Location())
				})
			})
		},
	}
}

// printHistory numbers sessions and samples separately so the numbers match
// what "delete session <n>" and "delete sleepiness <n>" expect.
func printHistory(f *OutputFormatter, all []internal.Record, loc *time.Location) {
	if len(all) == 0 {
		f.Line("%s", f.Muted(service.NoDataLabel))
		return
	}
	nights, samples := 0, 0
	for _, r := range all {
		switch {
		case r.Session != nil:
			nights++
			s := *r.Session
			f.Line("%s %-2d %s  %s  %s", f.Muted("night"), nights,
				f.Heading(service.DateLabel(s, loc)), service.SummaryLine(s, loc),
				f.Rest(service.RestLabel(service.DurationHours(s))))
		case r.Sleepiness != nil:
			samples++
			s := *r.Sleepiness
			f.Line("%s %-2d %s  %s", f.Muted("sleepy"), samples,
				service.SampleLabel(s, loc), service.SampleSummary(s))
		}
	}
}

func newStreakCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show how many consecutive days have a logged night",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App, out *OutputFormatter) error {
				streak := app.Store.Streak()
				return out.Print(map[string]int{"streak": streak}, func(f *OutputFormatter) {
					f.Line("%s %d", f.Heading("streak:"), streak)
				})
			})
		},
	}
}

func newSummaryCommand(opts *RootOptions) *cobra.Command {
	var advice bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the latest night, its rest label and the streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App, out *OutputFormatter) error {
				sum := app.Store.Summary()
				data := struct {
					service.Summary `yaml:",inline"`
					Advice          *service.Recommendation `json:"advice,omitempty" yaml:"advice,omitempty"`
				}{Summary: sum}
				if advice {
					rec := app.Advisor.Recommend(cmd.Context(), sum)
					data.Advice = &rec
				}
				return out.Print(data, func(f *OutputFormatter) {
					printSummary(f, sum, app.Store.Location())
					if data.Advice != nil {
						f.Line("")
						f.Line("%s %s", f.Heading("advice:"), data.Advice.Recommendation)
						f.Line("%s", f.Muted(data.Advice.Action))
					}
				})
			})
		},
	}
	cmd.Flags().BoolVar(&advice, "advice", false, "include a sleep recommendation")
	return cmd
}

func printSummary(f *OutputFormatter, sum service.Summary, loc *time.Location) {
	if sum.Latest == nil {
		f.Line("%s", f.Muted(service.NoDataLabel))
	} else {
		f.Line("%s %s", f.Heading(sum.LatestDate), sum.LatestLine)
		f.Line("%s", f.Rest(sum.Label))
	}
	f.Line("%s %d", f.Muted("streak:"), sum.Streak)
	if sum.PendingStart != nil {
		f.Line("%s %s", f.Muted("in bed since:"), sum.PendingStart.In(loc).Format(service.SampleLayout))
	}
}
