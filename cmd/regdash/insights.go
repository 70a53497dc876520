package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirdesai22/registration-dashboard/internal/chart"
	"github.com/sirdesai22/registration-dashboard/internal/view"
)

func newAnalyticsCmd(a *app) *cobra.Command {
	var (
		q      = view.DefaultAnalyticsQuery()
		order  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "analytics",
		Short:   "Registrations per event",
		GroupID: "insights",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.SortBy != view.SortByEvent && q.SortBy != view.SortByCount {
				return fmt.Errorf("--sort must be %q or %q", view.SortByEvent, view.SortByCount)
			}
			dir, err := view.ParseDirection(order)
			if err != nil {
				return err
			}
			q.Dir = dir
			if err := a.load(cmd); err != nil {
				return err
			}
			report := a.dash.Analytics(q)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			printAnalytics(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Event, "event", "", "only this event")
	cmd.Flags().StringVar(&q.SortBy, "sort", q.SortBy, "event or count")
	cmd.Flags().StringVar(&order, "order", string(q.Dir), "asc or desc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newChartCmd(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:     "chart",
		Short:   "Event and college distribution charts",
		GroupID: "insights",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			bar, pie := a.dash.Charts()
			fmt.Fprintln(cmd.OutOrStdout(), chart.Bar(bar, width))
			fmt.Fprintln(cmd.OutOrStdout(), chart.Pie(pie, width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 60, "chart width in cells")
	return cmd
}

func newOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "options",
		Short:   "Distinct events and colleges, for filter flags",
		GroupID: "insights",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			events, colleges := a.dash.Options()
			fmt.Fprintf(cmd.OutOrStdout(), "Events:   %s\n", strings.Join(events, ", "))
			fmt.Fprintf(cmd.OutOrStdout(), "Colleges: %s\n", strings.Join(colleges, ", "))
			return nil
		},
	}
}
