package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirdesai22/registration-dashboard/internal/models"
	"github.com/sirdesai22/registration-dashboard/internal/view"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func shortID(r models.Registration) string {
	s := r.ID.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func printRegistrationTable(out io.Writer, regs []models.Registration, total int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fields := models.BusinessFields()

	header := []string{"ID"}
	for _, f := range fields {
		header = append(header, strings.ToUpper(f.Label))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, r := range regs {
		row := []string{shortID(r)}
		for _, f := range fields {
			row = append(row, r.Text(f.Key))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d of %d registrations\n", len(regs), total)
}

func printRegistration(out io.Writer, r *models.Registration) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", r.ID)
	for _, f := range models.Fields {
		switch f.Kind {
		case models.KindTime:
			fmt.Fprintf(w, "%s:\t%s\n", f.Label, r.Time(f.Key).Format(timeLayout))
		default:
			fmt.Fprintf(w, "%s:\t%s\n", f.Label, r.Text(f.Key))
		}
	}
	w.Flush()
}

func printAnalytics(out io.Writer, report view.AnalyticsReport) {
	fmt.Fprintf(out, "Total registrations: %d\n\n", report.Total)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT\tCOUNT")
	for _, b := range report.Events {
		fmt.Fprintf(w, "%s\t%d\n", b.Key, b.Count)
	}
	w.Flush()
}
