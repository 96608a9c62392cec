package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/schedule"
	"github.com/coursegrid/coursegrid/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the weekly class load of the filter",
		Long: `Summarize the placed calendar: class hours per day and subject, and how
much of that time sits in overlapping cells.`,
		Example: `  coursegrid summary --program=software-engineering --year=junior --semester=spring`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}
			s, err := summary.BuildWeekSummary(cmd.Context(), a.svc, filters.query())
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s)
			return nil
		},
	}

	filters.bind(cmd)
	return cmd
}

func printSummary(w io.Writer, s *summary.WeekSummary) {
	st := s.Stats
	label := "All courses"
	if !s.Query.IsZero() {
		label = s.Query.String()
	}
	fmt.Fprintln(w, formatHeader(label))

	if st.Meetings == 0 {
		fmt.Fprintln(w, "No placed courses.")
		return
	}

	fmt.Fprintf(w, "%s in %d meetings of %d courses\n",
		formatStats(summary.Hours(st.Minutes)), st.Meetings, st.Courses)
	conflicts := fmt.Sprintf("%d conflict cells, %s overlapping (%d%%)",
		st.ConflictCells, summary.Hours(st.ConflictMinutes), st.ConflictPercent())
	if st.ConflictCells > 0 {
		fmt.Fprintln(w, formatConflict(conflicts))
	} else {
		fmt.Fprintln(w, formatMuted(conflicts))
	}
	if st.Rejected > 0 {
		fmt.Fprintln(w, formatWarning(fmt.Sprintf("%d sessions could not be placed", st.Rejected)))
	}

	fmt.Fprintln(w)
	for i, ds := range st.DayStats {
		fmt.Fprintf(w, "  %-10s %6s  %2d meetings\n", schedule.Weekdays[i], summary.Hours(ds.Minutes), ds.Meetings)
	}
	if day, minutes, ok := st.BusiestDay(); ok {
		fmt.Fprintf(w, "  Busiest: %s (%s)\n", day, summary.Hours(minutes))
	}

	fmt.Fprintln(w)
	for _, c := range calendar.Categories {
		if m := st.CategoryMinutes[c]; m > 0 {
			fmt.Fprintf(w, "  %-12s %6s\n", c, summary.Hours(m))
		}
	}
	if len(s.Rooms) > 0 {
		fmt.Fprintf(w, "\nRooms: %s\n", strings.Join(s.Rooms, ", "))
	}
}
