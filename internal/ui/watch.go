package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/service"
)

var errEventsDisabled = errors.New("events are disabled; set [events] enabled = true")

func (a *App) watchCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow course changes and re-check the calendar",
		Long: `Print every course change published on the event feed and, after
each one, the updated calendar summary for the filter.

Requires the RabbitMQ event feed ([events] enabled = true).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.ensureService(ctx); err != nil {
				return err
			}
			if _, ok := a.bus.(events.Nop); ok {
				return errEventsDisabled
			}
			ch, err := a.bus.Subscribe(ctx)
			if err != nil {
				return fmt.Errorf("subscribing to changes: %w", err)
			}

			out := cmd.OutOrStdout()
			q := filters.query()
			fmt.Fprintln(out, formatMuted("Watching for course changes, ctrl+c to stop"))
			for e := range ch {
				printEvent(out, e)
				v, err := a.svc.Calendar(ctx, q)
				if err != nil {
					fmt.Fprintln(out, formatWarning(err.Error()))
					continue
				}
				printWatchSummary(out, q, v)
			}
			return nil
		},
	}

	filters.bind(cmd)
	return cmd
}

func printEvent(w io.Writer, e events.Event) {
	line := fmt.Sprintf("%s %s", e.At.Local().Format("15:04:05"), formatHeader(string(e.Kind)))
	if e.CourseID != "" {
		line += " course " + e.CourseID
	}
	if e.Term != "" {
		line += " term " + e.Term
	}
	if e.Count > 0 {
		line += fmt.Sprintf(" (%d rows)", e.Count)
	}
	fmt.Fprintln(w, line)
}

func printWatchSummary(w io.Writer, q curriculum.Query, v *service.CalendarView) {
	label := "all courses"
	if !q.IsZero() {
		label = q.String()
	}
	summary := fmt.Sprintf("  %s: %d cells, %d conflicts, %d rejected", label, len(v.Cells), v.Conflicts(), len(v.Rejections))
	if v.Conflicts() > 0 {
		fmt.Fprintln(w, formatConflict(summary))
		return
	}
	fmt.Fprintln(w, formatStats(summary))
}
