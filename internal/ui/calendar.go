package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/schedule"
	"github.com/coursegrid/coursegrid/internal/service"
	"github.com/coursegrid/coursegrid/internal/tui/theme"
	"github.com/coursegrid/coursegrid/internal/tui/view"
)

func (a *App) calendarCmd() *cobra.Command {
	var (
		filters filterFlags
		copyOut bool
		noColor bool
		agenda  bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the weekly calendar",
		Long: `Render the courses matching the filter onto the weekly grid and print it.

Overlapping sections share one cell marked "!". Courses that cannot be
placed (cancelled, malformed times or days) are listed with the reason.`,
		Example: `  coursegrid calendar --program=computer-science --year=freshman --semester=fall
  coursegrid calendar --agenda --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}

			v, err := a.svc.Calendar(cmd.Context(), filters.query())
			if err != nil {
				return fmt.Errorf("rendering calendar: %w", err)
			}

			out := cmd.OutOrStdout()
			if agenda {
				fmt.Fprint(out, view.Agenda(v.Frame))
			} else {
				th, err := theme.Load(a.config.UI.Theme)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderGrid(v, th, termWidth()))
			}
			printCalendarSummary(out, v)

			if copyOut {
				if err := clipboard.WriteAll(view.Agenda(v.Frame)); err != nil {
					return fmt.Errorf("copying calendar: %w", err)
				}
				fmt.Fprintln(out, formatMuted("Calendar copied to clipboard"))
			}
			return nil
		},
	}

	filters.bind(cmd)
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the calendar as text to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")
	cmd.Flags().BoolVar(&agenda, "agenda", false, "Print a day-by-day list instead of the grid")
	return cmd
}

// renderGrid draws the calendar table fitted to width.
func renderGrid(v *service.CalendarView, th *theme.Theme, width int) string {
	const timeCol = 10
	days := len(schedule.Weekdays)
	colWidth := max(10, (width-timeCol-(days+2))/days)

	palette := theme.NewPalette(th)
	cell := lipgloss.NewStyle().Width(colWidth).Padding(0, 1)
	header := lipgloss.NewStyle().Bold(true).Align(lipgloss.Center)
	headerStyles := make([]lipgloss.Style, days+1)
	headerStyles[0] = header.Width(timeCol)
	for i := 1; i <= days; i++ {
		headerStyles[i] = header.Width(colWidth)
	}

	content := view.BuildTable(v.Frame, colWidth-2, view.GridStyles{
		Time:    lipgloss.NewStyle().Width(timeCol).Align(lipgloss.Right).Foreground(palette.FgMuted),
		Empty:   lipgloss.NewStyle().Width(colWidth),
		Cell:    cell,
		Anchor:  cell.Bold(true),
		Palette: palette,
	})
	return view.RenderTable(view.TableViewState{
		InnerW:       width,
		Headers:      view.HeaderLabels(),
		HeaderStyles: headerStyles,
		Content:      content,
		BorderStyle:  lipgloss.NewStyle().Foreground(palette.FgMuted),
		Render:       true,
	})
}

func printCalendarSummary(w io.Writer, v *service.CalendarView) {
	fmt.Fprintln(w, formatStats(fmt.Sprintf("%d cells, %d conflicts, %d rejected", len(v.Cells), v.Conflicts(), len(v.Rejections))))
	if v.Outside > 0 {
		fmt.Fprintln(w, formatWarning(fmt.Sprintf("%d cells fall outside the visible hours", v.Outside)))
	}
	if len(v.Rooms) > 0 {
		fmt.Fprintf(w, "Rooms: %s\n", strings.Join(v.Rooms, ", "))
	}
	for _, r := range v.Rejections {
		fmt.Fprintf(w, "  %s %s: %s\n", formatConflict("✗"), r.Session.CourseNumber, r.Reason)
	}
	for _, n := range v.Notices {
		fmt.Fprintf(w, "  %s %s\n", formatWarning("!"), formatMuted(fmt.Sprintf("session %s: %s %s %s", n.SessionID, n.Kind, n.Field, n.Detail)))
	}
}

func (a *App) roomsCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List the rooms used by the matching courses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}
			rooms, err := a.svc.Rooms(cmd.Context(), filters.query())
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(rooms) == 0 {
				fmt.Fprintln(out, "No rooms found.")
				return nil
			}
			for _, r := range rooms {
				fmt.Fprintln(out, r)
			}
			return nil
		},
	}

	filters.bind(cmd)
	return cmd
}
