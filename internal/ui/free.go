package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/scheduler"
)

func (a *App) freeCmd() *cobra.Command {
	var (
		filters filterFlags
		minutes int
	)

	cmd := &cobra.Command{
		Use:   "free",
		Short: "List open meeting times",
		Long: `List the gaps in the weekly calendar long enough for a meeting of
--minutes. With --room alone, every course held in that room is checked;
combined with a program filter, only that program's courses are.`,
		Example: `  coursegrid free --room=305 --minutes=75
  coursegrid free --program=computer-science --year=freshman --semester=fall`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}

			q := filters.query()
			room := strings.TrimSpace(q.Room)
			if q.Program == "" && q.Year == "" && q.Semester == "" {
				q = curriculum.Query{}
			}
			v, err := a.svc.Calendar(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("rendering calendar: %w", err)
			}

			slots := scheduler.New(a.svc.Layout()).FreeSlots(v.Plan, room, minutes)
			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintln(out, "No open time found.")
				return nil
			}
			for _, s := range slots {
				fmt.Fprintf(out, "  %s %s\n", s, formatMuted(fmt.Sprintf("(%d min)", s.Minutes())))
			}
			return nil
		},
	}

	filters.bind(cmd)
	cmd.Flags().IntVar(&minutes, "minutes", 60, "Shortest gap to report")
	return cmd
}
