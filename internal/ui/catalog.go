package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/course"
)

func (a *App) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [program]",
		Short: "Show the imported degree plan of a program",
		Example: `  coursegrid catalog computer-science
  coursegrid catalog "Software Engineering"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}
			cat, err := a.svc.Catalog(cmd.Context(), args[0])
			if errors.Is(err, course.ErrCatalogNotFound) {
				return fmt.Errorf("no catalog imported for %q yet, run coursegrid import with its curriculum document", args[0])
			}
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	}
}

func printCatalog(w io.Writer, cat *course.Catalog) {
	fmt.Fprintln(w, formatHeader(cat.CurriculumType))
	for _, year := range cat.Years() {
		fmt.Fprintf(w, "\n%s\n", formatHeader(year))
		for _, sem := range catalogSemesters(cat, year) {
			entries := cat.Section(year, sem)
			credits := 0
			for _, e := range entries {
				credits += e.Credits
			}
			fmt.Fprintf(w, "  %s %s\n", sem, formatMuted(fmt.Sprintf("(%d credits)", credits)))
			for _, e := range entries {
				fmt.Fprintf(w, "    %2d  %s\n", e.Credits, e.Course)
			}
		}
	}
	fmt.Fprintf(w, "\n%s\n", formatStats(fmt.Sprintf("%d courses, %d credits", len(cat.Entries), cat.TotalCredits())))
}

// catalogSemesters returns the semesters of year in document order.
func catalogSemesters(cat *course.Catalog, year string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range cat.Entries {
		if e.Year == year && !seen[e.Semester] {
			seen[e.Semester] = true
			out = append(out, e.Semester)
		}
	}
	return out
}
