package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/ingest"
)

func (a *App) importCmd() *cobra.Command {
	var semester string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a course sheet, section list or curriculum catalog",
		Long: `Import an offering file into the course store.

  .xlsx               course sheet, rows upserted by course number and term
  .docx with "phys"   physics section list, upserted the same way
  other .docx         curriculum catalog, replaces the stored catalog

Course sheets and section lists need --semester (fall or spring).`,
		Example: `  coursegrid import "Fall 2024.xlsx" --semester=fall
  coursegrid import "PHYS 24FA sections.docx" --semester=fall
  coursegrid import "Computer Science Curriculum.docx"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}
			report, err := a.svc.Import(cmd.Context(), ingest.Upload{
				Name:     filepath.Base(path),
				Semester: semester,
				Data:     data,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatStats(report.Message()))
			if report.ArchiveKey != "" {
				fmt.Fprintln(out, formatMuted("archived as "+report.ArchiveKey))
			}
			for _, w := range report.Warnings {
				fmt.Fprintf(out, "  %s %s\n", formatWarning("!"), w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&semester, "semester", "", "Semester of a course sheet or section list: fall or spring")
	return cmd
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}
