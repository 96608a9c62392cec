package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/course"
)

func (a *App) listCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		Long: `List stored courses, optionally filtered to a program, class year and
semester. A filter must name all three; --room narrows it further.`,
		Example: `  coursegrid list
  coursegrid list --program=computer-science --year=freshman --semester=fall
  coursegrid list --program=cybersecurity --year=junior --semester=spring --room=305`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}

			courses, err := a.svc.ListCourses(cmd.Context(), filters.query())
			if err != nil {
				return fmt.Errorf("listing courses: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(courses) == 0 {
				fmt.Fprintln(out, "No courses found.")
				return nil
			}

			// Print courses grouped by term
			var currentTerm string
			for _, c := range courses {
				if c.Term != currentTerm {
					if currentTerm != "" {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "=== %s ===\n", termLabel(c.Term))
					currentTerm = c.Term
				}
				fmt.Fprintf(out, "  %s\n", courseLine(c))
			}
			return nil
		},
	}

	filters.bind(cmd)
	return cmd
}

func termLabel(term string) string {
	if term == "" {
		return "No term"
	}
	return term
}

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [course_id]",
		Short: "Show a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}
			c, err := a.svc.GetCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCourse(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

// courseFlags binds the editable course fields.
type courseFlags struct {
	c course.Course
}

func (f *courseFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.c.CourseNumber, "number", "", "Course number, e.g. CIS_180_01")
	fl.StringVar(&f.c.Title, "title", "", "Course title")
	fl.StringVar(&f.c.MeetingDays, "days", "", "Meeting days, e.g. MW or TTH")
	fl.StringVar(&f.c.StartTime, "start", "", "Start time, e.g. 9:00 AM")
	fl.StringVar(&f.c.EndTime, "end", "", "End time, e.g. 10:15 AM")
	fl.StringVar(&f.c.Building, "building", "", "Building")
	fl.StringVar(&f.c.Room, "room", "", "Room")
	fl.StringVar(&f.c.Term, "term", "", "Term, e.g. 24/FA")
	fl.StringVar(&f.c.Section, "section", "", "Section")
	fl.StringVar(&f.c.Instructor, "instructor", "", "Instructor")
	fl.StringVar(&f.c.Status, "status", "Open", "Status; CNCL keeps the course off the calendar")
	fl.IntVar(&f.c.Capacity, "capacity", 0, "Seat capacity")
	fl.IntVar(&f.c.MinCredits, "credits", 0, "Credits")
}

// apply copies the flags the user set onto c.
func (f *courseFlags) apply(cmd *cobra.Command, c *course.Course) {
	changed := cmd.Flags().Changed
	set := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	set("number", &c.CourseNumber, f.c.CourseNumber)
	set("title", &c.Title, f.c.Title)
	set("days", &c.MeetingDays, f.c.MeetingDays)
	set("start", &c.StartTime, f.c.StartTime)
	set("end", &c.EndTime, f.c.EndTime)
	set("building", &c.Building, f.c.Building)
	set("room", &c.Room, f.c.Room)
	set("term", &c.Term, f.c.Term)
	set("section", &c.Section, f.c.Section)
	set("instructor", &c.Instructor, f.c.Instructor)
	set("status", &c.Status, f.c.Status)
	if changed("capacity") {
		c.Capacity = f.c.Capacity
	}
	if changed("credits") {
		c.MinCredits = f.c.MinCredits
		c.MaxCredits = f.c.MinCredits
	}
}

func (a *App) addCmd() *cobra.Command {
	var flags courseFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a course",
		Example: `  coursegrid add --number=CIS_180_01 --title="Intro to CS" --days=MW \
    --start="9:00 AM" --end="10:15 AM" --room=101 --term=24/FA`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}

			c := flags.c
			c.MaxCredits = c.MinCredits
			if err := a.svc.CreateCourse(cmd.Context(), &c); err != nil {
				return fmt.Errorf("creating course: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created course #%s: %s\n", c.ID, courseLine(&c))
			return nil
		},
	}

	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("number")
	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var flags courseFlags

	cmd := &cobra.Command{
		Use:     "edit [course_id]",
		Short:   "Change fields of a course",
		Long:    "Change the fields given as flags; everything else is kept.",
		Example: `  coursegrid edit 12 --room=305 --start="1:00 PM" --end="2:15 PM"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}

			c, err := a.svc.GetCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			flags.apply(cmd, c)
			if err := a.svc.UpdateCourse(cmd.Context(), c); err != nil {
				return fmt.Errorf("updating course: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated course #%s: %s\n", c.ID, courseLine(c))
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [course_id]",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureService(cmd.Context()); err != nil {
				return err
			}
			c, err := a.svc.DeleteCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted course #%s %s\n", c.ID, c.CourseNumber)
			return nil
		},
	}
}
