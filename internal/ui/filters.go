package ui

import (
	"github.com/spf13/cobra"

	"github.com/coursegrid/coursegrid/internal/curriculum"
)

// filterFlags are the curriculum filter flags shared by every command that
// reads courses.
type filterFlags struct {
	program  string
	year     string
	semester string
	room     string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.program, "program", "", "Program, e.g. computer-science")
	cmd.Flags().StringVar(&f.year, "year", "", "Class year: freshman, sophomore, junior, senior or graduate")
	cmd.Flags().StringVar(&f.semester, "semester", "", "Semester: fall or spring")
	cmd.Flags().StringVar(&f.room, "room", "", "Only courses in this room")
}

func (f *filterFlags) query() curriculum.Query {
	return curriculum.Query{
		Program:  f.program,
		Year:     f.year,
		Semester: f.semester,
		Room:     f.room,
	}
}
