package ingest

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/coursegrid/coursegrid/internal/course"
)

// Sheet column headers as exported by the registrar.
const (
	colCourseNumber   = "COURSE #"
	colTitle          = "TITLE/START DATE"
	colAcademicLevel  = "Acad Level"
	colCapacity       = "CAPACITY"
	colStudents       = "# OF STUDENTS"
	colStatus         = "STATUS"
	colInstructor     = "INSTRUCTOR"
	colStartTime      = "Start Time"
	colEndTime        = "End Time"
	colMeetingDays    = "Meeting Days"
	colBuilding       = "Bldg"
	colRoom           = "Room"
	colFee            = "FEE"
	colMinCredits     = "Min Cred"
	colMaxCredits     = "Max Cred"
	colSection        = "Section"
	colTerm           = "Term"
	colSeqNo          = "Seq No"
	colSchools        = "Schools"
	colAcademicLevel1 = "Acad Level_1"
)

// ParseSheet reads the first worksheet of an .xlsx course sheet. Every row's
// term is rewritten with the semester code.
func ParseSheet(r io.Reader, code string) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening sheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("opening sheet: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	res := &Result{Kind: KindSheet}
	if len(rows) == 0 {
		return res, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if _, dup := header[name]; !dup && name != "" {
			header[name] = i
		}
	}
	if _, ok := header[colCourseNumber]; !ok {
		return nil, fmt.Errorf("reading sheet %q: missing %q column", sheets[0], colCourseNumber)
	}

	for n, row := range rows[1:] {
		line := n + 2
		cell := func(col string) string {
			i, ok := header[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		number := func(col string) int {
			v, err := parseNumber(cell(col))
			if err != nil {
				res.warnf("row %d: %s: %v", line, col, err)
			}
			return v
		}

		c := &course.Course{
			CourseNumber:     cell(colCourseNumber),
			Title:            cell(colTitle),
			AcademicLevel:    cell(colAcademicLevel),
			Capacity:         number(colCapacity),
			NumberOfStudents: number(colStudents),
			Status:           cell(colStatus),
			Instructor:       cell(colInstructor),
			StartTime:        cell(colStartTime),
			EndTime:          cell(colEndTime),
			MeetingDays:      cell(colMeetingDays),
			Building:         cell(colBuilding),
			Room:             cell(colRoom),
			Fee:              cell(colFee),
			MinCredits:       number(colMinCredits),
			MaxCredits:       number(colMaxCredits),
			Section:          cell(colSection),
			Term:             RewriteTerm(cell(colTerm), code),
			SeqNo:            number(colSeqNo),
			Schools:          cell(colSchools),
			AcademicLevel1:   cell(colAcademicLevel1),
		}
		if c.CourseNumber == "" {
			if !blank(row) {
				res.warnf("row %d: no course number, skipped", line)
			}
			continue
		}
		res.Courses = append(res.Courses, c)
	}
	return res, nil
}

// parseNumber reads an integer cell. Empty cells are zero and fractional
// values are truncated.
func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return int(f), nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
