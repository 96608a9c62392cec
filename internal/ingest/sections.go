package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/schedule"
)

const recordLines = 4

var (
	termYearPattern = regexp.MustCompile(`(?i)(\d{2})(FA|SP)`)
	whitespace      = regexp.MustCompile(`\s+`)
	tuesdayThursday = regexp.MustCompile(`(?i)TTh`)
)

// termYear returns the two-digit academic year from a name such as
// "PHYS_25FA.docx", falling back to now.
func termYear(name string, now time.Time) string {
	if m := termYearPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return fmt.Sprintf("%02d", now.Year()%100)
}

// ParseSectionList reads a department section list made of four-line
// records: course code, section, title, and a meeting line such as
// "MWF 9:00-9:50".
func ParseSectionList(text, term string) *Result {
	res := &Result{Kind: KindSectionList}
	ls := lines(text)
	if len(ls)%recordLines != 0 {
		res.warnf("%d lines do not split into %d-line records, trailing lines ignored", len(ls), recordLines)
	}

	for i := 0; i+recordLines <= len(ls); i += recordLines {
		code := whitespace.ReplaceAllString(ls[i], "_")
		section := ls[i+1]
		title := ls[i+2]

		days, start, end, err := parseMeetingLine(ls[i+3])
		if err != nil {
			res.warnf("record %d (%s): %v", i/recordLines+1, code, err)
			continue
		}

		res.Courses = append(res.Courses, &course.Course{
			CourseNumber:   code + "_" + section,
			Title:          title,
			StartTime:      start,
			EndTime:        end,
			MeetingDays:    days,
			Room:           "TBD",
			Building:       "TBD",
			Term:           term,
			AcademicLevel:  "UG",
			AcademicLevel1: "GR",
			Section:        section,
			SeqNo:          i/recordLines + 1,
			Status:         "Open",
		})
	}
	return res
}

// parseMeetingLine splits "TTh 13:00-14:15" into days and a 12-hour range.
func parseMeetingLine(line string) (days, start, end string, err error) {
	daysRaw, rng, ok := strings.Cut(line, " ")
	if !ok {
		return "", "", "", fmt.Errorf("meeting line %q has no time range", line)
	}
	startRaw, endRaw, ok := strings.Cut(strings.TrimSpace(rng), "-")
	if !ok {
		return "", "", "", fmt.Errorf("meeting line %q has no time range", line)
	}
	if start, err = completeClock(startRaw); err != nil {
		return "", "", "", err
	}
	if end, err = completeClock(endRaw); err != nil {
		return "", "", "", err
	}
	return tuesdayThursday.ReplaceAllString(daysRaw, "T TH"), start, end, nil
}

// completeClock adds the AM/PM marker to a bare "H:MM": hours before noon
// are morning.
func completeClock(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	minutes, err := schedule.ParseMinutes(raw)
	if err != nil {
		return "", err
	}
	return schedule.FormatClock(minutes), nil
}
