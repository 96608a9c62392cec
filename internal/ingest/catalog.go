package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
)

var (
	yearHeading     = regexp.MustCompile(`FRESHMAN|SOPHOMORE|JUNIOR|SENIOR|GRADUATE`)
	semesterHeading = regexp.MustCompile(`Fall|Spring`)
	tabs            = regexp.MustCompile(`\t+`)
	leadingDigits   = regexp.MustCompile(`^\s*(\d+)`)
)

// ParseCatalog reads a degree plan document. The curriculum is detected from
// its header; the course list runs from below the header block to the
// footer.
func ParseCatalog(text string, now time.Time) (*Result, error) {
	cfg, ok := curriculum.Detect(text)
	if !ok {
		return nil, ErrUnknownCurriculum
	}

	start := strings.Index(text, cfg.Header)
	end := strings.Index(text[start:], cfg.Footer)
	if end < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingFooter, cfg.Footer)
	}

	body := lines(text[start : start+end])
	if skip := len(lines(cfg.OffsetText)); skip <= len(body) {
		body = body[skip:]
	} else {
		body = nil
	}

	res := &Result{
		Kind: KindCatalog,
		Catalog: &course.Catalog{
			CurriculumType: cfg.CurriculumType,
			CreatedAt:      now,
		},
	}

	var year, semester string
	for _, line := range body {
		switch {
		case yearHeading.MatchString(line):
			year = line
		case semesterHeading.MatchString(line):
			semester = line
		default:
			entry, err := parseCatalogLine(line)
			if err != nil {
				res.warnf("%v", err)
				continue
			}
			if year == "" || semester == "" {
				res.warnf("entry %q appears before a year and semester heading, skipped", line)
				continue
			}
			entry.Year = year
			entry.Semester = semester
			entry.Position = len(res.Catalog.Entries)
			res.Catalog.Entries = append(res.Catalog.Entries, entry)
		}
	}
	return res, nil
}

// parseCatalogLine reads "3<TAB>CIS 180 Intro to Computing".
func parseCatalogLine(line string) (course.CatalogEntry, error) {
	parts := tabs.Split(line, -1)
	if len(parts) < 2 {
		return course.CatalogEntry{}, fmt.Errorf("invalid line %q, skipped", line)
	}
	m := leadingDigits.FindStringSubmatch(parts[0])
	name := strings.TrimSpace(strings.Join(parts[1:], " "))
	if m == nil || name == "" {
		return course.CatalogEntry{}, fmt.Errorf("invalid course entry %q, skipped", line)
	}
	credits, err := strconv.Atoi(m[1])
	if err != nil {
		return course.CatalogEntry{}, fmt.Errorf("invalid credits in %q: %w", line, err)
	}
	return course.CatalogEntry{Credits: credits, Course: name}, nil
}
