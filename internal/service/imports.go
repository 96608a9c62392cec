package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/ingest"
)

// ImportReport summarizes one upload.
type ImportReport struct {
	File           string   `json:"file"`
	Kind           string   `json:"kind"`
	Courses        int      `json:"courses,omitempty"`
	CurriculumType string   `json:"curriculumType,omitempty"`
	Entries        int      `json:"entries,omitempty"`
	ArchiveKey     string   `json:"archiveKey,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// Message is the one-line outcome shown to the uploader.
func (r *ImportReport) Message() string {
	switch r.Kind {
	case ingest.KindCatalog.String():
		return fmt.Sprintf("%s catalog replaced with %d entries", r.CurriculumType, r.Entries)
	default:
		return fmt.Sprintf("%d courses imported from %s", r.Courses, r.File)
	}
}

// Import parses an uploaded file and writes its contents: course rows are
// upserted by course number and term, a catalog replaces the stored one.
// Rows that fail validation are still stored and reported; the calendar
// rejects them at placement time.
func (s *Service) Import(ctx context.Context, u ingest.Upload) (*ImportReport, error) {
	if u.Now.IsZero() {
		u.Now = s.now()
	}
	res, err := ingest.Parse(u)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", u.Name, err)
	}

	report := &ImportReport{File: u.Name, Kind: res.Kind.String(), Warnings: res.Warnings}

	key, err := s.archive.Put(ctx, u.Name, u.Data)
	if err != nil {
		s.log.Warn("archiving upload failed", zap.String("file", u.Name), zap.Error(err))
	}
	report.ArchiveKey = key

	switch res.Kind {
	case ingest.KindCatalog:
		if err := s.repo.ReplaceCatalog(ctx, res.Catalog); err != nil {
			return nil, fmt.Errorf("saving catalog: %w", err)
		}
		report.CurriculumType = res.Catalog.CurriculumType
		report.Entries = len(res.Catalog.Entries)
	default:
		for _, c := range res.Courses {
			c.Normalize()
			if err := c.Validate(); err != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", c.CourseNumber, err))
			}
		}
		n, err := s.repo.UpsertCourses(ctx, res.Courses)
		if err != nil {
			return nil, fmt.Errorf("saving courses: %w", err)
		}
		report.Courses = n
	}

	for _, w := range report.Warnings {
		s.log.Warn("import warning", zap.String("file", u.Name), zap.String("detail", w))
	}
	s.log.Info("upload imported",
		zap.String("file", u.Name),
		zap.String("kind", report.Kind),
		zap.Int("courses", report.Courses),
		zap.Int("entries", report.Entries),
	)

	term := ""
	if len(res.Courses) > 0 {
		term = res.Courses[0].Term
	}
	s.changed(ctx, events.Event{Kind: events.Imported, Term: term, Count: report.Courses + report.Entries})
	return report, nil
}
