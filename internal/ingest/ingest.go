// Package ingest turns uploaded course sheets and degree plan documents into
// course records and catalogs.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
)

var (
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrUnknownCurriculum = errors.New("no known curriculum header in document")
	ErrMissingFooter     = errors.New("curriculum footer not found")
	ErrEmptyUpload       = errors.New("empty upload")
)

// Kind identifies what an uploaded file contains.
type Kind int

const (
	KindSheet Kind = iota
	KindSectionList
	KindCatalog
)

func (k Kind) String() string {
	switch k {
	case KindSheet:
		return "sheet"
	case KindSectionList:
		return "section list"
	case KindCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}

// DetectKind picks the parser from the file name.
func DetectKind(name string) (Kind, error) {
	base := strings.ToLower(filepath.Base(name))
	switch filepath.Ext(base) {
	case ".xlsx":
		return KindSheet, nil
	case ".docx":
		if strings.Contains(base, "phys") {
			return KindSectionList, nil
		}
		return KindCatalog, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(name))
	}
}

// Upload is one uploaded file.
type Upload struct {
	Name     string
	Semester string // "fall" or "spring"
	Data     []byte
	Now      time.Time
}

// Result holds what a file produced. Exactly one of Courses and Catalog is
// populated, depending on Kind.
type Result struct {
	Kind     Kind
	Courses  []*course.Course
	Catalog  *course.Catalog
	Warnings []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Parse dispatches an upload to the parser for its kind.
func Parse(u Upload) (*Result, error) {
	kind, err := DetectKind(u.Name)
	if err != nil {
		return nil, err
	}
	if len(u.Data) == 0 {
		return nil, ErrEmptyUpload
	}
	if u.Now.IsZero() {
		u.Now = time.Now()
	}

	switch kind {
	case KindSheet:
		code, err := curriculum.SemesterCode(u.Semester)
		if err != nil {
			return nil, err
		}
		return ParseSheet(bytes.NewReader(u.Data), code)
	case KindSectionList:
		code, err := curriculum.SemesterCode(u.Semester)
		if err != nil {
			return nil, err
		}
		text, err := DocxText(u.Data)
		if err != nil {
			return nil, err
		}
		return ParseSectionList(text, termYear(u.Name, u.Now)+"/"+code), nil
	default:
		text, err := DocxText(u.Data)
		if err != nil {
			return nil, err
		}
		return ParseCatalog(text, u.Now)
	}
}

// RewriteTerm replaces the semester part of a sheet term with code:
// "24/XX" becomes "24/FA", "24" becomes "24/FA" and "" becomes "FA".
func RewriteTerm(term, code string) string {
	term = strings.TrimSpace(term)
	if year, _, ok := strings.Cut(term, "/"); ok {
		return year + "/" + code
	}
	if term != "" {
		return term + "/" + code
	}
	return code
}
