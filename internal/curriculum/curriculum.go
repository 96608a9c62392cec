// Package curriculum maps academic programs, class years and semesters to
// the course prefixes offered in them.
package curriculum

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/coursegrid/coursegrid/internal/course"
)

// Filter errors.
var (
	ErrUnknownProgram  = errors.New("unknown program")
	ErrUnknownYear     = errors.New("unknown year")
	ErrUnknownSemester = errors.New("unknown semester")
)

// Program keys.
const (
	ComputerScience               = "computer-science"
	Cybersecurity                 = "cybersecurity"
	SoftwareEngineering           = "software-engineering"
	SoftwareEngineeringDualDegree = "software-engineering-dual-degree"
)

// Programs lists program keys in display order.
var Programs = []string{ComputerScience, Cybersecurity, SoftwareEngineering, SoftwareEngineeringDualDegree}

// Years lists class years in display order.
var Years = []string{"freshman", "sophomore", "junior", "senior", "graduate"}

// Semesters lists semester keys in display order.
var Semesters = []string{"fall", "spring"}

var semesterCodes = map[string]string{
	"fall":   "FA",
	"spring": "SP",
}

type offering struct {
	fall, spring []string
}

var prefixes = map[string]map[string]offering{
	ComputerScience: {
		"freshman": {
			fall:   []string{"ENG_102", "CIS_180", "CIS_181", "CIS_290", "MATH_140"},
			spring: []string{"CIS_182", "CIS_183", "MATH_141", "PHYS_210", "PHYS_211"},
		},
		"sophomore": {
			fall:   []string{"CSC_220", "CIS_239", "CIS_277", "CIS_287", "MATH_222"},
			spring: []string{"CIS_255", "CSC_223", "SOFT_210", "MATH_223", "MATH_314", "PHYS_214", "PHYS_212", "PHYS_213", "PHYS_215"},
		},
		"junior": {
			fall:   []string{"CIS_355", "CIS_326", "CIS_219", "MATH_213", "MATH_212"},
			spring: []string{"MATH_310"},
		},
		"senior": {
			fall:   []string{"CIS_457", "CSC_360", "CIS_387", "CSC_330"},
			spring: []string{"CIS_458", "CIS_390"},
		},
		"graduate": {},
	},
	Cybersecurity: {
		"freshman": {
			fall:   []string{"CIS_180", "CIS_181", "CIS_290", "CIS_240", "MATH_112", "MATH_140"},
			spring: []string{"CIS_182", "CIS_183", "CIS_255", "PHYS_105", "CYSEC_101"},
		},
		"sophomore": {
			fall:   []string{"MATH_222", "CSC_220", "CIS_355", "CYSEC_210"},
			spring: []string{"CIS_182", "CIS_183", "CIS_255", "PHYS_105", "CYSEC_101"},
		},
		"junior": {
			fall:   []string{"CYSEC_301", "CYSEC_306", "CRJS_241", "MATH_213"},
			spring: []string{"MATH_310", "CYSEC_302", "CYSEC_307"},
		},
		"senior": {
			fall:   []string{"CYSEC_308", "CIS_457", "CRJS_345"},
			spring: []string{"CYSEC_303", "CIS_458"},
		},
		"graduate": {},
	},
	SoftwareEngineering: {
		"freshman": {
			fall:   []string{"CIS_180", "CIS_181", "MATH_140", "CIS_290"},
			spring: []string{"CIS_182", "CIS_183", "MATH_141"},
		},
		"sophomore": {
			fall:   []string{"CSC_220", "CIS_239", "MATH_213", "MATH_312", "CIS_277", "CIS_287"},
			spring: []string{"CIS_255", "CSC_223", "MATH_223", "CIS_377", "MATH_314"},
		},
		"junior": {
			fall:   []string{"CIS_326", "CIS_350", "CIS_219", "SOFT_310"},
			spring: []string{"SOFT_320", "ECE_337", "ENG_380"},
		},
		"senior": {
			fall:   []string{"CIS_457", "CSC_330", "SOFT_410", "CIS_387"},
			spring: []string{"CIS_458", "CIS_390", "MATH_310"},
		},
		"graduate": {},
	},
	SoftwareEngineeringDualDegree: {
		"freshman": {
			fall:   []string{"CIS_180", "CIS_181", "MATH_140", "CIS_290"},
			spring: []string{"CIS_182", "CIS_183", "MATH_141", "PHYS_210", "PHYS_211"},
		},
		"sophomore": {
			fall:   []string{"CSC_220", "CIS_239", "MATH_222", "CIS_277", "CIS_287"},
			spring: []string{"CIS_255", "CSC_223", "MATH_223", "CIS_377", "MATH_314", "SOFT_210", "MATH_213", "MATH_312"},
		},
		"junior": {
			fall:   []string{"CIS_355", "CIS_350", "CIS_219", "SOFT_310"},
			spring: []string{"SOFT_320", "ECE_337", "ENG_380", "PHYS_212", "PHYS_213", "PHYS_215"},
		},
		"senior": {
			fall:   []string{"CIS_457", "CSC_330", "SOFT_410", "CSC_360", "CIS_326", "CIS_387"},
			spring: []string{"CIS_458", "CIS_390", "MATH_310"},
		},
		"graduate": {},
	},
}

// Query selects a slice of the course list. All empty means every course.
type Query struct {
	Program  string `json:"program,omitempty"`
	Year     string `json:"year,omitempty"`
	Semester string `json:"semester,omitempty"`
	Room     string `json:"room,omitempty"`
}

// IsZero reports whether the query selects everything.
func (q Query) IsZero() bool {
	return q.Program == "" && q.Year == "" && q.Semester == "" && q.Room == ""
}

// String renders the query for logs and cache keys.
func (q Query) String() string {
	if q.IsZero() {
		return "all"
	}
	return fmt.Sprintf("%s/%s/%s/%s", q.Program, q.Year, q.Semester, q.Room)
}

// Resolve turns a query into a course filter. A non-empty query must name a
// known program, year and semester; the room is optional. Year and semester
// combinations with no listed courses (graduate) match every course of the
// term.
func Resolve(q Query) (course.Filter, error) {
	if q.IsZero() {
		return course.Filter{}, nil
	}

	program := strings.ToLower(strings.TrimSpace(q.Program))
	year := strings.ToLower(strings.TrimSpace(q.Year))
	semester := strings.ToLower(strings.TrimSpace(q.Semester))

	code, ok := semesterCodes[semester]
	if !ok {
		return course.Filter{}, fmt.Errorf("%w: %q", ErrUnknownSemester, q.Semester)
	}
	years, ok := prefixes[program]
	if !ok {
		return course.Filter{}, fmt.Errorf("%w: %q", ErrUnknownProgram, q.Program)
	}
	off, ok := years[year]
	if !ok {
		return course.Filter{}, fmt.Errorf("%w: %q", ErrUnknownYear, q.Year)
	}

	list := off.fall
	if code == "SP" {
		list = off.spring
	}
	return course.Filter{
		TermSuffix: code,
		Room:       strings.TrimSpace(q.Room),
		Prefixes:   slices.Clone(list),
	}, nil
}

// SemesterCode maps "fall"/"spring" to the term suffix.
func SemesterCode(semester string) (string, error) {
	code, ok := semesterCodes[strings.ToLower(strings.TrimSpace(semester))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSemester, semester)
	}
	return code, nil
}

// DisplayName renders a key such as "software-engineering" as
// "Software Engineering".
func DisplayName(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "-", " "))
}
