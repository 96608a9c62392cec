// Package course defines course offerings, curriculum catalogs and the
// storage interface for both.
package course

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/coursegrid/coursegrid/internal/schedule"
)

// Domain errors.
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrCatalogNotFound = errors.New("catalog not found")
	ErrInvalidCourse   = errors.New("invalid course")
	ErrDuplicateCourse = errors.New("course number already exists for term")
)

// Course is one offering row of the course sheet. JSON names follow the
// sheet's column names so exported data round-trips through the upload.
type Course struct {
	ID               string    `json:"_id"`
	CourseNumber     string    `json:"COURSE_NUMBER" validate:"required,max=64"`
	Title            string    `json:"TITLE_START_DATE" validate:"max=256"`
	AcademicLevel    string    `json:"ACADEMIC_LEVEL"`
	Capacity         int       `json:"CAPACITY" validate:"gte=0"`
	NumberOfStudents int       `json:"NUMBER_OF_STUDENTS" validate:"gte=0"`
	Status           string    `json:"STATUS"`
	Instructor       string    `json:"INSTRUCTOR"`
	StartTime        string    `json:"START_TIME" validate:"omitempty,clock"`
	EndTime          string    `json:"END_TIME" validate:"omitempty,clock"`
	MeetingDays      string    `json:"MEETING_DAYS" validate:"omitempty,meeting_days"`
	Building         string    `json:"BUILDING"`
	Room             string    `json:"ROOM"`
	Fee              string    `json:"FEE"`
	MinCredits       int       `json:"MIN_CREDITS" validate:"gte=0"`
	MaxCredits       int       `json:"MAX_CREDITS" validate:"gte=0"`
	Section          string    `json:"SECTION"`
	Term             string    `json:"TERM" validate:"omitempty,term"`
	SeqNo            int       `json:"SEQ_NO" validate:"gte=0"`
	Schools          string    `json:"SCHOOLS"`
	AcademicLevel1   string    `json:"ACADEMIC_LEVEL_1"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Session projects the course onto the fields the calendar needs.
func (c *Course) Session() schedule.Session {
	return schedule.Session{
		ID:           c.ID,
		CourseNumber: c.CourseNumber,
		Title:        c.Title,
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
		MeetingDays:  c.MeetingDays,
		Building:     c.Building,
		Room:         c.Room,
		Status:       c.Status,
	}
}

// Sessions projects a list of courses, keeping order.
func Sessions(courses []*Course) []schedule.Session {
	out := make([]schedule.Session, len(courses))
	for i, c := range courses {
		out[i] = c.Session()
	}
	return out
}

// Semester returns the term suffix, e.g. "FA" for "24/FA".
func (c *Course) Semester() string {
	if _, suffix, ok := strings.Cut(c.Term, "/"); ok {
		return suffix
	}
	return c.Term
}

var termPattern = regexp.MustCompile(`^(\d{2,4}/)?[A-Z]{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseTime(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("meeting_days", func(fl validator.FieldLevel) bool {
		days, unknown := schedule.DecodeDays(fl.Field().String())
		return len(days) > 0 && len(unknown) == 0
	})
	_ = v.RegisterValidation("term", func(fl validator.FieldLevel) bool {
		return termPattern.MatchString(strings.ToUpper(fl.Field().String()))
	})
	return v
}

var tagMessages = map[string]string{
	"required":     "is required",
	"max":          "is too long",
	"gte":          "must not be negative",
	"clock":        "must be a time like 9:30 AM",
	"meeting_days": "must use the day codes M T W TH F",
	"term":         "must look like 24/FA",
}

// Validate checks the course at the editing boundary. Times that decode to
// an empty or inverted range are rejected here so they never reach placement.
func (c *Course) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidCourse, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msg, ok := tagMessages[fe.Tag()]
			if !ok {
				msg = "is invalid"
			}
			msgs = append(msgs, fe.Field()+" "+msg)
		}
		return fmt.Errorf("%w: %s", ErrInvalidCourse, strings.Join(msgs, ", "))
	}

	if c.MaxCredits > 0 && c.MaxCredits < c.MinCredits {
		return fmt.Errorf("%w: MaxCredits is below MinCredits", ErrInvalidCourse)
	}
	if c.StartTime != "" && c.EndTime != "" {
		start, _ := schedule.ParseMinutes(c.StartTime)
		end, _ := schedule.ParseMinutes(c.EndTime)
		if start >= end {
			return fmt.Errorf("%w: %w", ErrInvalidCourse, schedule.ErrInvalidRange)
		}
	}
	return nil
}

// Normalize trims free-text fields and canonicalizes the term and day codes.
func (c *Course) Normalize() {
	c.CourseNumber = strings.TrimSpace(c.CourseNumber)
	c.Title = strings.TrimSpace(c.Title)
	c.StartTime = strings.TrimSpace(c.StartTime)
	c.EndTime = strings.TrimSpace(c.EndTime)
	c.Building = strings.TrimSpace(c.Building)
	c.Room = strings.TrimSpace(c.Room)
	c.Term = strings.ToUpper(strings.TrimSpace(c.Term))
	if days, unknown := schedule.DecodeDays(c.MeetingDays); len(days) > 0 && len(unknown) == 0 {
		c.MeetingDays = days.Pattern()
	}
}
