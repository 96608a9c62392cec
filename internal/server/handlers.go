package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/ingest"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeSuccess(w, http.StatusOK, "ok", nil)
}

// queryOf reads the curriculum filter. "course" is accepted as an alias of
// "program" for older clients.
func queryOf(v url.Values) curriculum.Query {
	program := v.Get("program")
	if program == "" {
		program = v.Get("course")
	}
	return curriculum.Query{
		Program:  program,
		Year:     v.Get("year"),
		Semester: v.Get("semester"),
		Room:     v.Get("room"),
	}
}

// cached serves a read from the response cache, or runs load and stores the
// encoded reply. Cache failures only cost the cache.
func (s *Server) cached(w http.ResponseWriter, r *http.Request, route string, load func(ctx context.Context, q curriculum.Query) (string, any, error)) {
	ctx := r.Context()
	key := r.URL.Query().Encode()

	if body, hit, err := s.cache.Get(ctx, route, key); err != nil {
		s.log.Warn("cache read failed", zap.String("route", route), zap.Error(err))
	} else if hit {
		writeBody(w, http.StatusOK, body)
		return
	}

	message, data, err := load(ctx, queryOf(r.URL.Query()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := encode(true, message, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.cache.Set(ctx, route, key, body); err != nil {
		s.log.Warn("cache write failed", zap.String("route", route), zap.Error(err))
	}
	writeBody(w, http.StatusOK, body)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "courses", func(ctx context.Context, q curriculum.Query) (string, any, error) {
		courses, err := s.svc.ListCourses(ctx, q)
		if err != nil {
			return "", nil, err
		}
		if courses == nil {
			courses = []*course.Course{}
		}
		return fmt.Sprintf("%d courses", len(courses)), courses, nil
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "calendar", func(ctx context.Context, q curriculum.Query) (string, any, error) {
		view, err := s.svc.Calendar(ctx, q)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%d cells, %d conflicts, %d rejected", len(view.Cells), view.Conflicts(), len(view.Rejections)), view, nil
	})
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "rooms", func(ctx context.Context, q curriculum.Query) (string, any, error) {
		rooms, err := s.svc.Rooms(ctx, q)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%d rooms", len(rooms)), rooms, nil
	})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, "course found", c)
}

func decodeCourse(r *http.Request) (*course.Course, error) {
	var c course.Course
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: decoding course: %v", errBadRequest, err)
	}
	return &c, nil
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCourse(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c.ID = ""
	if err := s.svc.CreateCourse(r.Context(), c); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusCreated, "course created", c)
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	c, err := decodeCourse(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c.ID = chi.URLParam(r, "id")
	if err := s.svc.UpdateCourse(r.Context(), c); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, "course updated", c)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.DeleteCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, "course deleted", c)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.svc.Catalog(r.Context(), chi.URLParam(r, "curriculumType"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, "catalog found", cat)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, fmt.Errorf("%w: upload larger than %d MB", errBadRequest, s.cfg.MaxUploadMB))
			return
		}
		s.writeError(w, fmt.Errorf("%w: reading upload: %v", errBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: no file uploaded", errBadRequest))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, fmt.Errorf("reading upload: %w", err))
		return
	}

	report, err := s.svc.Import(r.Context(), ingest.Upload{
		Name:     header.Filename,
		Semester: r.FormValue("term"),
		Data:     data,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, http.StatusOK, report.Message(), report)
}
