package server

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/service"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func encode(success bool, message string, data any) ([]byte, error) {
	return json.Marshal(Response{Success: success, Message: message, Data: data})
}

func writeBody(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

func (s *Server) writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	body, err := encode(true, message, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeBody(w, code, body)
}

// writeError maps domain errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code, message := statusOf(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	body, _ := encode(false, message, nil)
	writeBody(w, code, body)
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound), errors.Is(err, course.ErrCatalogNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, course.ErrDuplicateCourse):
		return http.StatusConflict, err.Error()
	case service.IsBadRequest(err), errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// errBadRequest marks malformed request bodies and forms.
var errBadRequest = errors.New("bad request")
