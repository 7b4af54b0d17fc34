package httpadapter

import (
	"errors"
	"net/http"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/llm/gemini"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrSyllabusNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrParse), domain.IsKind(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": err.Error()}

	// Parse failures carry a bounded excerpt of the raw model reply.
	var pe *gemini.ParseError
	if errors.As(err, &pe) && pe.Excerpt != "" {
		body["detail"] = pe.Excerpt
	}

	writeJSON(w, mapErrorToHTTPStatus(err), body)
}
