package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSyllabusNotFound = errors.New("syllabus not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrExtraction       = errors.New("extraction failed")
	ErrUpstream         = errors.New("upstream model failure")
	ErrParse            = errors.New("model response parse failure")
	ErrTemporary        = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
