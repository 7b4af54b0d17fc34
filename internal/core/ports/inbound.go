package ports

import (
	"context"
	"io"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

// Upload is one file from a multipart parse request.
type Upload struct {
	Filename string
	Body     io.Reader
}

// ParseResult carries the per-request output of a multi-file parse.
type ParseResult struct {
	Records []domain.SyllabusRecord `json:"courses"`
	Stats   domain.ExtractionStats  `json:"extraction_stats"`
}

// EstimateResult is a SchedulePlan plus the stats of the parse that fed it.
type EstimateResult struct {
	Plan         domain.SchedulePlan    `json:"schedule"`
	Stats        domain.ExtractionStats `json:"extraction_stats"`
	TotalCourses int                    `json:"total_courses"`
}

// SyllabusParser is the inbound contract for syllabus upload parsing.
type SyllabusParser interface {
	ParseFiles(ctx context.Context, ownerID string, uploads []Upload, optimize bool) (*ParseResult, error)
	ScanDeadlines(ctx context.Context, uploads []Upload) ([]domain.Deadline, error)
}

// ScheduleEstimator derives a merged study plan from uploaded syllabi.
type ScheduleEstimator interface {
	Estimate(ctx context.Context, ownerID string, uploads []Upload, optimize bool) (*EstimateResult, error)
}

// NarrationService enqueues and executes audio summary generation.
type NarrationService interface {
	RequestNarration(ctx context.Context, ownerID, syllabusID string) error
	GenerateNarration(ctx context.Context, syllabusID string) error
}
