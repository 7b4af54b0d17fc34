package ports

import (
	"context"
	"io"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

// SyllabusRepository persists and reads syllabus records.
type SyllabusRepository interface {
	Create(ctx context.Context, rec *domain.SyllabusRecord) error
	GetByID(ctx context.Context, id string) (*domain.SyllabusRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.SyllabusRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.SyllabusStatus, errMessage string) error
	SetAudioPath(ctx context.Context, id, path string) error
}

// ObjectStorage stores generated artifacts (narration audio).
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes narration jobs.
type MessageQueue interface {
	PublishNarrationRequested(ctx context.Context, syllabusID string) error
	SubscribeNarrationRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a PDF on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (domain.Extraction, error)
}

// PageOCR transcribes a single-page PDF payload.
type PageOCR interface {
	RecognizePage(ctx context.Context, singlePagePDF []byte) (string, error)
}

// SyllabusAnalyzer turns extracted syllabus text into structured data.
type SyllabusAnalyzer interface {
	AnalyzeCourse(ctx context.Context, text string, optimize bool) (domain.CourseRecord, error)
	AnalyzeDeadlines(ctx context.Context, text string) ([]domain.Deadline, error)
}

// SpeechSynthesizer renders narration text as audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// TokenVerifier validates a bearer token and returns the caller's identity.
type TokenVerifier interface {
	Verify(token string) (domain.UserClaims, error)
}
