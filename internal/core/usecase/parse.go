package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/core/ports"
)

// ParseSyllabiUseCase runs the upload pipeline for each file in request
// order: temp spill, text extraction, model analysis, shape validation,
// persistence. Files are processed sequentially; a failing file is skipped
// and the rest of the batch continues.
type ParseSyllabiUseCase struct {
	repo      ports.SyllabusRepository
	extractor ports.TextExtractor
	analyzer  ports.SyllabusAnalyzer
	log       *slog.Logger
}

func NewParseSyllabiUseCase(
	repo ports.SyllabusRepository,
	extractor ports.TextExtractor,
	analyzer ports.SyllabusAnalyzer,
	log *slog.Logger,
) *ParseSyllabiUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &ParseSyllabiUseCase{
		repo:      repo,
		extractor: extractor,
		analyzer:  analyzer,
		log:       log,
	}
}

func (uc *ParseSyllabiUseCase) ParseFiles(
	ctx context.Context,
	ownerID string,
	uploads []ports.Upload,
	optimize bool,
) (*ports.ParseResult, error) {
	result := &ports.ParseResult{
		Records: []domain.SyllabusRecord{},
		Stats:   domain.ExtractionStats{TotalFiles: len(uploads)},
	}

	for _, up := range uploads {
		rec, extraction, err := uc.parseOne(ctx, ownerID, up, optimize)
		if err != nil {
			uc.log.Warn("skipping file",
				"filename", up.Filename,
				"error", err,
			)
			continue
		}

		result.Stats.SuccessfulExtractions++
		result.Stats.TotalCharacters += len(extraction.Text)
		result.Stats.TotalWords += len(strings.Fields(extraction.Text))
		if extraction.Method == domain.MethodOCR {
			result.Stats.OCRFallbacks++
		}
		result.Records = append(result.Records, *rec)
	}

	if len(result.Records) == 0 {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"parse syllabi",
			errors.New("no valid course data extracted from provided files"),
		)
	}
	return result, nil
}

func (uc *ParseSyllabiUseCase) parseOne(
	ctx context.Context,
	ownerID string,
	up ports.Upload,
	optimize bool,
) (*domain.SyllabusRecord, domain.Extraction, error) {
	var none domain.Extraction

	if !strings.EqualFold(filepath.Ext(up.Filename), ".pdf") {
		return nil, none, domain.WrapError(
			domain.ErrInvalidInput,
			"validate upload",
			fmt.Errorf("only PDF files are supported, got %q", up.Filename),
		)
	}

	extraction, err := uc.extractToText(ctx, up)
	if err != nil {
		return nil, none, err
	}

	course, err := uc.analyzer.AnalyzeCourse(ctx, extraction.Text, optimize)
	if err != nil {
		return nil, none, fmt.Errorf("analyze syllabus text: %w", err)
	}
	course.EnsureSlices()

	// Validation is advisory: a malformed record is flagged, logged, and
	// still returned so the caller can decide what to do with it.
	status := domain.StatusReady
	if violations := domain.Validate(course); len(violations) > 0 {
		status = domain.StatusNeedsReview
		uc.log.Warn("course record failed shape validation",
			"filename", up.Filename,
			"violations", violations,
		)
	}

	now := time.Now().UTC()
	rec := &domain.SyllabusRecord{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Filename:   up.Filename,
		Course:     course,
		Status:     status,
		UploadedAt: now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, none, fmt.Errorf("persist syllabus record: %w", err)
	}

	uc.log.Info("parsed syllabus",
		"filename", up.Filename,
		"course", course.Identifier(),
		"method", extraction.Method,
		"chars", len(extraction.Text),
	)
	return rec, extraction, nil
}

// ScanDeadlines runs the lightweight deadline-only pipeline: same extraction
// path, but the model returns a flat deadline list and nothing is persisted.
func (uc *ParseSyllabiUseCase) ScanDeadlines(ctx context.Context, uploads []ports.Upload) ([]domain.Deadline, error) {
	deadlines := []domain.Deadline{}
	scanned := 0

	for _, up := range uploads {
		if !strings.EqualFold(filepath.Ext(up.Filename), ".pdf") {
			uc.log.Warn("skipping file", "filename", up.Filename, "error", "only PDF files are supported")
			continue
		}
		extraction, err := uc.extractToText(ctx, up)
		if err != nil {
			uc.log.Warn("skipping file", "filename", up.Filename, "error", err)
			continue
		}
		found, err := uc.analyzer.AnalyzeDeadlines(ctx, extraction.Text)
		if err != nil {
			uc.log.Warn("skipping file", "filename", up.Filename, "error", err)
			continue
		}
		deadlines = append(deadlines, found...)
		scanned++
	}

	if scanned == 0 {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"scan deadlines",
			errors.New("no valid course data extracted from provided files"),
		)
	}
	return deadlines, nil
}

// extractToText spills the upload to a temp file for the extractor and
// guarantees removal on every exit path.
func (uc *ParseSyllabiUseCase) extractToText(ctx context.Context, up ports.Upload) (domain.Extraction, error) {
	var none domain.Extraction

	tmp, err := os.CreateTemp("", "syllabus-*.pdf")
	if err != nil {
		return none, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, up.Body); err != nil {
		tmp.Close()
		return none, fmt.Errorf("spool upload to temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return none, fmt.Errorf("close temp file: %w", err)
	}

	extraction, err := uc.extractor.Extract(ctx, tmp.Name())
	if err != nil {
		return none, fmt.Errorf("extract text: %w", err)
	}
	if len(strings.TrimSpace(extraction.Text)) < domain.MinExtractedTextChars {
		return none, domain.WrapError(
			domain.ErrExtraction,
			"extract text",
			errors.New("could not extract sufficient text from PDF"),
		)
	}
	return extraction, nil
}
