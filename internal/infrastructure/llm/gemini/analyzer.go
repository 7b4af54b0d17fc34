package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

// Analyzer implements ports.SyllabusAnalyzer on top of the Gemini client.
type Analyzer struct {
	client      *Client
	assumedYear int
	log         *slog.Logger
}

func NewAnalyzer(client *Client, assumedYear int, log *slog.Logger) *Analyzer {
	return &Analyzer{client: client, assumedYear: assumedYear, log: log}
}

// AnalyzeCourse extracts a full structured course record from syllabus text.
// The optimize flag switches to the chapter-reordering prompt.
func (a *Analyzer) AnalyzeCourse(ctx context.Context, text string, optimize bool) (domain.CourseRecord, error) {
	prompt := BuildCoursePrompt(text, a.assumedYear)
	if optimize {
		prompt = BuildOptimizedCoursePrompt(text, a.assumedYear)
	}

	payload, err := a.complete(ctx, "analyze_course", prompt)
	if err != nil {
		return domain.CourseRecord{}, err
	}

	var rec domain.CourseRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return domain.CourseRecord{}, domain.WrapError(domain.ErrParse, "decode course record", err)
	}
	rec.EnsureSlices()
	return rec, nil
}

// AnalyzeDeadlines extracts only the flat deadline list.
func (a *Analyzer) AnalyzeDeadlines(ctx context.Context, text string) ([]domain.Deadline, error) {
	payload, err := a.complete(ctx, "analyze_deadlines", BuildDeadlinePrompt(text, a.assumedYear))
	if err != nil {
		return nil, err
	}

	var out struct {
		Deadlines []domain.Deadline `json:"deadlines"`
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, domain.WrapError(domain.ErrParse, "decode deadline list", err)
	}
	if out.Deadlines == nil {
		out.Deadlines = []domain.Deadline{}
	}
	return out.Deadlines, nil
}

func (a *Analyzer) complete(ctx context.Context, operation, prompt string) (string, error) {
	raw, err := a.client.GenerateText(ctx, operation, prompt)
	if err != nil {
		return "", err
	}

	payload, err := Normalize(raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			a.log.Warn("model response not recoverable", "reason", pe.Reason, "excerpt", pe.Excerpt)
		}
		return "", domain.WrapError(domain.ErrParse, "normalize model response", err)
	}
	return payload, nil
}
