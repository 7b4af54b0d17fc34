package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/core/ports"
)

// NarrationUseCase enqueues narration jobs from the API side and executes
// them on the worker side.
type NarrationUseCase struct {
	repo    ports.SyllabusRepository
	queue   ports.MessageQueue
	storage ports.ObjectStorage
	tts     ports.SpeechSynthesizer
	log     *slog.Logger
}

func NewNarrationUseCase(
	repo ports.SyllabusRepository,
	queue ports.MessageQueue,
	storage ports.ObjectStorage,
	tts ports.SpeechSynthesizer,
	log *slog.Logger,
) *NarrationUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &NarrationUseCase{
		repo:    repo,
		queue:   queue,
		storage: storage,
		tts:     tts,
		log:     log,
	}
}

// RequestNarration verifies ownership and enqueues a narration job.
func (uc *NarrationUseCase) RequestNarration(ctx context.Context, ownerID, syllabusID string) error {
	rec, err := uc.repo.GetByID(ctx, syllabusID)
	if err != nil {
		return fmt.Errorf("fetch syllabus: %w", err)
	}
	if rec.OwnerID != ownerID {
		// Do not reveal records owned by other users.
		return domain.WrapError(domain.ErrSyllabusNotFound, "request narration",
			fmt.Errorf("syllabus %s not owned by caller", syllabusID))
	}
	if err := uc.queue.PublishNarrationRequested(ctx, syllabusID); err != nil {
		return fmt.Errorf("enqueue narration job: %w", err)
	}
	return nil
}

// GenerateNarration synthesizes the audio summary for a stored record and
// saves it to object storage. Called by the worker.
func (uc *NarrationUseCase) GenerateNarration(ctx context.Context, syllabusID string) error {
	rec, err := uc.repo.GetByID(ctx, syllabusID)
	if err != nil {
		return fmt.Errorf("fetch syllabus: %w", err)
	}

	script := BuildNarrationScript(rec.Course)
	audio, err := uc.tts.Synthesize(ctx, script)
	if err != nil {
		return fmt.Errorf("synthesize narration: %w", err)
	}

	key := AudioStorageKey(syllabusID)
	if err := uc.storage.Save(ctx, key, bytes.NewReader(audio)); err != nil {
		return fmt.Errorf("store narration audio: %w", err)
	}
	if err := uc.repo.SetAudioPath(ctx, syllabusID, key); err != nil {
		return fmt.Errorf("record audio path: %w", err)
	}

	uc.log.Info("narration generated",
		"syllabus_id", syllabusID,
		"bytes", len(audio),
		"script_chars", len(script),
	)
	return nil
}

// AudioStorageKey is the storage location of a syllabus's narration audio.
func AudioStorageKey(syllabusID string) string {
	return "audio/" + syllabusID + ".mp3"
}

// BuildNarrationScript renders a spoken-word summary of a course: overview,
// weekly load, and the nearest deadlines. Plain text only, no markup, so it
// can be fed to a speech synthesizer as-is.
func BuildNarrationScript(course domain.CourseRecord) string {
	var b strings.Builder

	name := course.Identifier()
	if name == "" {
		name = "your course"
	}
	fmt.Fprintf(&b, "Here is your study summary for %s. ", name)

	if course.Professor.Name != "" {
		fmt.Fprintf(&b, "The course is taught by %s. ", course.Professor.Name)
	}
	if course.ClassSchedule != "" {
		fmt.Fprintf(&b, "Classes meet %s. ", course.ClassSchedule)
	}

	if n := len(course.Chapters); n > 0 {
		hours := 0
		for _, ch := range course.Chapters {
			if ch.WeeklyHours > 0 {
				hours += ch.WeeklyHours
			}
		}
		fmt.Fprintf(&b, "There are %d topics to cover", n)
		if hours > 0 {
			fmt.Fprintf(&b, ", adding up to about %d study hours per week", hours)
		}
		b.WriteString(". ")
	}

	deadlines := collectDeadlines([]domain.CourseRecord{course})
	dated := deadlines[:0]
	for _, d := range deadlines {
		if d.Date != "" {
			dated = append(dated, d)
		}
	}
	if len(dated) > 0 {
		b.WriteString("Coming up: ")
		limit := len(dated)
		if limit > 5 {
			limit = 5
		}
		for i := 0; i < limit; i++ {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s, a %s, due %s", dated[i].Title, dated[i].Type, dated[i].Date)
		}
		b.WriteString(". ")
	}

	b.WriteString("Good luck, and keep up the steady pace.")
	return b.String()
}
