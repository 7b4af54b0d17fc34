package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	genai "google.golang.org/genai"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

type recordedRequest struct {
	operation string
	duration  time.Duration
	err       error
}

func newFakeClient(reply string, replyErr error, recorded *[]recordedRequest) *Client {
	c := &Client{
		invoke: func(context.Context, []*genai.Content) (string, error) {
			return reply, replyErr
		},
	}
	c.recorder = func(operation string, duration time.Duration, err error) {
		*recorded = append(*recorded, recordedRequest{operation, duration, err})
	}
	return c
}

func TestGenerateTextRecordsSuccessfulRequest(t *testing.T) {
	var recorded []recordedRequest
	c := newFakeClient("reply", nil, &recorded)

	out, err := c.GenerateText(context.Background(), "analyze_course", "prompt")
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if out != "reply" {
		t.Fatalf("unexpected reply %q", out)
	}
	if len(recorded) != 1 {
		t.Fatalf("expected 1 recorded request, got %d", len(recorded))
	}
	if recorded[0].operation != "analyze_course" {
		t.Fatalf("unexpected operation %q", recorded[0].operation)
	}
	if recorded[0].err != nil {
		t.Fatalf("expected nil recorded error, got %v", recorded[0].err)
	}
}

func TestGenerateTextRecordsFailedRequest(t *testing.T) {
	upstream := domain.WrapError(domain.ErrUpstream, "gemini generate", errors.New("503"))
	var recorded []recordedRequest
	c := newFakeClient("", upstream, &recorded)

	if _, err := c.GenerateText(context.Background(), "analyze_deadlines", "prompt"); err == nil {
		t.Fatal("expected upstream error")
	}
	if len(recorded) != 1 {
		t.Fatalf("expected 1 recorded request, got %d", len(recorded))
	}
	if recorded[0].operation != "analyze_deadlines" {
		t.Fatalf("unexpected operation %q", recorded[0].operation)
	}
	if !domain.IsKind(recorded[0].err, domain.ErrUpstream) {
		t.Fatalf("expected recorded upstream error, got %v", recorded[0].err)
	}
}

func TestRecognizePageRecordsOperation(t *testing.T) {
	var recorded []recordedRequest
	c := newFakeClient("  page text  ", nil, &recorded)

	text, err := c.RecognizePage(context.Background(), []byte("pdf-page"))
	if err != nil {
		t.Fatalf("RecognizePage() error = %v", err)
	}
	if text != "page text" {
		t.Fatalf("expected trimmed transcription, got %q", text)
	}
	if len(recorded) != 1 || recorded[0].operation != "recognize_page" {
		t.Fatalf("unexpected recorded requests %+v", recorded)
	}
}

func TestGenerateTextWithoutRecorder(t *testing.T) {
	c := &Client{
		invoke: func(context.Context, []*genai.Content) (string, error) {
			return "reply", nil
		},
	}
	if _, err := c.GenerateText(context.Background(), "analyze_course", "prompt"); err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
}
