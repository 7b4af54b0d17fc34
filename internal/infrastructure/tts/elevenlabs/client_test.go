package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		APIKey:  "test-key",
		VoiceID: "voice-1",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestSynthesizeSendsRequestAndReturnsAudio(t *testing.T) {
	var gotPath, gotKey string
	var gotBody ttsRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte("mp3-bytes"))
	})

	audio, err := c.Synthesize(context.Background(), "Course overview narration.")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("unexpected audio payload %q", audio)
	}
	if !strings.HasSuffix(gotPath, "/text-to-speech/voice-1") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header not set")
	}
	if gotBody.Text != "Course overview narration." || gotBody.ModelID != DefaultModel {
		t.Fatalf("unexpected request body %+v", gotBody)
	}
}

func TestSynthesizeRateLimitIsTemporary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":{"status":"rate_limited","message":"slow down"}}`))
	})

	_, err := c.Synthesize(context.Background(), "text")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
}

func TestSynthesizeClientErrorIsUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key","message":"bad key"}}`))
	})

	_, err := c.Synthesize(context.Background(), "text")
	if !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected API message in error, got %v", err)
	}
}

func TestSynthesizeEmptyTextIsInvalidInput(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.Synthesize(context.Background(), "")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
