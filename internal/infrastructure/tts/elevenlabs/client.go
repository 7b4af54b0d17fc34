package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io/v1"
	DefaultModel   = "eleven_turbo_v2_5"
	DefaultFormat  = "mp3_44100_128"
)

type Config struct {
	APIKey   string
	VoiceID  string
	Model    string
	Format   string
	BaseURL  string
	Timeout  time.Duration
	Executor *resilience.Executor
}

// Client renders narration text as audio through the ElevenLabs API.
type Client struct {
	apiKey   string
	voiceID  string
	model    string
	format   string
	baseURL  string
	http     *http.Client
	executor *resilience.Executor
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing elevenlabs api key")
	}
	if cfg.VoiceID == "" {
		return nil, errors.New("missing elevenlabs voice id")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 300 * time.Second
	}

	return &Client{
		apiKey:   cfg.APIKey,
		voiceID:  cfg.VoiceID,
		model:    cfg.Model,
		format:   cfg.Format,
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		executor: cfg.Executor,
	}, nil
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type errorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// Synthesize converts text to audio bytes. Implements ports.SpeechSynthesizer.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "synthesize", errors.New("empty narration text"))
	}

	var audio []byte
	call := func(callCtx context.Context) error {
		data, err := c.doRequest(callCtx, text)
		if err != nil {
			return err
		}
		audio = data
		return nil
	}

	if c.executor != nil {
		if err := c.executor.Execute(ctx, "elevenlabs.synthesize", call, classifyTTSError); err != nil {
			return nil, err
		}
		return audio, nil
	}
	if err := call(ctx); err != nil {
		return nil, err
	}
	return audio, nil
}

func (c *Client) doRequest(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: c.model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", c.baseURL, c.voiceID, c.format)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "elevenlabs request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Detail.Message != "" {
			msg = errResp.Detail.Message
		}
		statusErr := fmt.Errorf("elevenlabs status %d: %s", resp.StatusCode, msg)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, domain.WrapError(domain.ErrTemporary, "elevenlabs request", statusErr)
		}
		return nil, domain.WrapError(domain.ErrUpstream, "elevenlabs request", statusErr)
	}
	return body, nil
}

func classifyTTSError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
