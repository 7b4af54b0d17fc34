package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	genai "google.golang.org/genai"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/infrastructure/resilience"
)

const DefaultModel = "gemini-2.5-flash"

// RequestRecorder observes one model request after it completes, whatever
// the outcome. Used to feed the llm metric family.
type RequestRecorder func(operation string, duration time.Duration, err error)

type Config struct {
	APIKey            string
	Model             string
	RequestTimeout    time.Duration // per-call budget, default 120s
	RequestsPerSecond float64       // 0 disables client-side rate limiting
	Executor          *resilience.Executor
	Recorder          RequestRecorder
}

// Client wraps the Gemini API behind a rate limiter, a per-call timeout,
// and the shared resilience executor.
type Client struct {
	api      *genai.Client
	model    string
	timeout  time.Duration
	limiter  *rate.Limiter
	executor *resilience.Executor
	recorder RequestRecorder

	invoke func(ctx context.Context, contents []*genai.Content) (string, error)
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing gemini api key")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}

	api, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	c := &Client{
		api:      api,
		model:    cfg.Model,
		timeout:  cfg.RequestTimeout,
		limiter:  limiter,
		executor: cfg.Executor,
		recorder: cfg.Recorder,
	}
	c.invoke = c.callModel
	return c, nil
}

// GenerateText sends a single text prompt and returns the trimmed reply.
// The operation name labels the request in metrics and breaker state.
func (c *Client) GenerateText(ctx context.Context, operation, prompt string) (string, error) {
	return c.generate(ctx, operation, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	})
}

func (c *Client) generate(ctx context.Context, operation string, contents []*genai.Content) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	var out string
	call := func(callCtx context.Context) error {
		text, err := c.invoke(callCtx, contents)
		if err != nil {
			return err
		}
		out = text
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "gemini."+operation, call, classifyModelError)
	} else {
		err = call(ctx)
	}
	if c.recorder != nil {
		c.recorder(operation, time.Since(start), err)
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) callModel(ctx context.Context, contents []*genai.Content) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.api.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", domain.WrapError(domain.ErrUpstream, "gemini generate", err)
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", domain.WrapError(domain.ErrUpstream, "gemini generate", errors.New("empty model response"))
	}
	return text, nil
}

func classifyModelError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if domain.IsKind(err, domain.ErrUpstream) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
