package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

// OpenAIGrader grades answers through an OpenAI-compatible chat
// completions endpoint. It satisfies contract.Grader.
type OpenAIGrader struct {
	model       string
	baseURL     string
	apiKey      string
	temperature float64
	strictness  schema.Strictness
	retries     int
	httpClient  *http.Client
}

// NewOpenAIGrader builds a grader from the resolved configuration.
func NewOpenAIGrader(cfg *contract.Config) *OpenAIGrader {
	return &OpenAIGrader{
		model:       cfg.Model,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		strictness:  cfg.Strictness,
		retries:     cfg.Retries,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const maxCompletionTokens = 8192

// Grade runs a single grading pass. Transient failures are retried
// with exponential backoff before the pass is given up on.
func (g *OpenAIGrader) Grade(ctx context.Context, rubric *schema.Rubric, answer string) (*schema.CandidateResult, error) {
	userPrompt := BuildGradingPrompt(rubric, answer, g.strictness)

	content, err := g.completeWithRetry(ctx, []chatMessage{
		{Role: "system", Content: SystemPrompt()},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseResponse(content, rubric, 0)
	if err != nil {
		return nil, &schema.BackendError{Err: err}
	}
	return result, nil
}

// Health sends a minimal completion request to verify that the
// endpoint is reachable and the key is accepted.
func (g *OpenAIGrader) Health(ctx context.Context) error {
	_, err := g.complete(ctx, chatRequest{
		Model:     g.model,
		Messages:  []chatMessage{{Role: "user", Content: "ping"}},
		MaxTokens: 5,
	})
	return err
}

func (g *OpenAIGrader) completeWithRetry(ctx context.Context, messages []chatMessage) (string, error) {
	req := chatRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
		MaxTokens:   maxCompletionTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= g.retries; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return "", &schema.BackendError{Transient: true, Err: err}
			}
		}

		content, err := g.complete(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !isTransient(err) {
			return "", err
		}
	}
	return "", lastErr
}

func (g *OpenAIGrader) complete(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := g.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", &schema.BackendError{Transient: true, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", &schema.BackendError{Transient: true, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &schema.BackendError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Error != nil {
		return "", &schema.BackendError{Err: fmt.Errorf("api error: %s", parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &schema.BackendError{Err: fmt.Errorf("empty response from model")}
	}
	return parsed.Choices[0].Message.Content, nil
}

func statusError(code int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	err := fmt.Errorf("HTTP %d: %s", code, msg)

	// 429 and 5xx are worth retrying, other client errors are not.
	transient := code == http.StatusTooManyRequests || code >= 500
	return &schema.BackendError{Transient: transient, Err: err}
}

func isTransient(err error) bool {
	var be *schema.BackendError
	return errors.As(err, &be) && be.Transient
}

const (
	baseBackoff = time.Second
	maxBackoff  = 30 * time.Second
)

// sleepBackoff waits out the exponential backoff for the given attempt,
// returning early if the context is cancelled.
func sleepBackoff(ctx context.Context, attempt int) error {
	delay := baseBackoff << (attempt - 1)
	if delay > maxBackoff {
		delay = maxBackoff
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
