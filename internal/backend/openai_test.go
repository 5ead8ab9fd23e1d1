package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/gradekit/internal/contract"
	"github.com/huangsam/gradekit/schema"
)

func testGrader(url string) *OpenAIGrader {
	return NewOpenAIGrader(&contract.Config{
		Model:       "openai/gpt-5",
		BaseURL:     url,
		APIKey:      "test-key",
		Temperature: 0.0,
		Strictness:  schema.ProportionalStrictness,
		Retries:     2,
		Timeout:     5 * time.Second,
	})
}

func chatReply(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return body
}

func TestOpenAIGraderGrade(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "openai/gpt-5", req.Model)
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		_, _ = w.Write(chatReply(validResponse))
	}))
	defer srv.Close()

	result, err := testGrader(srv.URL).Grade(context.Background(), essayRubric(), "essay")
	assert.NoError(t, err)
	assert.InDelta(t, 47.0, result.TotalScore, 1e-9)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestOpenAIGraderRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write(chatReply(validResponse))
	}))
	defer srv.Close()

	result, err := testGrader(srv.URL).Grade(context.Background(), essayRubric(), "essay")
	assert.NoError(t, err)
	assert.InDelta(t, 47.0, result.TotalScore, 1e-9)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIGraderNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testGrader(srv.URL).Grade(context.Background(), essayRubric(), "essay")
	var be *schema.BackendError
	assert.ErrorAs(t, err, &be)
	assert.False(t, be.Transient)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIGraderInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(chatReply("I refuse to grade this."))
	}))
	defer srv.Close()

	_, err := testGrader(srv.URL).Grade(context.Background(), essayRubric(), "essay")
	var be *schema.BackendError
	assert.ErrorAs(t, err, &be)
	assert.ErrorContains(t, err, "no JSON object")
}

func TestOpenAIGraderHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.MaxTokens)
		_, _ = w.Write(chatReply("pong"))
	}))
	defer srv.Close()

	assert.NoError(t, testGrader(srv.URL).Health(context.Background()))
}

func TestOpenAIGraderHealthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Error(t, testGrader(srv.URL).Health(context.Background()))
}

func TestMockGraderScript(t *testing.T) {
	mock := &MockGrader{
		Results: []*schema.CandidateResult{
			{TotalScore: 40, MaxPossible: 55},
			{TotalScore: 42, MaxPossible: 55},
		},
		Errors: []error{nil, nil},
	}

	first, err := mock.Grade(context.Background(), essayRubric(), "x")
	assert.NoError(t, err)
	assert.InDelta(t, 40.0, first.TotalScore, 1e-9)

	second, err := mock.Grade(context.Background(), essayRubric(), "x")
	assert.NoError(t, err)
	assert.InDelta(t, 42.0, second.TotalScore, 1e-9)

	// Script exhausted, last result repeats.
	third, err := mock.Grade(context.Background(), essayRubric(), "x")
	assert.NoError(t, err)
	assert.InDelta(t, 42.0, third.TotalScore, 1e-9)
}
