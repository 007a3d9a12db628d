package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func testRequest() Request {
	return Request{
		Model:     "test-model",
		Messages:  []Message{{Role: "user", Content: "hello"}},
		MaxTokens: 100,
	}
}

func TestCompleteSuccess(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{
		"choices": [{"message": {"content": "the answer"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", nil)
	comp, err := c.Complete(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "the answer", comp.Text)
	assert.Equal(t, "stop", comp.FinishReason)
	assert.Equal(t, 15, comp.Usage.TotalTokens)
}

func TestCompleteSendsRequestBody(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices": [{"message": {"content": "ok"}, "finish_reason": "stop"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", nil)
	_, err := c.Complete(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	assert.Zero(t, got.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestCompleteStatusError(t *testing.T) {
	srv := completionServer(t, http.StatusTooManyRequests, `{"error": "rate limited"}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", nil)
	_, err := c.Complete(context.Background(), testRequest())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Contains(t, statusErr.Body, "rate limited")
}

func TestCompleteNoChoices(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"choices": [], "usage": {"total_tokens": 3}}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", nil)
	_, err := c.Complete(context.Background(), testRequest())

	var emptyErr *EmptyResponseError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, 3, emptyErr.Usage.TotalTokens)
}

func TestCompleteTruncated(t *testing.T) {
	// Empty content with finish_reason "length" means the output budget was
	// consumed before any text was produced.
	srv := completionServer(t, http.StatusOK, `{
		"choices": [{"message": {"content": ""}, "finish_reason": "length"}],
		"usage": {"completion_tokens": 16000, "total_tokens": 17000}
	}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", nil)
	_, err := c.Complete(context.Background(), testRequest())

	var truncErr *TruncatedError
	require.ErrorAs(t, err, &truncErr)
	assert.Equal(t, 16000, truncErr.Usage.CompletionTokens)
}

func TestCompleteEmptyContentOtherReason(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{
		"choices": [{"message": {"content": "   "}, "finish_reason": "stop"}]
	}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", nil)
	_, err := c.Complete(context.Background(), testRequest())

	var emptyErr *EmptyResponseError
	assert.ErrorAs(t, err, &emptyErr)
}
