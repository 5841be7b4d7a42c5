package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grill-labs/aerobot/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*LLMService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, zap.NewNop())
	require.NoError(t, err)

	return svc, server
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc, err := NewLLMService(Config{APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestChat_ReturnsAnswer(t *testing.T) {
	var gotReq chatCompletionRequest
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"У модели три программы."},"finish_reason":"stop"}]}`)
	})

	messages := []driven.ChatMessage{
		{Role: "system", Content: "Отвечай по контексту."},
		{Role: "user", Content: "Сколько программ?"},
	}
	answer, err := svc.Chat(context.Background(), messages, driven.ChatOptions{MaxTokens: 200, Temperature: 0.4})
	require.NoError(t, err)

	assert.Equal(t, "У модели три программы.", answer)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, 200, gotReq.MaxTokens)
	assert.InDelta(t, 0.4, gotReq.Temperature, 1e-9)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestChat_ZeroTemperatureIsSent(t *testing.T) {
	var raw map[string]any
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{Temperature: 0})
	require.NoError(t, err)

	temp, present := raw["temperature"]
	require.True(t, present)
	assert.Equal(t, float64(0), temp)
	_, present = raw["max_tokens"]
	assert.False(t, present)
}

func TestChat_APIError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestChat_NoChoices(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response choices")
}

func TestChatStream_AccumulatesDeltas(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Объем \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"5 л\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\".\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var deltas []string
	answer, err := svc.ChatStream(context.Background(), []driven.ChatMessage{{Role: "user", Content: "объем?"}}, driven.ChatOptions{}, func(d string) {
		deltas = append(deltas, d)
	})
	require.NoError(t, err)

	assert.Equal(t, "Объем 5 л.", answer)
	assert.Equal(t, []string{"Объем ", "5 л", "."}, deltas)
}

func TestChatStream_NilCallback(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	answer, err := svc.ChatStream(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
}

func TestChatStream_ErrorStatus(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit"}}`)
	})

	_, err := svc.ChatStream(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChat_UnreachableServer(t *testing.T) {
	svc, server := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
}
