package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/fireregsco/crm/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(appconfig.OpenAIConfig{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		ChatModel:       "gpt-4o-mini",
		TranscribeModel: "whisper-1",
	})
}

func TestNewClientWithoutKeyIsNil(t *testing.T) {
	assert.Nil(t, NewClient(appconfig.OpenAIConfig{}))
}

func TestChat(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Fire doors should be inspected every six months."}},
			},
		})
	})

	reply, err := client.Chat(context.Background(), []ChatMessage{
		{Role: "user", Content: "How often should fire doors be inspected?"},
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "six months")
}

func TestChatAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid api key", "type": "auth"},
		})
	})

	_, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestTranscribe(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "inquiry.webm", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": "I need an inspection for my hotel."})
	})

	text, err := client.Transcribe(context.Background(), "inquiry.webm", strings.NewReader("fake-audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "I need an inspection for my hotel.", text)
}
