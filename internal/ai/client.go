// Package ai proxies the website's assistant widget to the OpenAI API:
// chat completions for the Q&A box and audio transcription for voice
// inquiries. The server holds the API key; browsers never see it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	appconfig "github.com/fireregsco/crm/internal/config"
	"github.com/fireregsco/crm/internal/pkg/httpretry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// systemPrompt keeps the assistant on topic for the inspection business.
const systemPrompt = "You are the website assistant for a UK fire door " +
	"inspection company. Answer questions about fire door compliance, " +
	"inspections, and bookings. Keep answers short. If asked for a quote, " +
	"direct the visitor to the inquiry form."

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the OpenAI API with retries on transient failures.
type Client struct {
	http            *httpretry.RetryClient
	apiKey          string
	baseURL         string
	chatModel       string
	transcribeModel string
}

// NewClient creates an AI client. Returns nil when no API key is configured.
func NewClient(cfg appconfig.OpenAIConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:            httpretry.New(&http.Client{Timeout: 60 * time.Second}, 2),
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		chatModel:       cfg.ChatModel,
		transcribeModel: cfg.TranscribeModel,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Chat sends the conversation to the chat completions endpoint and returns
// the assistant's reply. The system prompt is prepended server-side.
func (c *Client) Chat(ctx context.Context, history []ChatMessage) (string, error) {
	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)

	body, err := json.Marshal(chatRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: chat request: %w", err)
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ai: decode chat response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("ai: chat: %s", out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: chat: unexpected status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("ai: chat: empty response")
	}
	return out.Choices[0].Message.Content, nil
}

type transcribeResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Transcribe uploads an audio file to the transcription endpoint and returns
// the recognized text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("ai: read audio: %w", err)
	}
	if err := mw.WriteField("model", c.transcribeModel); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/audio/transcriptions", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: transcribe request: %w", err)
	}
	defer resp.Body.Close()

	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ai: decode transcription: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("ai: transcribe: %s", out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: transcribe: unexpected status %d", resp.StatusCode)
	}
	return out.Text, nil
}
