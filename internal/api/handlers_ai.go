package api

import (
	"net/http"

	"github.com/fireregsco/crm/internal/ai"
	"github.com/fireregsco/crm/internal/pkg/httputil"
)

// maxAudioUpload bounds voice inquiry uploads to 25 MB, the transcription
// API's own limit.
const maxAudioUpload = 25 << 20

// Chat handles POST /api/chat: forwards the website assistant conversation
// to the AI provider. The API key never leaves the server.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	if h.AI == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var body struct {
		Messages []ai.ChatMessage `json:"messages"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	if len(body.Messages) == 0 {
		httputil.BadRequest(w, "messages is required")
		return
	}

	reply, err := h.AI.Chat(r.Context(), body.Messages)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"reply": reply})
}

// Transcribe handles POST /api/transcribe: multipart upload of a voice
// inquiry, returning the recognized text.
func (h *Handlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	if h.AI == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "transcription not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)
	file, header, err := r.FormFile("audio")
	if err != nil {
		httputil.BadRequest(w, "audio file is required")
		return
	}
	defer file.Close()

	text, err := h.AI.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"text": text})
}
