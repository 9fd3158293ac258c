package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
	"github.com/wolfman30/medbook-assistant/internal/conversation"
	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/internal/voice"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// ChatService is the conversation surface used by the HTTP API.
type ChatService interface {
	Start(ctx context.Context, id string) (*dialogue.Session, dialogue.Reply, error)
	ProcessMessage(ctx context.Context, id, text string) (dialogue.Reply, error)
	ProcessAudio(ctx context.Context, id string, audio []byte) (conversation.AudioReply, error)
	Reset(ctx context.Context, id string) (dialogue.Reply, error)
	Session(ctx context.Context, id string) (*dialogue.Session, error)
}

// ChatHandler serves the patient chat API.
type ChatHandler struct {
	chat   ChatService
	logger *logging.Logger
}

func NewChatHandler(chat ChatService, logger *logging.Logger) *ChatHandler {
	if chat == nil {
		panic("handlers: chat service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{chat: chat, logger: logger}
}

// ChatResponse is returned for every turn.
type ChatResponse struct {
	SessionID  string                `json:"session_id"`
	Step       dialogue.Step         `json:"step"`
	Outcome    dialogue.Outcome      `json:"outcome,omitempty"`
	Messages   []string              `json:"messages"`
	Error      string                `json:"error,omitempty"`
	Transcript string                `json:"transcript,omitempty"`
	Ignored    bool                  `json:"ignored,omitempty"`
	Booking    *bookings.Appointment `json:"booking,omitempty"`
}

// SessionResponse describes stored session state.
type SessionResponse struct {
	SessionID string          `json:"session_id"`
	Step      dialogue.Step   `json:"step"`
	Draft     dialogue.Draft  `json:"draft"`
	Turns     []dialogue.Turn `json:"turns"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type startRequest struct {
	SessionID string `json:"session_id"`
}

// Routes mounts the chat endpoints on r.
func (h *ChatHandler) Routes(r chi.Router) {
	r.Post("/sessions", h.StartSession)
	r.Get("/sessions/{sessionID}", h.GetSession)
	r.Post("/sessions/{sessionID}/messages", h.PostMessage)
	r.Post("/sessions/{sessionID}/voice", h.PostVoice)
	r.Post("/sessions/{sessionID}/reset", h.ResetSession)
}

func toResponse(id string, reply dialogue.Reply) ChatResponse {
	resp := ChatResponse{
		SessionID: id,
		Step:      reply.Step,
		Outcome:   reply.Outcome,
		Messages:  reply.Messages,
		Error:     reply.Error,
		Booking:   reply.Booking,
	}
	if resp.Messages == nil {
		resp.Messages = []string{}
	}
	return resp
}

func (h *ChatHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	sess, reply, err := h.chat.Start(r.Context(), strings.TrimSpace(req.SessionID))
	if err != nil {
		h.fail(w, "start session", "", err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(sess.ID, reply))
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := h.chat.Session(r.Context(), id)
	if err != nil {
		h.fail(w, "get session", id, err)
		return
	}
	turns := sess.Turns
	if turns == nil {
		turns = []dialogue.Turn{}
	}
	writeJSON(w, http.StatusOK, SessionResponse{SessionID: sess.ID, Step: sess.Step, Draft: sess.Draft, Turns: turns})
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	var req messageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	reply, err := h.chat.ProcessMessage(r.Context(), id, req.Text)
	if err != nil {
		h.fail(w, "process message", id, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(id, reply))
}

// PostVoice accepts a multipart upload with the clip in the "audio" field.
func (h *ChatHandler) PostVoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	r.Body = http.MaxBytesReader(w, r.Body, voice.MaxAudioBytes+(64<<10))
	if err := r.ParseMultipartForm(voice.MaxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio field required")
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio")
		return
	}

	reply, err := h.chat.ProcessAudio(r.Context(), id, audio)
	if err != nil {
		h.fail(w, "process audio", id, err)
		return
	}
	resp := toResponse(id, reply.Reply)
	resp.Transcript = reply.Transcript
	resp.Ignored = reply.Ignored
	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	reply, err := h.chat.Reset(r.Context(), id)
	if err != nil {
		h.fail(w, "reset session", id, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(id, reply))
}

func (h *ChatHandler) fail(w http.ResponseWriter, op, id string, err error) {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, conversation.ErrSessionExists):
		writeError(w, http.StatusConflict, "session already exists")
	case errors.Is(err, conversation.ErrNoTranscriber):
		writeError(w, http.StatusNotImplemented, "voice input is not enabled")
	case errors.Is(err, voice.ErrAudioTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "audio clip too large")
	default:
		h.logger.Error("chat request failed", "op", op, "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
