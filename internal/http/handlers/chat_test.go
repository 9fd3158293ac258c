package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/medbook-assistant/internal/conversation"
	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

type scriptedDialogue struct{}

func (scriptedDialogue) Start(ctx context.Context, s *dialogue.Session) dialogue.Reply {
	s.Step = dialogue.StepMenu
	return dialogue.Reply{Messages: []string{"Welcome"}, Step: s.Step, Outcome: dialogue.OutcomeAccepted}
}

func (scriptedDialogue) Handle(ctx context.Context, s *dialogue.Session, input string) dialogue.Reply {
	s.Turns = append(s.Turns, dialogue.Turn{Role: dialogue.RoleUser, Content: input})
	if input == "1" {
		s.Step = dialogue.StepName
		return dialogue.Reply{Messages: []string{"Please enter your name:"}, Step: s.Step, Outcome: dialogue.OutcomeAccepted}
	}
	return dialogue.Reply{Messages: []string{"Sorry"}, Step: s.Step, Outcome: dialogue.OutcomeUnrecognized}
}

type staticTranscriber string

func (s staticTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return string(s), nil
}

func newChatServer(t *testing.T, opts ...conversation.Option) http.Handler {
	t.Helper()
	svc := conversation.NewService(scriptedDialogue{}, conversation.NewMemoryStore(), logging.Discard(), opts...)
	r := chi.NewRouter()
	r.Route("/chat", NewChatHandler(svc, logging.Discard()).Routes)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeChat(t *testing.T, rec *httptest.ResponseRecorder) ChatResponse {
	t.Helper()
	var resp ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestChatFlow(t *testing.T) {
	srv := newChatServer(t)

	rec := do(t, srv, http.MethodPost, "/chat/sessions", `{"session_id":"abc"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	start := decodeChat(t, rec)
	assert.Equal(t, "abc", start.SessionID)
	assert.Equal(t, dialogue.StepMenu, start.Step)
	assert.Equal(t, []string{"Welcome"}, start.Messages)

	rec = do(t, srv, http.MethodPost, "/chat/sessions/abc/messages", `{"text":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	turn := decodeChat(t, rec)
	assert.Equal(t, dialogue.StepName, turn.Step)
	assert.Equal(t, dialogue.OutcomeAccepted, turn.Outcome)

	rec = do(t, srv, http.MethodGet, "/chat/sessions/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sess SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sess))
	assert.Equal(t, dialogue.StepName, sess.Step)
	assert.Len(t, sess.Turns, 1)

	rec = do(t, srv, http.MethodPost, "/chat/sessions/abc/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dialogue.StepMenu, decodeChat(t, rec).Step)
}

func TestChatStartWithoutBody(t *testing.T) {
	srv := newChatServer(t)
	req := httptest.NewRequest(http.MethodPost, "/chat/sessions", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, decodeChat(t, rec).SessionID)
}

func TestChatStartExistingSessionConflicts(t *testing.T) {
	srv := newChatServer(t)
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/chat/sessions", `{"session_id":"abc"}`).Code)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/chat/sessions/abc/messages", `{"text":"1"}`).Code)

	rec := do(t, srv, http.MethodPost, "/chat/sessions", `{"session_id":"abc"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodGet, "/chat/sessions/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sess SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sess))
	assert.Equal(t, dialogue.StepName, sess.Step)
	assert.Len(t, sess.Turns, 1)
}

func TestChatErrors(t *testing.T) {
	srv := newChatServer(t)

	rec := do(t, srv, http.MethodPost, "/chat/sessions/missing/messages", `{"text":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/chat/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPost, "/chat/sessions/abc/messages", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func voiceRequest(t *testing.T, path string, audio []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "clip.wav")
	require.NoError(t, err)
	_, err = fw.Write(audio)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestChatVoice(t *testing.T) {
	srv := newChatServer(t, conversation.WithTranscriber(staticTranscriber("1")))
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/chat/sessions", `{"session_id":"v1"}`).Code)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, voiceRequest(t, "/chat/sessions/v1/voice", []byte("pcm")))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeChat(t, rec)
	assert.Equal(t, "1", resp.Transcript)
	assert.Equal(t, dialogue.StepName, resp.Step)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, voiceRequest(t, "/chat/sessions/v1/voice", []byte("pcm")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeChat(t, rec).Ignored)
}

func TestChatVoiceDisabled(t *testing.T) {
	srv := newChatServer(t)
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/chat/sessions", `{"session_id":"v1"}`).Code)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, voiceRequest(t, "/chat/sessions/v1/voice", []byte("pcm")))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestChatVoiceMissingField(t *testing.T) {
	srv := newChatServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/chat/sessions/v1/voice", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
