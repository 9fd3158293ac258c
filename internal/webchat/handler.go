// Package webchat serves the browser chat widget over a WebSocket.
package webchat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/medbook-assistant/internal/conversation"
	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

const historyLimit = 50

// Chat is the conversation surface the widget talks to.
type Chat interface {
	Start(ctx context.Context, id string) (*dialogue.Session, dialogue.Reply, error)
	ProcessMessage(ctx context.Context, id, text string) (dialogue.Reply, error)
	Session(ctx context.Context, id string) (*dialogue.Session, error)
}

// Handler manages widget connections.
type Handler struct {
	chat   Chat
	logger *logging.Logger
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "session", "history", "message", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Step      dialogue.Step    `json:"step,omitempty"`
	Outcome   dialogue.Outcome `json:"outcome,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is one transcript line replayed on reconnect.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func NewHandler(chat Chat, logger *logging.Logger) *Handler {
	if chat == nil {
		panic("webchat: chat service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{chat: chat, logger: logger}
}

// HandleWebSocket upgrades to WebSocket. Passing ?session=<id> resumes an
// existing conversation; otherwise a new one is started.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.open(ctx, conn, strings.TrimSpace(r.URL.Query().Get("session")))
	if !ok {
		return
	}
	logger := h.logger.WithSession(sessionID)
	logger.Info("webchat: connection opened")

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			logger.Debug("webchat: connection closed", "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" {
			continue
		}

		reply, err := h.chat.ProcessMessage(ctx, sessionID, msg.Text)
		if err != nil {
			logger.Error("webchat: turn failed", "error", err)
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
			if errors.Is(err, conversation.ErrSessionNotFound) {
				return
			}
			continue
		}
		sendReply(conn, reply)
	}
}

// open resumes or starts the session and sends the opening frames.
func (h *Handler) open(ctx context.Context, conn *websocket.Conn, requested string) (string, bool) {
	if requested != "" {
		sess, err := h.chat.Session(ctx, requested)
		if err == nil {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sess.ID, Step: sess.Step})
			if history := historyOf(sess); len(history) > 0 {
				_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: history})
			}
			return sess.ID, true
		}
		if !errors.Is(err, conversation.ErrSessionNotFound) {
			h.logger.Error("webchat: load session failed", "session_id", requested, "error", err)
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "session unavailable"})
			return "", false
		}
	}

	sess, reply, err := h.chat.Start(ctx, requested)
	if err != nil {
		h.logger.Error("webchat: start session failed", "error", err)
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "session unavailable"})
		return "", false
	}
	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sess.ID, Step: sess.Step})
	sendReply(conn, reply)
	return sess.ID, true
}

func sendReply(conn *websocket.Conn, reply dialogue.Reply) {
	for _, text := range reply.Messages {
		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:    "message",
			Role:    dialogue.RoleAssistant,
			Text:    text,
			Step:    reply.Step,
			Outcome: reply.Outcome,
		})
	}
}

func historyOf(sess *dialogue.Session) []HistoryMessage {
	turns := sess.Turns
	if len(turns) > historyLimit {
		turns = turns[len(turns)-historyLimit:]
	}
	out := make([]HistoryMessage, 0, len(turns))
	for _, t := range turns {
		out = append(out, HistoryMessage{Role: t.Role, Text: t.Content, Timestamp: t.At.Format(time.RFC3339)})
	}
	return out
}
