// Package conversation hosts dialogue sessions: it loads a session, runs one
// turn through the dialogue manager and saves the result, for typed and
// spoken input alike.
package conversation

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/internal/voice"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

const msgNotHeard = "Sorry, I couldn't hear that clearly. Could you please repeat?"

// ErrNoTranscriber is returned by ProcessAudio when voice input is disabled.
var ErrNoTranscriber = errors.New("conversation: voice input not configured")

// ErrSessionExists is returned by Start when the requested id is already in use.
var ErrSessionExists = errors.New("conversation: session already exists")

// Dialogue is the turn engine. *dialogue.Manager satisfies it.
type Dialogue interface {
	Start(ctx context.Context, s *dialogue.Session) dialogue.Reply
	Handle(ctx context.Context, s *dialogue.Session, input string) dialogue.Reply
}

// AudioReply is the result of a voice turn.
type AudioReply struct {
	dialogue.Reply
	Transcript string `json:"transcript"`
	// Ignored is set when the clip repeats the previous one.
	Ignored bool `json:"ignored,omitempty"`
}

type Option func(*Service)

func WithTranscriber(t voice.Transcriber) Option {
	return func(s *Service) { s.transcriber = t }
}

func WithArchive(a *TranscriptArchive) Option {
	return func(s *Service) { s.archive = a }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service serializes turns per session: load, handle, save.
type Service struct {
	dialogue    Dialogue
	store       SessionStore
	transcriber voice.Transcriber
	archive     *TranscriptArchive
	now         func() time.Time
	logger      *logging.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(d Dialogue, store SessionStore, logger *logging.Logger, opts ...Option) *Service {
	if d == nil {
		panic("conversation: dialogue cannot be nil")
	}
	if store == nil {
		panic("conversation: session store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		dialogue: d,
		store:    store,
		now:      time.Now,
		logger:   logger,
		locks:    make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock takes the per-session mutex and returns its release func.
func (s *Service) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// Start creates a session and returns the greeting. An empty id gets a new
// uuid; an id that is already stored yields ErrSessionExists.
func (s *Service) Start(ctx context.Context, id string) (*dialogue.Session, dialogue.Reply, error) {
	supplied := strings.TrimSpace(id) != ""
	if !supplied {
		id = uuid.New().String()
	}
	unlock := s.lock(id)
	defer unlock()

	if supplied {
		_, err := s.store.Load(ctx, id)
		switch {
		case err == nil:
			return nil, dialogue.Reply{}, ErrSessionExists
		case !errors.Is(err, ErrSessionNotFound):
			return nil, dialogue.Reply{}, err
		}
	}

	sess := dialogue.NewSession(id, s.now())
	reply := s.dialogue.Start(ctx, sess)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, dialogue.Reply{}, err
	}
	s.archiveTurn(ctx, id, "", reply)
	s.logger.Info("conversation started", "session_id", id)
	return sess, reply, nil
}

// ProcessMessage runs one typed turn.
func (s *Service) ProcessMessage(ctx context.Context, id, text string) (dialogue.Reply, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return dialogue.Reply{}, err
	}
	return s.handle(ctx, sess, text)
}

func (s *Service) handle(ctx context.Context, sess *dialogue.Session, text string) (dialogue.Reply, error) {
	reply := s.dialogue.Handle(ctx, sess, text)
	if err := s.store.Save(ctx, sess); err != nil {
		return dialogue.Reply{}, err
	}
	s.archiveTurn(ctx, sess.ID, strings.TrimSpace(text), reply)
	return reply, nil
}

// ProcessAudio transcribes a clip and runs it as a turn. A clip identical to
// the previous one is ignored; an empty transcript leaves the dialogue alone.
func (s *Service) ProcessAudio(ctx context.Context, id string, audio []byte) (AudioReply, error) {
	if s.transcriber == nil {
		return AudioReply{}, ErrNoTranscriber
	}
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return AudioReply{}, err
	}
	sum := md5.Sum(audio)
	hash := hex.EncodeToString(sum[:])
	if hash == sess.LastAudioHash {
		s.logger.Debug("duplicate audio ignored", "session_id", id)
		return AudioReply{Reply: dialogue.Reply{Step: sess.Step, Outcome: dialogue.OutcomeUnrecognized}, Ignored: true}, nil
	}

	text, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return AudioReply{}, fmt.Errorf("conversation: transcribe: %w", err)
	}
	text = strings.TrimSpace(text)
	// Only clips that produced a turn count as seen, so a resend after
	// silence or noise is transcribed again.
	if text == "" {
		return AudioReply{Reply: dialogue.Reply{
			Messages: []string{msgNotHeard},
			Step:     sess.Step,
			Outcome:  dialogue.OutcomeUnrecognized,
		}}, nil
	}
	sess.LastAudioHash = hash

	reply, err := s.handle(ctx, sess, text)
	if err != nil {
		return AudioReply{}, err
	}
	return AudioReply{Reply: reply, Transcript: text}, nil
}

// Reset clears the draft, step and transcript of a session and greets again.
func (s *Service) Reset(ctx context.Context, id string) (dialogue.Reply, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return dialogue.Reply{}, err
	}
	sess.Reset()
	reply := s.dialogue.Start(ctx, sess)
	if err := s.store.Save(ctx, sess); err != nil {
		return dialogue.Reply{}, err
	}
	s.logger.Info("conversation reset", "session_id", id)
	return reply, nil
}

// Session returns the stored session.
func (s *Service) Session(ctx context.Context, id string) (*dialogue.Session, error) {
	return s.store.Load(ctx, id)
}

// End removes the session.
func (s *Service) End(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()
	return s.store.Delete(ctx, id)
}

func (s *Service) archiveTurn(ctx context.Context, id, userText string, reply dialogue.Reply) {
	if s.archive == nil {
		return
	}
	now := s.now().UTC()
	msgs := make([]ArchivedMessage, 0, len(reply.Messages)+1)
	if userText != "" {
		msgs = append(msgs, ArchivedMessage{Role: dialogue.RoleUser, Content: userText, CreatedAt: now})
	}
	for i, m := range reply.Messages {
		// Keep ordering stable on equal timestamps.
		msgs = append(msgs, ArchivedMessage{Role: dialogue.RoleAssistant, Content: m, CreatedAt: now.Add(time.Duration(i+1) * time.Microsecond)})
	}
	if err := s.archive.Append(ctx, id, msgs...); err != nil {
		s.logger.Warn("transcript archive failed", "session_id", id, "error", err)
	}
}
