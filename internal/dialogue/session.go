package dialogue

import (
	"time"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// MaxTurns bounds the transcript kept on a session.
	MaxTurns = 200
)

// Turn is one message in the transcript.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is the full dialogue state for one patient conversation.
type Session struct {
	ID    string `json:"id"`
	Step  Step   `json:"step"`
	Draft Draft  `json:"draft"`
	Turns []Turn `json:"turns,omitempty"`

	// Reschedule and cancel sub-flows.
	Lookup         []bookings.Appointment `json:"lookup,omitempty"`
	Target         *bookings.Appointment  `json:"target,omitempty"`
	RescheduleDate string                 `json:"reschedule_date,omitempty"`

	// LastAudioHash is the digest of the last transcribed voice clip.
	LastAudioHash string `json:"last_audio_hash,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns an idle session.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, Step: StepNone, CreatedAt: now, UpdatedAt: now}
}

// Reset clears the draft, step, transcript and sub-flow state together.
func (s *Session) Reset() {
	s.Step = StepNone
	s.Draft = Draft{}
	s.Turns = nil
	s.clearSubflow()
	s.LastAudioHash = ""
}

func (s *Session) clearSubflow() {
	s.Lookup = nil
	s.Target = nil
	s.RescheduleDate = ""
}

// record appends a turn. An assistant message identical to the previous turn
// is dropped; it reports whether the turn was added.
func (s *Session) record(role, content string, at time.Time) bool {
	if n := len(s.Turns); role == RoleAssistant && n > 0 && s.Turns[n-1].Content == content {
		return false
	}
	s.Turns = append(s.Turns, Turn{Role: role, Content: content, At: at})
	if len(s.Turns) > MaxTurns {
		s.Turns = append([]Turn(nil), s.Turns[len(s.Turns)-MaxTurns:]...)
	}
	return true
}
