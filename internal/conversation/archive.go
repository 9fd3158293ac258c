package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// ArchivedMessage is one persisted transcript line.
type ArchivedMessage struct {
	ID        uuid.UUID
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// TranscriptArchive keeps a long-term copy of every turn in PostgreSQL.
// Session stores expire; the archive does not.
type TranscriptArchive struct {
	db *sql.DB
}

// OpenArchive connects with the lib/pq driver.
func OpenArchive(dsn string) (*TranscriptArchive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("conversation: open archive: %w", err)
	}
	return NewTranscriptArchive(db), nil
}

// NewTranscriptArchive returns nil for a nil db so callers can treat the
// archive as optional.
func NewTranscriptArchive(db *sql.DB) *TranscriptArchive {
	if db == nil {
		return nil
	}
	return &TranscriptArchive{db: db}
}

// Ping checks the database connection.
func (a *TranscriptArchive) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *TranscriptArchive) Close() error {
	return a.db.Close()
}

// Append stores messages in order inside one transaction.
func (a *TranscriptArchive) Append(ctx context.Context, sessionID string, msgs ...ArchivedMessage) error {
	if a == nil || a.db == nil || len(msgs) == 0 {
		return nil
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("conversation: begin archive tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range msgs {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO conversation_messages (id, session_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
			m.ID, sessionID, m.Role, m.Content, m.CreatedAt,
		); err != nil {
			return fmt.Errorf("conversation: archive message: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("conversation: commit archive: %w", err)
	}
	return nil
}

// List returns up to limit messages for a session, oldest first.
func (a *TranscriptArchive) List(ctx context.Context, sessionID string, limit int) ([]ArchivedMessage, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at FROM conversation_messages WHERE session_id = $1 ORDER BY created_at ASC LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("conversation: list archive: %w", err)
	}
	defer rows.Close()

	var out []ArchivedMessage
	for rows.Next() {
		var m ArchivedMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("conversation: scan archive row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation: iterate archive: %w", err)
	}
	return out, nil
}
