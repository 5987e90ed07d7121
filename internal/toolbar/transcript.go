package toolbar

import (
	"time"

	"github.com/google/uuid"

	"highlights/internal/domain"
)

// Role tells who wrote a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Sources is only set on assistant replies.
type Message struct {
	ID        uuid.UUID
	Role      Role
	Content   string
	Sources   []domain.Highlight
	Timestamp time.Time
}

// Transcript is the ordered RAG chat history. Entries are only ever appended,
// except that a pending user message may be retracted while it is still last.
type Transcript struct {
	messages []Message
}

// Append adds a message and returns it with its assigned ID.
func (t *Transcript) Append(role Role, content string, sources []domain.Highlight, at time.Time) Message {
	m := Message{ID: uuid.New(), Role: role, Content: content, Sources: sources, Timestamp: at}
	t.messages = append(t.messages, m)
	return m
}

// Retract removes the message with the given ID if and only if it is the last entry.
func (t *Transcript) Retract(id uuid.UUID) bool {
	n := len(t.messages)
	if n == 0 || t.messages[n-1].ID != id {
		return false
	}
	t.messages = t.messages[:n-1]
	return true
}

func (t *Transcript) Clear() { t.messages = nil }

func (t Transcript) Len() int { return len(t.messages) }

// Messages returns a copy of the entries in order.
func (t Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent entry.
func (t Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}
