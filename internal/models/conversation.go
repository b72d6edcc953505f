package models

import "time"

// DefaultTitle is shown for conversations that have not been titled yet.
const DefaultTitle = "New chat"

// Role is the closed set of message roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the three allowed roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

type Message struct {
	ID        int64     `json:"id"`
	ConvID    int64     `json:"conversation_id"`
	Sender    string    `json:"sender"`
	Role      Role      `json:"role"` // user, assistant, or system
	Content   string    `json:"content"`
	ImageRef  string    `json:"image_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Conversation struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
