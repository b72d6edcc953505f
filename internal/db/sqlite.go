package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nexa-ai/nexa/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id INTEGER NOT NULL,
    sender TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    image_ref TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_conversations_owner ON conversations(owner);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
`

// ErrConversationNotFound is returned by lookups for ids that do not exist or
// belong to a different owner. Renames and deletes of missing ids are no-ops,
// not errors; callers needing existence confirmation do a lookup first.
var ErrConversationNotFound = errors.New("conversation not found")

// ValidationError reports a message that cannot be appended as given.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type Database struct {
	db *sql.DB
}

func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (db *Database) Close() error {
	return db.db.Close()
}

// CreateConversation inserts an untitled conversation for owner.
// The title stays at the stored placeholder until the first message
// auto-titles it or the owner renames it.
func (db *Database) CreateConversation(owner string) (*models.Conversation, error) {
	query := `
        INSERT INTO conversations (owner, title, created_at)
        VALUES (?, '', CURRENT_TIMESTAMP)
        RETURNING id, created_at`

	conv := &models.Conversation{Owner: owner, Title: models.DefaultTitle}
	err := db.db.QueryRow(query, owner).Scan(&conv.ID, &conv.CreatedAt)
	return conv, err
}

// GetConversation looks up a conversation by id, scoped to owner.
func (db *Database) GetConversation(id int64, owner string) (*models.Conversation, error) {
	query := `
        SELECT id, owner, title, created_at
        FROM conversations
        WHERE id = ? AND owner = ?`

	conv := &models.Conversation{}
	err := db.db.QueryRow(query, id, owner).Scan(&conv.ID, &conv.Owner, &conv.Title, &conv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if conv.Title == "" {
		conv.Title = models.DefaultTitle
	}
	return conv, nil
}

// GetConversations returns all of owner's conversations, most recent first.
// An empty owner has no conversations.
func (db *Database) GetConversations(owner string) ([]models.Conversation, error) {
	conversations := make([]models.Conversation, 0)
	if owner == "" {
		return conversations, nil
	}

	query := `
        SELECT id, owner, title, created_at
        FROM conversations
        WHERE owner = ?
        ORDER BY id DESC`

	rows, err := db.db.Query(query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.Owner, &conv.Title, &conv.CreatedAt); err != nil {
			return nil, err
		}
		if conv.Title == "" {
			conv.Title = models.DefaultTitle
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// UpdateConversationTitle renames a conversation unconditionally.
// A missing id affects zero rows and is silently ignored.
func (db *Database) UpdateConversationTitle(id int64, title string) error {
	_, err := db.db.Exec("UPDATE conversations SET title = ? WHERE id = ?", title, id)
	return err
}

// RenameIfDefault sets the title only while the stored title is still the
// placeholder. Once any title has been assigned, further calls have no effect.
func (db *Database) RenameIfDefault(id int64, title string) error {
	_, err := db.db.Exec("UPDATE conversations SET title = ? WHERE id = ? AND title = ''", title, id)
	return err
}

// DeleteConversation removes a conversation and all of its messages.
// Messages go first so no orphans survive a partial failure.
func (db *Database) DeleteConversation(id int64) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", id); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM conversations WHERE id = ?", id); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveMessage appends a message to its conversation. The role must be one of
// the three allowed values and the conversation must exist. Content may be
// empty only when an image ref is attached.
func (db *Database) SaveMessage(msg *models.Message) error {
	if !msg.Role.Valid() {
		return &ValidationError{Field: "role", Reason: fmt.Sprintf("must be user, assistant or system, got %q", msg.Role)}
	}
	if msg.Content == "" && msg.ImageRef == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty unless image_ref is set"}
	}

	// Check and insert share a tx so a concurrent delete cannot slip between
	// them and orphan the message.
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRow("SELECT 1 FROM conversations WHERE id = ?", msg.ConvID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("append message to conversation %d: %w", msg.ConvID, ErrConversationNotFound)
	}
	if err != nil {
		return err
	}

	query := `
        INSERT INTO messages (conversation_id, sender, role, content, image_ref, created_at)
        VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
        RETURNING id, created_at`

	if err := tx.QueryRow(query, msg.ConvID, msg.Sender, msg.Role, msg.Content, msg.ImageRef).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// GetMessages returns a conversation's messages in insertion order.
// Unknown conversations read as empty, not as an error.
func (db *Database) GetMessages(conversationID int64) ([]models.Message, error) {
	query := `
        SELECT id, conversation_id, sender, role, content, image_ref, created_at
        FROM messages
        WHERE conversation_id = ?
        ORDER BY id ASC`

	rows, err := db.db.Query(query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(&msg.ID, &msg.ConvID, &msg.Sender, &msg.Role, &msg.Content, &msg.ImageRef, &msg.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
