package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Zach-Mp4/warbler/internal/database"
	"github.com/Zach-Mp4/warbler/internal/models"
	"github.com/jmoiron/sqlx"
)

// MessageServiceProvider defines the interface for message services.
type MessageServiceProvider interface {
	CreateMessage(userID int64, text string) (models.Message, error)
	GetMessage(id int64) (models.Message, error)
	MessagesOf(userID int64) ([]models.Message, error)
	DeleteMessage(id, ownerID int64) error
}

// MessageService provides business logic for authored messages.
type MessageService struct {
	db *sqlx.DB
}

// NewMessageService creates a new MessageService.
func NewMessageService(db *sqlx.DB) *MessageService {
	return &MessageService{db: db}
}

// CreateMessage posts a new message for a user. Text must be non-empty and at
// most MaxMessageLength characters.
func (s *MessageService) CreateMessage(userID int64, text string) (models.Message, error) {
	if text == "" {
		return models.Message{}, fmt.Errorf("message text is required")
	}
	if len([]rune(text)) > models.MaxMessageLength {
		return models.Message{}, fmt.Errorf("message text exceeds %d characters", models.MaxMessageLength)
	}

	res, err := s.db.Exec("INSERT INTO messages (text, user_id) VALUES (?, ?)", text, userID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.Message{}, models.ErrNotFound
		}
		return models.Message{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Message{}, err
	}
	return s.GetMessage(id)
}

// GetMessage retrieves a single message by its ID.
func (s *MessageService) GetMessage(id int64) (models.Message, error) {
	var msg models.Message
	err := s.db.Get(&msg, "SELECT id, text, user_id, created_at FROM messages WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, models.ErrNotFound
	}
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// MessagesOf returns a user's messages, newest first.
func (s *MessageService) MessagesOf(userID int64) ([]models.Message, error) {
	msgs := []models.Message{}
	err := s.db.Select(&msgs,
		"SELECT id, text, user_id, created_at FROM messages WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteMessage removes a message. Only the author may delete it; anything
// else looks like the message does not exist.
func (s *MessageService) DeleteMessage(id, ownerID int64) error {
	res, err := s.db.Exec("DELETE FROM messages WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
