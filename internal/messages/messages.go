package messages

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// MessageNotFoundError is returned when a message cannot be found by ID.
type MessageNotFoundError struct {
	ID string
}

func (e *MessageNotFoundError) Error() string {
	return fmt.Sprintf("message not found: %s", e.ID)
}

const maxBodyLength = 5000

// Message is a contact-form submission awaiting the owner's attention.
type Message struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Body      string `gorm:"not null"`
	Read      bool   `gorm:"index;default:false"`
	CreatedAt time.Time
}

func (Message) TableName() string {
	return "messages"
}

// ValidationError reports a rejected contact-form field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validate(name, email, body string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Field: "email", Reason: "must be an email address"}
	}
	if strings.TrimSpace(body) == "" {
		return &ValidationError{Field: "body", Reason: "cannot be empty"}
	}
	if len(body) > maxBodyLength {
		return &ValidationError{Field: "body", Reason: "too long"}
	}
	return nil
}

// CreateMessage validates and stores a contact-form submission.
func CreateMessage(db *gorm.DB, logger *slog.Logger, name, email, body string) (*Message, error) {
	if err := validate(name, email, body); err != nil {
		return nil, err
	}

	message := &Message{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Body:  body,
	}

	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(message).Error
	})
	if err != nil {
		return nil, err
	}

	return message, nil
}

// GetMessages returns messages newest first, optionally only unread ones.
func GetMessages(db *gorm.DB, unreadOnly bool) ([]Message, error) {
	var results []Message
	query := db.Order("created_at DESC")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MarkRead flags a message as read.
func MarkRead(db *gorm.DB, logger *slog.Logger, id string) error {
	var affected int64
	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		result := tx.Model(&Message{}).Where("id = ?", id).Update("read", true)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return &MessageNotFoundError{ID: id}
	}
	return nil
}

// DeleteMessage removes a message permanently.
func DeleteMessage(db *gorm.DB, logger *slog.Logger, id string) error {
	var affected int64
	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&Message{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return &MessageNotFoundError{ID: id}
	}
	return nil
}

// CountUnread returns the unread badge count.
func CountUnread(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&Message{}).Where("read = ?", false).Count(&count).Error
	return count, err
}
