package messages_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/messages"
	"portfolio/internal/testsupport"
)

func TestCreateMessage(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	message, err := messages.CreateMessage(db, logger, "  Jane Doe  ", " jane@example.com ", "Hello, love the site!")
	require.NoError(t, err)

	assert.NotEmpty(t, message.ID)
	assert.Equal(t, "Jane Doe", message.Name, "name should be trimmed")
	assert.Equal(t, "jane@example.com", message.Email, "email should be trimmed")
	assert.False(t, message.Read)

	var stored messages.Message
	require.NoError(t, db.First(&stored, "id = ?", message.ID).Error)
	assert.Equal(t, "Hello, love the site!", stored.Body)
}

func TestCreateMessageValidation(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	testCases := []struct {
		name  string
		args  [3]string // name, email, body
		field string
	}{
		{"empty name", [3]string{"", "jane@example.com", "hi"}, "name"},
		{"whitespace name", [3]string{"   ", "jane@example.com", "hi"}, "name"},
		{"email without at sign", [3]string{"Jane", "not-an-email", "hi"}, "email"},
		{"empty body", [3]string{"Jane", "jane@example.com", ""}, "body"},
		{"oversized body", [3]string{"Jane", "jane@example.com", strings.Repeat("a", 5001)}, "body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := messages.CreateMessage(db, logger, tc.args[0], tc.args[1], tc.args[2])
			var validationErr *messages.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
		})
	}

	count := int64(-1)
	require.NoError(t, db.Model(&messages.Message{}).Count(&count).Error)
	assert.Zero(t, count, "rejected submissions must not be stored")
}

func TestGetMessages(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	older, err := messages.CreateMessage(db, logger, "First", "first@example.com", "older message")
	require.NoError(t, err)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)

	newer, err := messages.CreateMessage(db, logger, "Second", "second@example.com", "newer message")
	require.NoError(t, err)

	require.NoError(t, messages.MarkRead(db, logger, older.ID))

	all, err := messages.GetMessages(db, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID, "newest first")
	assert.Equal(t, older.ID, all[1].ID)

	unread, err := messages.GetMessages(db, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, newer.ID, unread[0].ID)
}

func TestMarkRead(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	message, err := messages.CreateMessage(db, logger, "Jane", "jane@example.com", "hi")
	require.NoError(t, err)

	require.NoError(t, messages.MarkRead(db, logger, message.ID))

	var stored messages.Message
	require.NoError(t, db.First(&stored, "id = ?", message.ID).Error)
	assert.True(t, stored.Read)

	// Marking twice is fine; the row is already read.
	assert.NoError(t, messages.MarkRead(db, logger, message.ID))
}

func TestMarkReadUnknownID(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	err := messages.MarkRead(db, logger, "no-such-id")
	var notFound *messages.MessageNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDeleteMessage(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	message, err := messages.CreateMessage(db, logger, "Jane", "jane@example.com", "hi")
	require.NoError(t, err)

	require.NoError(t, messages.DeleteMessage(db, logger, message.ID))

	var notFound *messages.MessageNotFoundError
	assert.ErrorAs(t, messages.DeleteMessage(db, logger, message.ID), &notFound)
}

func TestCountUnread(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	first, err := messages.CreateMessage(db, logger, "A", "a@example.com", "one")
	require.NoError(t, err)
	_, err = messages.CreateMessage(db, logger, "B", "b@example.com", "two")
	require.NoError(t, err)

	count, err := messages.CountUnread(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, messages.MarkRead(db, logger, first.ID))

	count, err = messages.CountUnread(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
