package users_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/testsupport"
	"portfolio/internal/users"
)

func TestCreateAdminUser(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	require.NoError(t, users.CreateAdminUser(db, logger, "owner@example.com", "correct horse"))

	user, err := users.FindByEmail(db, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, users.RoleAdmin, user.Role)
	assert.NotEqual(t, "correct horse", user.EncryptedPassword)

	// The same email cannot be registered twice.
	err = users.CreateAdminUser(db, logger, "owner@example.com", "another password")
	assert.ErrorIs(t, err, users.ErrUserExists)

	assert.Error(t, users.CreateAdminUser(db, logger, "", "password"))
	assert.Error(t, users.CreateAdminUser(db, logger, "second@example.com", ""))
}

func TestAuthenticate(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	require.NoError(t, users.CreateAdminUser(db, logger, "owner@example.com", "correct horse"))

	user, err := users.Authenticate(db, logger, "owner@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)
	assert.NotNil(t, user.LastLoginAt, "successful login stamps last_login_at")

	// Wrong password and unknown user come back as the same error, so a
	// caller probing the login form learns nothing.
	_, err = users.Authenticate(db, logger, "owner@example.com", "wrong")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, err = users.Authenticate(db, logger, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()

	require.NoError(t, users.CreateAdminUser(db, logger, "owner@example.com", "old password"))
	require.NoError(t, users.ChangePassword(db, logger, "owner@example.com", "new password"))

	_, err := users.Authenticate(db, logger, "owner@example.com", "old password")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, err = users.Authenticate(db, logger, "owner@example.com", "new password")
	assert.NoError(t, err)

	assert.Error(t, users.ChangePassword(db, logger, "owner@example.com", ""))
	assert.Error(t, users.ChangePassword(db, logger, "nobody@example.com", "whatever"))
}

func TestUserIdentity(t *testing.T) {
	user := users.User{Email: "owner@example.com", Role: users.RoleAdmin}
	identity := user.Identity()
	assert.Equal(t, "owner@example.com", identity.Email)
	assert.Equal(t, []string{users.RoleAdmin}, identity.Roles)

	// No role claim for role-less users rather than an empty string claim.
	bare := users.User{Email: "viewer@example.com"}
	assert.Nil(t, bare.Identity().Roles)
}
