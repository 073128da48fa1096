package uploads_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/uploads"
)

const uploadSecret = "test-secret-test-secret-test-sec"

func TestIssueGrant(t *testing.T) {
	grant, err := uploads.IssueGrant(uploadSecret, "image/png", 15*time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(grant.Key, ".png"), "key %q should carry the png extension", grant.Key)
	assert.NotEmpty(t, grant.Token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), grant.ExpiresAt, 5*time.Second)

	// Each grant mints a fresh key.
	second, err := uploads.IssueGrant(uploadSecret, "image/png", 15*time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, grant.Key, second.Key)
}

func TestIssueGrantRejectsUnsupportedContentType(t *testing.T) {
	_, err := uploads.IssueGrant(uploadSecret, "application/x-sh", time.Minute)
	assert.Error(t, err)

	_, err = uploads.IssueGrant(uploadSecret, "", time.Minute)
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	grant, err := uploads.IssueGrant(uploadSecret, "image/jpeg", time.Minute)
	require.NoError(t, err)

	assert.NoError(t, uploads.ValidateToken(uploadSecret, grant.Key, grant.Token))
}

func TestValidateTokenRejectsKeyMismatch(t *testing.T) {
	grant, err := uploads.IssueGrant(uploadSecret, "image/png", time.Minute)
	require.NoError(t, err)
	other, err := uploads.IssueGrant(uploadSecret, "image/png", time.Minute)
	require.NoError(t, err)

	// A token is bound to exactly one key.
	err = uploads.ValidateToken(uploadSecret, other.Key, grant.Token)
	assert.ErrorIs(t, err, uploads.ErrInvalidToken)
}

func TestValidateTokenRejectsExpiredToken(t *testing.T) {
	grant, err := uploads.IssueGrant(uploadSecret, "image/png", -time.Minute)
	require.NoError(t, err)

	err = uploads.ValidateToken(uploadSecret, grant.Key, grant.Token)
	assert.ErrorIs(t, err, uploads.ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	grant, err := uploads.IssueGrant(uploadSecret, "image/png", time.Minute)
	require.NoError(t, err)

	err = uploads.ValidateToken("another-secret-entirely-32-bytes", grant.Key, grant.Token)
	assert.ErrorIs(t, err, uploads.ErrInvalidToken)
}

func TestSaveAndPath(t *testing.T) {
	dir := t.TempDir()
	grant, err := uploads.IssueGrant(uploadSecret, "image/webp", time.Minute)
	require.NoError(t, err)

	data := []byte("fake image bytes")
	require.NoError(t, uploads.Save(dir, grant.Key, data))

	path, err := uploads.Path(dir, grant.Key)
	require.NoError(t, err)
	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, stored))
}

func TestSaveRejectsForeignKeys(t *testing.T) {
	dir := t.TempDir()

	// Only keys this package issued are storable; anything else, traversal
	// attempts included, is rejected before touching the filesystem.
	badKeys := []string{
		"../../etc/passwd",
		"nested/dir/file.png",
		"plain-name.png",
		"00000000-0000-0000-0000-000000000000.exe",
		"",
	}
	for _, key := range badKeys {
		err := uploads.Save(dir, key, []byte("x"))
		assert.ErrorIs(t, err, uploads.ErrInvalidKey, "key %q", key)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	dir := t.TempDir()
	grant, err := uploads.IssueGrant(uploadSecret, "image/png", time.Minute)
	require.NoError(t, err)

	err = uploads.Save(dir, grant.Key, make([]byte, uploads.MaxUploadBytes+1))
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, grant.Key))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPathRejectsForeignKeys(t *testing.T) {
	_, err := uploads.Path("/srv/uploads", "../secrets.env")
	assert.ErrorIs(t, err, uploads.ErrInvalidKey)
}
