// Package uploads issues short-lived signed upload URLs for project images
// and stores the received bytes on disk. The admin asks for an upload slot,
// gets back a key and a token, and the client PUTs the bytes to the public
// endpoint with that token; the token is bound to exactly one key.
package uploads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that were not issued by this package.
var ErrInvalidKey = errors.New("invalid upload key")

// ErrInvalidToken covers expired, forged, or key-mismatched upload tokens.
var ErrInvalidToken = errors.New("invalid upload token")

// MaxUploadBytes caps a single upload.
const MaxUploadBytes = 5 << 20

var keyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(png|jpg|jpeg|gif|webp|svg)$`)

var extensionByContentType = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

type uploadClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// Grant is what the admin API hands back for a requested upload slot.
type Grant struct {
	Key       string    `json:"key"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IssueGrant mints a fresh key for the given content type and signs a token
// bound to it. Unsupported content types are rejected up front.
func IssueGrant(secret, contentType string, ttl time.Duration) (*Grant, error) {
	ext, ok := extensionByContentType[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}

	key := uuid.NewString() + "." + ext
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := uploadClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("signing upload token: %w", err)
	}

	return &Grant{Key: key, Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken checks that the token is live and was issued for this key.
func ValidateToken(secret, key, tokenString string) error {
	claims := &uploadClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	if claims.Key != key {
		return ErrInvalidToken
	}
	return nil
}

// Save writes the upload under the configured directory. The key format is
// re-checked here so a stored file name can never escape the directory.
func Save(directory, key string, data []byte) error {
	if !keyPattern.MatchString(key) {
		return ErrInvalidKey
	}
	if len(data) > MaxUploadBytes {
		return fmt.Errorf("upload exceeds %d bytes", MaxUploadBytes)
	}

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	return os.WriteFile(filepath.Join(directory, key), data, 0o644)
}

// Path returns the on-disk location for a stored key, or ErrInvalidKey.
func Path(directory, key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(directory, key), nil
}
