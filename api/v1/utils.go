package v1

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// getClientIP resolves the visitor's address behind common reverse proxies.
// Used only for GeoLite2 country lookups; the address itself is never stored.
func getClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		for _, candidate := range strings.Split(forwarded, ",") {
			if ip := publicIP(candidate); ip != "" {
				return ip
			}
		}
	}

	for _, header := range []string{"X-Real-IP", "CF-Connecting-IP", "True-Client-IP"} {
		if ip := publicIP(c.Get(header)); ip != "" {
			return ip
		}
	}

	if ip := publicIP(c.IP()); ip != "" {
		return ip
	}
	return c.IP()
}

// publicIP returns the cleaned address when it parses and is not private,
// loopback, or link-local; otherwise "".
func publicIP(raw string) string {
	clean := strings.TrimSpace(raw)
	if host, _, err := net.SplitHostPort(clean); err == nil {
		clean = host
	}

	parsed := net.ParseIP(clean)
	if parsed == nil {
		return ""
	}
	if parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified() {
		return ""
	}
	return clean
}

// generateETag creates a strong ETag from content using SHA-256.
func generateETag(content []byte) string {
	hash := sha256.Sum256(content)
	return `"` + hex.EncodeToString(hash[:]) + `"`
}
