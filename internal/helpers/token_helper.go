package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// GenerateTempToken returns a URL-safe bearer token with 256 bits of entropy.
func GenerateTempToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// TempLoginURL builds the login link mailed to booth/volunteer staff:
// {site}/{booth|volunteer}/login/{token}/{event_id}/{user_type}.
func TempLoginURL(siteURL, userType, token, eventID string) string {
	return fmt.Sprintf("%s/%s/login/%s/%s/%s",
		strings.TrimRight(siteURL, "/"), strings.ToLower(userType), token, eventID, userType)
}
