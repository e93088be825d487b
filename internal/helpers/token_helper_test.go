package helpers

import (
	"strings"
	"testing"
)

func TestGenerateTempToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := GenerateTempToken()
		if err != nil {
			t.Fatalf("GenerateTempToken failed: %v", err)
		}
		// 32 bytes base64url without padding.
		if len(token) != 43 {
			t.Fatalf("unexpected token length %d: %q", len(token), token)
		}
		if strings.ContainsAny(token, "+/=") {
			t.Errorf("token is not URL-safe: %q", token)
		}
		if seen[token] {
			t.Fatal("duplicate token generated")
		}
		seen[token] = true
	}
}

func TestTempLoginURL(t *testing.T) {
	url := TempLoginURL("https://events.example.com/", "booth", "tok123", "ev456")
	want := "https://events.example.com/booth/login/tok123/ev456/booth"
	if url != want {
		t.Errorf("TempLoginURL = %q, want %q", url, want)
	}
}
