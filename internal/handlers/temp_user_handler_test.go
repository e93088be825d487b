package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jsjcard/eventhub/internal/models"
)

func TestCreateTempUser(t *testing.T) {
	db := setupTestDB(t)
	t.Setenv("SITE_URL", "https://events.example.com")
	r := newTestRouter(db)
	r.Use(asBusiness(42))
	r.POST("/event/temp-users", CreateTempUser)

	event := seedEvent(t, db, 42)

	w := performJSON(r, http.MethodPost, "/event/temp-users", map[string]string{
		"event":     event.ID.String(),
		"full_name": "Booth Crew",
		"email":     "crew@example.com",
		"user_type": "booth",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)

	loginURL := body["login_url"].(string)
	if !strings.HasPrefix(loginURL, "https://events.example.com/booth/login/") {
		t.Errorf("unexpected login url: %s", loginURL)
	}
	if !strings.Contains(loginURL, event.ID.String()) {
		t.Errorf("login url should carry the event id: %s", loginURL)
	}

	var tempUser models.TempUser
	if err := db.First(&tempUser).Error; err != nil {
		t.Fatalf("failed to find temp user: %v", err)
	}
	if len(tempUser.Token) < 40 {
		t.Errorf("token looks too short to be 256-bit: %q", tempUser.Token)
	}
	remaining := time.Until(tempUser.ExpiresAt)
	if remaining < 55*time.Minute || remaining > 65*time.Minute {
		t.Errorf("expected roughly one-hour expiry, got %v", remaining)
	}
}

func TestCreateTempUserRejectsUnknownTypeAndEvent(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	r.Use(asBusiness(42))
	r.POST("/event/temp-users", CreateTempUser)

	event := seedEvent(t, db, 42)

	w := performJSON(r, http.MethodPost, "/event/temp-users", map[string]string{
		"event":     event.ID.String(),
		"full_name": "Crew",
		"email":     "crew@example.com",
		"user_type": "janitor",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown user_type, got %d", w.Code)
	}

	w = performJSON(r, http.MethodPost, "/event/temp-users", map[string]string{
		"event":     "00000000-0000-0000-0000-000000000000",
		"full_name": "Crew",
		"email":     "crew@example.com",
		"user_type": "booth",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown event, got %d", w.Code)
	}
}

func TestCreateTempUserDuplicateBlocksUntilExpiry(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	r.Use(asBusiness(42))
	r.POST("/event/temp-users", CreateTempUser)

	event := seedEvent(t, db, 42)
	payload := map[string]string{
		"event":     event.ID.String(),
		"full_name": "Booth Crew",
		"email":     "crew@example.com",
		"user_type": "booth",
	}

	if w := performJSON(r, http.MethodPost, "/event/temp-users", payload); w.Code != http.StatusCreated {
		t.Fatalf("first issue failed: %d", w.Code)
	}

	// Unexpired duplicate for the same (event, email, type) is refused.
	w := performJSON(r, http.MethodPost, "/event/temp-users", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for live duplicate, got %d", w.Code)
	}

	// Same email for the other role is a different identity.
	volunteer := map[string]string{
		"event":     event.ID.String(),
		"full_name": "Booth Crew",
		"email":     "crew@example.com",
		"user_type": "volunteer",
	}
	if w := performJSON(r, http.MethodPost, "/event/temp-users", volunteer); w.Code != http.StatusCreated {
		t.Errorf("same email with different type should be allowed, got %d", w.Code)
	}

	// Expire the booth row; reissue purges it and succeeds.
	db.Model(&models.TempUser{}).
		Where("event_id = ? AND user_type = ?", event.ID, "booth").
		Update("expires_at", time.Now().Add(-time.Minute))

	if w := performJSON(r, http.MethodPost, "/event/temp-users", payload); w.Code != http.StatusCreated {
		t.Fatalf("reissue after expiry should succeed, got %d: %s", w.Code, w.Body.String())
	}

	var boothCount int64
	db.Model(&models.TempUser{}).Where("event_id = ? AND user_type = ?", event.ID, "booth").Count(&boothCount)
	if boothCount != 1 {
		t.Errorf("expired row should be purged on reissue, got %d booth rows", boothCount)
	}
}

func TestTempUserLogin(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	r.GET("/staff/login/:token", GetTempUserLogin)
	r.POST("/staff/login/:token", TempUserLogin)

	event := seedEvent(t, db, 42)
	tempUser := seedTempUser(t, db, event.ID, models.TempUserTypeVolunteer, time.Now().Add(time.Hour))

	// Probe.
	w := performJSON(r, http.MethodGet, "/staff/login/"+tempUser.Token, nil)
	body := decodeBody(t, w)
	if w.Code != http.StatusOK || body["token_valid"] != true {
		t.Fatalf("expected valid probe, got %d %v", w.Code, body)
	}

	// Email must match the issuing email, case-insensitively.
	w = performJSON(r, http.MethodPost, "/staff/login/"+tempUser.Token, map[string]string{"email": "CREW@example.com"})
	body = decodeBody(t, w)
	if w.Code != http.StatusOK || body["message"] != "Login successful" {
		t.Fatalf("case-insensitive email should log in, got %d %v", w.Code, body)
	}
	if body["token"] != tempUser.Token {
		t.Errorf("login should return the same bearer token, got %v", body["token"])
	}

	w = performJSON(r, http.MethodPost, "/staff/login/"+tempUser.Token, map[string]string{"email": "intruder@example.com"})
	body = decodeBody(t, w)
	if w.Code != http.StatusBadRequest || body["error"] != "Email does not match" {
		t.Errorf("mismatched email should be refused, got %d %v", w.Code, body)
	}

	if w := performJSON(r, http.MethodGet, "/staff/login/no-such-token", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown token should be 400, got %d", w.Code)
	}
}

func TestTempUserLoginExpired(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(db)
	r.GET("/staff/login/:token", GetTempUserLogin)
	r.POST("/staff/login/:token", TempUserLogin)

	event := seedEvent(t, db, 42)
	tempUser := seedTempUser(t, db, event.ID, models.TempUserTypeBooth, time.Now().Add(-time.Minute))

	w := performJSON(r, http.MethodGet, "/staff/login/"+tempUser.Token, nil)
	body := decodeBody(t, w)
	if w.Code != http.StatusBadRequest || body["error"] != "Token expired" {
		t.Errorf("expired probe should be refused, got %d %v", w.Code, body)
	}

	w = performJSON(r, http.MethodPost, "/staff/login/"+tempUser.Token, map[string]string{"email": tempUser.Email})
	body = decodeBody(t, w)
	if w.Code != http.StatusBadRequest || body["error"] != "Token expired" {
		t.Errorf("expired login should be refused, got %d %v", w.Code, body)
	}
}
