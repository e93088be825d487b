package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jsjcard/eventhub/config"
	"github.com/jsjcard/eventhub/internal/directory"
	"github.com/jsjcard/eventhub/internal/middleware"
	"github.com/jsjcard/eventhub/internal/models"
)

type testRig struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r
}

// asBusiness and asMember stand in for the JWT middleware, which has its own
// tests; handler tests only need the identity keys it would set.
func asBusiness(businessID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("business_id", businessID)
		c.Next()
	}
}

func asMember(cardNo int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("mbrcardno", cardNo)
		c.Next()
	}
}

func performJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performJSONAuth(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("undecodable response body %q: %v", w.Body.String(), err)
	}
	return body
}

func seedEvent(t *testing.T, db *gorm.DB, businessID int64) models.Event {
	t.Helper()
	event := models.Event{
		BusinessID: businessID,
		Title:      "Tech Career Fair",
		StartDate:  time.Now().Add(24 * time.Hour),
		EndDate:    time.Now().Add(48 * time.Hour),
		Location:   "Hall A",
		EventType:  "Career & Professional",
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}
	return event
}

func seedTempUser(t *testing.T, db *gorm.DB, eventID uuid.UUID, userType string, expiresAt time.Time) models.TempUser {
	t.Helper()
	tempUser := models.TempUser{
		EventID:   eventID,
		FullName:  "Booth Crew",
		Email:     "crew@example.com",
		UserType:  userType,
		Token:     "token-" + userType + "-" + time.Now().Format("150405.000000000"),
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&tempUser).Error; err != nil {
		t.Fatalf("failed to seed temp user: %v", err)
	}
	return tempUser
}

// stubDirectory serves the member-lookup endpoints from a fixed map keyed by
// card number or mobile number.
func stubDirectory(t *testing.T, members map[string]directory.Member) *directory.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var key string
		switch r.URL.Path {
		case "/cardno/member-details/":
			key = r.URL.Query().Get("card_number")
		case "/member-details/":
			key = r.URL.Query().Get("mobile_number")
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		member, ok := members[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(member)
	}))
	t.Cleanup(server.Close)
	return directory.NewClient(server.URL, zerolog.Nop())
}
