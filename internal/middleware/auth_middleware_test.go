package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware())

	member := r.Group("/member")
	member.Use(RequireMember())
	member.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"mbrcardno": c.MustGet("mbrcardno")})
	})

	business := r.Group("/business")
	business.Use(RequireBusiness())
	business.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"business_id": c.MustGet("business_id")})
	})
	return r
}

func performAuth(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := authTestRouter()

	if w := performAuth(r, "/member/whoami", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token should be 401, got %d", w.Code)
	}

	forged := signToken(t, "wrong-secret", jwt.MapClaims{"mbrcardno": "1234567890123456"})
	if w := performAuth(r, "/member/whoami", forged); w.Code != http.StatusUnauthorized {
		t.Errorf("forged token should be 401, got %d", w.Code)
	}

	valid := signToken(t, "test-secret", jwt.MapClaims{"business_id": float64(42)})
	if w := performAuth(r, "/business/whoami", valid); w.Code != http.StatusOK {
		t.Errorf("valid business token should pass, got %d: %s", w.Code, w.Body.String())
	}

	// A business token carries no member identity.
	if w := performAuth(r, "/member/whoami", valid); w.Code != http.StatusForbidden {
		t.Errorf("business token on member route should be 403, got %d", w.Code)
	}
}

// Card numbers are 16 digits, wider than float64 holds exactly, so the SSO
// sends them as string claims. The middleware must accept both encodings.
func TestJWTAuthMiddlewareStringCardClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := authTestRouter()

	token := signToken(t, "test-secret", jwt.MapClaims{"mbrcardno": "1234567890123456"})
	w := performAuth(r, "/member/whoami", token)
	if w.Code != http.StatusOK {
		t.Fatalf("string card claim should pass, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"mbrcardno":1234567890123456}` {
		t.Errorf("card number lost precision: %s", body)
	}
}
