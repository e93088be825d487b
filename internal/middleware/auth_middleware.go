package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jsjcard/eventhub/internal/helpers"
)

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// claimInt64 reads a numeric claim that may arrive as a JSON number or, for
// values wider than float64 can hold exactly (16-digit card numbers), as a
// string.
func claimInt64(claims jwt.MapClaims, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// JWTAuthMiddleware validates the SSO-issued bearer token and exposes its
// identity claims (business_id for business callers, mbrcardno for members).
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization token required.")
			c.Abort()
			return
		}

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			helpers.RespondWithError(c, http.StatusInternalServerError, "JWT_SECRET not configured.")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token claims.")
			c.Abort()
			return
		}

		if businessID, ok := claimInt64(claims, "business_id"); ok {
			c.Set("business_id", businessID)
		}
		if cardNo, ok := claimInt64(claims, "mbrcardno"); ok {
			c.Set("mbrcardno", cardNo)
		}
		c.Next()
	}
}

// RequireBusiness guards business-surface routes.
func RequireBusiness() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("business_id"); !exists {
			helpers.RespondWithError(c, http.StatusForbidden, "Business account required.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireMember guards member-surface routes.
func RequireMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("mbrcardno"); !exists {
			helpers.RespondWithError(c, http.StatusForbidden, "Member account required.")
			c.Abort()
			return
		}
		c.Next()
	}
}
