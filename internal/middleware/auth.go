package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
)

// UserIDKey is the gin context key holding the authenticated user's ID.
const UserIDKey = "user_id"

// Claims are the token claims the storefront understands. Tokens issued by
// the accounts service put the numeric user ID in user_id; others use sub.
type Claims struct {
	UserID interface{} `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates HS256 bearer tokens.
type AuthMiddleware struct {
	secret []byte
	issuer string
	logger *logging.LoggerV2
}

func NewAuthMiddleware(cfg config.AuthConfig, logger *logging.LoggerV2) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		logger: logger,
	}
}

// RequireAuth rejects requests without a valid token with 401 and stores the
// user ID under UserIDKey otherwise.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
			return
		}

		userID, err := am.ParseUserID(tokenString)
		if err != nil {
			am.logger.Debug("Rejected token", logging.Fields{
				"request_id": RequestIDFromContext(c.Request.Context()),
				"error":      err.Error(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// ParseUserID verifies tokenString and extracts the user ID claim.
func (am *AuthMiddleware) ParseUserID(tokenString string) (int64, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if am.issuer != "" {
		opts = append(opts, jwt.WithIssuer(am.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, opts...)
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	return claims.userID()
}

func (c *Claims) userID() (int64, error) {
	switch v := c.UserID.(type) {
	case float64:
		if v > 0 && v == float64(int64(v)) {
			return int64(v), nil
		}
	case string:
		return parseID(v)
	}
	if c.Subject != "" {
		return parseID(c.Subject)
	}
	return 0, fmt.Errorf("token has no user id")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// UserID returns the authenticated user's ID set by RequireAuth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
