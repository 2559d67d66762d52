package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schemacanvas/internal/utils"
)

const userIDKey = "userId"

// Authenticate rejects requests without a valid bearer access token.
func Authenticate(c *gin.Context) {
	userID, ok := bearerUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or missing access token"})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

// OptionalAuthenticate attaches the user identity when a valid bearer token
// is present but lets anonymous requests through. Used on routes that also
// serve public schemas and share-token collaborators.
func OptionalAuthenticate(c *gin.Context) {
	if userID, ok := bearerUserID(c); ok {
		c.Set(userIDKey, userID)
	}
	c.Next()
}

// CurrentUser returns the authenticated user's id from the request context.
func CurrentUser(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func bearerUserID(c *gin.Context) (uuid.UUID, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return uuid.Nil, false
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, false
	}

	claims, err := utils.VerifyJWT(parts[1], utils.AccessTokenSecret)
	if err != nil {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
