package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// AccountIDKey is the context key for the tenant account.
	AccountIDKey = "account_id"
	// AccountIDHeader carries the tenant account on every API request.
	AccountIDHeader = "X-Account-ID"

	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	codeBadRequest      = "BAD_REQUEST"
)

// Account resolves the tenant from the X-Account-ID header. Requests without
// it are rejected with 401 and requests with a malformed value with 400.
// There is no default account.
func Account() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(AccountIDHeader)
		if raw == "" {
			abort(c, http.StatusUnauthorized, CodeUnauthorized, AccountIDHeader+" header is required")
			return
		}

		accountID, err := uuid.Parse(raw)
		if err != nil {
			abort(c, http.StatusBadRequest, codeBadRequest, AccountIDHeader+" must be a UUID")
			return
		}

		c.Set(AccountIDKey, accountID)
		if log := GetLogger(c); log != nil {
			c.Set(LoggerKey, log.WithAccountID(accountID.String()))
		}

		c.Next()
	}
}

// GetAccountID returns the account resolved by Account, or uuid.Nil when
// the route is not behind it.
func GetAccountID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(AccountIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// abort writes the standard error body. The errors package cannot be used
// here since it depends on this one.
func abort(c *gin.Context, status int, code, message string) {
	if log := GetLogger(c); log != nil {
		log.Warn("Request rejected", map[string]interface{}{
			"code": code,
			"path": c.Request.URL.Path,
		})
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
