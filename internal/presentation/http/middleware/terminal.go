package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/presentation/http/dto/response"
)

const (
	// TerminalIDHeader identifies the till a request comes from
	TerminalIDHeader = "X-Terminal-ID"
	// DefaultTerminalID is used when a client does not send the header
	DefaultTerminalID = "default"

	terminalIDKey = "terminal_id"
)

var terminalIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// TerminalMiddleware resolves the terminal id from the request header and adds it to the context.
// Every terminal owns its own cart.
func TerminalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		terminalID := strings.TrimSpace(c.GetHeader(TerminalIDHeader))
		if terminalID == "" {
			terminalID = DefaultTerminalID
		}

		if !terminalIDPattern.MatchString(terminalID) {
			response.BadRequest(c, "Invalid X-Terminal-ID header")
			c.Abort()
			return
		}

		c.Set(terminalIDKey, terminalID)
		c.Next()
	}
}

// GetTerminalID retrieves the terminal ID from gin context
func GetTerminalID(c *gin.Context) string {
	terminalID := c.GetString(terminalIDKey)
	if terminalID == "" {
		return DefaultTerminalID
	}
	return terminalID
}
