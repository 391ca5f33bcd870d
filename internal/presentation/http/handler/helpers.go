package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tablepos-api/internal/presentation/http/middleware"
)

const dateLayout = "2006-01-02"

// GetTerminalID returns the terminal the request was sent from
func GetTerminalID(c *gin.Context) string {
	return middleware.GetTerminalID(c)
}

// parseDate parses a YYYY-MM-DD query value. Empty or malformed values are ignored.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// endOfDay makes an end_date filter include the whole day
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	end := t.Add(24*time.Hour - time.Nanosecond)
	return &end
}
