package shared

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies read by handlers.
const MaxBodyBytes = 1 << 20

// ErrBodyTooLarge is returned when a body exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// RequestID reads the id set by the request id middleware.
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	value, ok := c.Get("request_id")
	if !ok {
		return ""
	}
	id, _ := value.(string)
	return id
}

// ReadBody reads the raw request body up to MaxBodyBytes.
func ReadBody(c *gin.Context) ([]byte, error) {
	if c.Request == nil || c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, err
	}
	return body, nil
}
