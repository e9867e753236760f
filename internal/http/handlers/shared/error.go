package shared

import (
	"errors"

	"github.com/mlops-microproject/review-workspace/internal/http/response"
	"github.com/mlops-microproject/review-workspace/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MappedError maps a service error to a response code and message.
type MappedError struct {
	Target error
	Code   int
	Msg    string
}

// RequestLog returns a logger carrying the request_id.
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if id := RequestID(c); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError writes an error envelope and logs the cause when there is one.
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondMappedError answers with the first matching rule, or the fallback.
// Mapped errors are expected outcomes and are not logged as failures.
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			msg := rule.Msg
			if msg == "" {
				msg = err.Error()
			}
			RespondError(c, rule.Code, msg, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackMsg, err)
}
