package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/roadhelper/roadhelper/internal/pkg/logger"
)

// PanicRecoveryMiddleware creates a middleware that recovers from panics
// and logs them with stack traces
func PanicRecoveryMiddleware(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, zapLogger)
				}
			}()

			return next(c)
		}
	}
}

// handlePanic handles the panic recovery, logging, and response
func handlePanic(c echo.Context, r interface{}, zapLogger *logger.ZapLogger) {
	stackTrace := string(debug.Stack())

	userID := "anonymous"
	if uid := c.Get("user_id"); uid != nil {
		userID = fmt.Sprintf("%v", uid)
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = c.Request().Header.Get(echo.HeaderXRequestID)
	}

	zapLogger.WithFields(map[string]interface{}{
		"panic_value": r,
		"panic_type":  fmt.Sprintf("%T", r),
		"stack_trace": stackTrace,
		"method":      c.Request().Method,
		"path":        c.Request().URL.Path,
		"client_ip":   c.RealIP(),
		"user_id":     userID,
		"request_id":  requestID,
	}).Error("Panic recovered")

	if !c.Response().Committed {
		_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Internal server error",
			"code":    http.StatusInternalServerError,
		})
	}
}
