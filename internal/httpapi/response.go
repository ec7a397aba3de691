package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chartbridge/internal/transport"
	"chartbridge/jsrt"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:      http.StatusOK,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ConversionError answers with the status that matches err's kind.
func ConversionError(c *gin.Context, err error) {
	code := StatusFor(err)
	c.JSON(code, Response{
		Code:      code,
		Message:   err.Error(),
		Kind:      jsrt.Kind(err),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func StatusFor(err error) int {
	switch jsrt.Kind(err) {
	case "runtime_unavailable":
		return http.StatusServiceUnavailable
	case "file_access":
		return http.StatusInternalServerError
	case "marshal":
		if marshalOp(err) == "decode" {
			return http.StatusInternalServerError
		}
		return http.StatusBadRequest
	case "transformation":
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, transport.ErrUnreachable) {
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// marshalOp reports whether a marshal error came from encoding the request
// or decoding the program's result, locally or on a remote server.
func marshalOp(err error) string {
	var me *jsrt.MarshalError
	if errors.As(err, &me) {
		return me.Op
	}
	var re *transport.RemoteError
	if errors.As(err, &re) {
		return re.Op
	}
	return ""
}
