package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the gin context key set by the RequestID middleware
const requestIDKey = "request_id"

// Response represents the standard API response structure
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *MetaInfo  `json:"meta"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func newMeta(c *gin.Context) *MetaInfo {
	requestID := c.GetString(requestIDKey)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &MetaInfo{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func respond(c *gin.Context, status int, resp Response) {
	resp.Meta = newMeta(c)
	c.JSON(status, resp)
}

func respondSuccess(c *gin.Context, status int, data any) {
	respond(c, status, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, code, message string) {
	respond(c, status, Response{
		Error: &ErrorInfo{Code: code, Message: message},
	})
}
