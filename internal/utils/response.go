package utils

import "github.com/gin-gonic/gin"

// Client-facing error codes. Internal error text never reaches the client.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeInvalidID          = "invalid_id"
	CodeEmailTaken         = "email_taken"
	CodeCategoryExists     = "category_exists"
	CodeInvalidReference   = "invalid_reference"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeRateLimited        = "rate_limited"
	CodeRequestFailed      = "request_failed"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError aborts the request with a JSON error body.
func WriteError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}
