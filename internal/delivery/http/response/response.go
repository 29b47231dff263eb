package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessBody is the JSON shape of a successful submission
type SuccessBody struct {
	Success string `json:"success"`
}

// ErrorBody is the JSON shape of every failed request
type ErrorBody struct {
	Error string `json:"error"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string) {
	c.JSON(code, SuccessBody{Success: message})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{Error: message})
}
