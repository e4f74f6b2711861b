package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/booktrail/booktrail/internal/auth"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns 0 when no user is authenticated.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondConflict sends a 409 Conflict response.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// respondUnauthorized sends a 401 Unauthorized response.
func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
