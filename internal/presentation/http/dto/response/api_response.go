package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
	"github.com/sangkips/orderdesk-api/pkg/pagination"
)

// APIResponse is the envelope every JSON endpoint answers with
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta ties a response to its request in the logs
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

func write(c *gin.Context, status int, body APIResponse) {
	body.Meta = &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID(c),
	}
	c.JSON(status, body)
}

// OK sends a 200 with data
func OK(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// Created sends a 201 with the new resource
func Created(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

// SuccessWithPagination sends a page of results and mirrors the total in X-Total-Count
func SuccessWithPagination[T any](c *gin.Context, statusCode int, message string, result *pagination.PaginatedResult[T]) {
	if result.Pagination != nil {
		c.Header("X-Total-Count", strconv.FormatInt(result.Pagination.Total, 10))
	}
	write(c, statusCode, APIResponse{Success: true, Message: message, Data: result})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error renders err with the status of its AppError; anything else is a 500
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	body := APIResponse{Message: appErr.Message}
	if len(appErr.Errors) > 0 {
		body.Errors = appErr.Errors
	}
	write(c, appErr.Code, body)
}

func fail(c *gin.Context, status int, message string) {
	write(c, status, APIResponse{Message: message})
}

func BadRequest(c *gin.Context, message string)          { fail(c, http.StatusBadRequest, message) }
func Unauthorized(c *gin.Context, message string)        { fail(c, http.StatusUnauthorized, message) }
func Forbidden(c *gin.Context, message string)           { fail(c, http.StatusForbidden, message) }
func InternalServerError(c *gin.Context, message string) { fail(c, http.StatusInternalServerError, message) }
