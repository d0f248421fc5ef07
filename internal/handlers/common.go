package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/NexHire-2025/interview-service/internal/assessment"
	apperrors "github.com/NexHire-2025/interview-service/internal/errors"
	"github.com/NexHire-2025/interview-service/internal/services"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
}

// handleServiceError maps service-layer errors onto HTTP statuses. Services
// return sentinel errors; only here do they become status codes.
func handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: apperrors.ToValidationErrors(validationErrs),
		})
		return
	}

	switch {
	case services.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case services.IsPermissionError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case services.IsWindowError(err), services.IsPreconditionError(err):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case services.IsForbiddenByState(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case services.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case assessment.IsAuthError(err):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "interview engine unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// companyID reads the authenticated company from the gateway-set header.
// Authentication itself happens upstream of this service.
func companyID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("X-Company-ID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing or invalid company identity"})
		return 0, false
	}
	return uint(id), true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
