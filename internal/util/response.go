package util

import (
	"errors"
	"net/http"

	"care_program_backend/internal/program"
	"care_program_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// HandleServiceError maps the program error taxonomy onto HTTP statuses.
// Configuration errors are logged loudly; they mean operator action is
// needed, not a client mistake.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case program.IsValidation(err),
		errors.Is(err, ErrQuestionnaireDisabled),
		errors.Is(err, ErrRolesMismatch),
		errors.Is(err, ErrDefinitionNotActivatable):
		BadRequest(c, err.Error())
	case program.IsNotFound(err),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrProgramNotFound),
		errors.Is(err, ErrNoActiveDefinition):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, program.ErrConflict),
		errors.Is(err, ErrAlreadyPaired),
		errors.Is(err, ErrEmailRegistered):
		Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Unauthorized(c)
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	case program.IsConfiguration(err):
		logger.Log.Error("Configuration error", zap.Error(err))
		Error(c, http.StatusInternalServerError, err.Error())
	default:
		LogInternalError(c, err)
	}
}
