package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/logger"
	"prodledger/internal/middleware"
	"prodledger/internal/models"
	"prodledger/internal/uuid"
)

// ErrorResponse documents the JSON error envelope for swagger.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MessageResponse documents a simple message payload for swagger.
type MessageResponse struct {
	Message string `json:"message"`
}

// getActor extracts the authenticated actor (user ID + role) from the Gin
// context. Returns ErrUnauthorized if not present.
func getActor(c *gin.Context) (models.Actor, error) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return models.Actor{}, apperrors.ErrUnauthorized
	}
	role, exists := c.Get(middleware.ContextRole)
	if !exists {
		return models.Actor{}, apperrors.ErrUnauthorized
	}
	return models.Actor{ID: userID.(string), Role: role.(models.Role)}, nil
}

// parsePathID validates a UUID path parameter.
// Returns ErrValidation if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrValidation, "Invalid "+param)
	}
	return id, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
