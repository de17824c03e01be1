package controllers

import (
	"errors"
	"net/http"

	"github.com/anujdhillxn/zenvia/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the response envelope:
// 403 for duo-membership failures, 404 for missing entities, 409 for
// duplicates, 400 for validation (with field messages).
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotInDuo):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRuleNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRuleExists),
		errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrAlreadyInDuo):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSelfPairing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
