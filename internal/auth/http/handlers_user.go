package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/auth/domain"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/logging"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/validation"
)

// SyncUser is called after Firebase sign-in to make sure the local profile
// exists. The JSON body is optional and only fills fields that are still empty.
func (h *Handler) SyncUser(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var body syncReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
			return
		}
	}

	user, err := h.authService.SyncUser(c.Request.Context(), userID, &domain.SyncUserRequest{
		DisplayName: body.DisplayName,
		AvatarURL:   body.AvatarURL,
		Bio:         body.Bio,
		WebsiteURL:  body.WebsiteURL,
	})
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Int64("user_id", userID).Msg("sync user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sync user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the user's profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": validation.Details(err)})
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), userID, &domain.UpdateUserRequest{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		WebsiteURL:  req.WebsiteURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username"})
		default:
			logging.Ctx(c.Request.Context()).Error().Err(err).Int64("user_id", userID).Msg("update profile")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetPublicProfile returns another user's public profile and activity counts.
func (h *Handler) GetPublicProfile(c *gin.Context) {
	profile, err := h.authService.PublicProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
