package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/middleware"
	"inkwell/api/internal/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type creatorResponse struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Biography   string `json:"biography"`
	Role        string `json:"role"`
}

func toCreatorResponse(creator models.Creator) creatorResponse {
	return creatorResponse{
		Username:    creator.Username,
		DisplayName: creator.DisplayName,
		Biography:   creator.Biography,
		Role:        string(creator.Role),
	}
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", true, true)
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, creator, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.cfg.Security.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"user": toCreatorResponse(creator)})
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toCreatorResponse(claims.Data), "admin": claims.Admin})
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authService.ChangePasswordSelf(c.Request.Context(), claims,
		req.CurrentPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	// The stored hash changed, so every outstanding session for this
	// creator is now stale, including this one. Issue a fresh cookie.
	creator, err := h.creatorService.Get(c.Request.Context(), claims.Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	token, _, err := h.authService.Login(c.Request.Context(), creator.Username, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, token, int(h.cfg.Security.SessionTTL.Seconds()))

	c.Status(http.StatusNoContent)
}

type changePasswordOtherRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (h HandlerSet) ChangePasswordOther(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req changePasswordOtherRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ChangePasswordOther(c.Request.Context(), claims, req.Username, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
