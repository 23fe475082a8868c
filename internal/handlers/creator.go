package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/middleware"
	"inkwell/api/internal/security"
	"inkwell/api/internal/service"
)

type newCreatorRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	Password    string `json:"password" binding:"required"`
	AsPublisher bool   `json:"asPublisher"`
}

func (h HandlerSet) NewCreator(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req newCreatorRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.creatorService.NewCreator(c.Request.Context(), claims, service.NewCreatorInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		AsPublisher: req.AsPublisher,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toCreatorResponse(creator)})
}

type updateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Biography   *string `json:"biography"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.creatorService.UpdateProfile(c.Request.Context(), claims, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Biography:   req.Biography,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type onlyUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h HandlerSet) PromoteCreator(c *gin.Context) {
	h.roleAction(c, h.creatorService.Promote)
}

func (h HandlerSet) DemoteCreator(c *gin.Context) {
	h.roleAction(c, h.creatorService.Demote)
}

func (h HandlerSet) LockCreator(c *gin.Context) {
	h.roleAction(c, h.creatorService.Lock)
}

func (h HandlerSet) roleAction(c *gin.Context, action func(ctx context.Context, claims *security.Claims, username string) error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req onlyUsernameRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := action(c.Request.Context(), claims, req.Username); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) ListCreators(c *gin.Context) {
	creators, err := h.creatorService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]creatorResponse, 0, len(creators))
	for _, creator := range creators {
		out = append(out, toCreatorResponse(creator))
	}
	c.JSON(http.StatusOK, gin.H{"creators": out})
}
