package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/blocks"
	"inkwell/api/internal/middleware"
	"inkwell/api/internal/service"
)

type savePageRequest struct {
	OldPath  string          `json:"oldPath"`
	Path     string          `json:"path" binding:"required"`
	Title    string          `json:"title" binding:"required"`
	TextBody json.RawMessage `json:"textBody" binding:"required"`
}

func (h HandlerSet) SavePage(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req savePageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := blocks.Decode(req.TextBody)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.Save(c.Request.Context(), claims, service.SavePageInput{
		OldPath:  req.OldPath,
		Path:     req.Path,
		Title:    req.Title,
		TextBody: body,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": gin.H{"path": page.Path, "title": page.Title}})
}

func (h HandlerSet) DeletePage(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	path := strings.TrimPrefix(c.Param("path"), "/")
	if err := h.pageService.Delete(c.Request.Context(), claims, path); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) GetPage(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")

	page, err := h.pageService.Get(c.Request.Context(), path)
	if err != nil {
		respondError(c, err)
		return
	}

	rendered := h.pageService.RenderBody(c.Request.Context(), page)
	c.JSON(http.StatusOK, gin.H{
		"page": gin.H{"path": page.Path, "title": page.Title},
		"html": rendered,
	})
}
