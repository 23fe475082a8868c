package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/blocks"
	"inkwell/api/internal/middleware"
	"inkwell/api/internal/models"
	"inkwell/api/internal/service"
)

type saveTextRequest struct {
	TextID        *int64          `json:"textId"`
	TextType      string          `json:"textType" binding:"required"`
	Title         string          `json:"title" binding:"required"`
	LeadParagraph string          `json:"leadParagraph"`
	TextBody      json.RawMessage `json:"textBody" binding:"required"`
	Thumbnail     *string         `json:"thumbnail"`
	// Tags is a semicolon-separated list.
	Tags         string `json:"tags"`
	Publish      *bool  `json:"publish"`
	MarkedAsDone bool   `json:"markedAsDone"`
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ";")
}

func (r saveTextRequest) toInput() (service.SaveTextInput, error) {
	body, err := blocks.Decode(r.TextBody)
	if err != nil {
		return service.SaveTextInput{}, err
	}

	return service.SaveTextInput{
		TextID:        r.TextID,
		Title:         r.Title,
		LeadParagraph: r.LeadParagraph,
		TextBody:      body,
		TextType:      models.TextType(r.TextType),
		Tags:          splitTags(r.Tags),
		Thumbnail:     r.Thumbnail,
		Publish:       r.Publish,
		MarkedAsDone:  r.MarkedAsDone,
	}, nil
}

type textResponse struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	TitleSlug     string   `json:"titleSlug"`
	Author        string   `json:"author"`
	LeadParagraph string   `json:"leadParagraph"`
	TextType      string   `json:"textType"`
	Tags          []string `json:"tags"`
	IsPublished   bool     `json:"isPublished"`
	MarkedAsDone  bool     `json:"markedAsDone"`
}

func toTextResponse(text models.Text) textResponse {
	return textResponse{
		ID:            text.ID,
		Title:         text.Title,
		TitleSlug:     text.TitleSlug,
		Author:        text.Author,
		LeadParagraph: text.LeadParagraph,
		TextType:      string(text.TextType),
		Tags:          text.Tags,
		IsPublished:   text.IsPublished,
		MarkedAsDone:  text.MarkedAsDone,
	}
}

func (h HandlerSet) SaveText(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req saveTextRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.textService.Create(c.Request.Context(), claims, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"text": toTextResponse(text)})
}

func (h HandlerSet) EditText(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req saveTextRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.textService.Edit(c.Request.Context(), claims, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": toTextResponse(text)})
}

func textIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed text id"})
		return 0, false
	}
	return id, true
}

func (h HandlerSet) MarkTextDone(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := textIDParam(c)
	if !ok {
		return
	}

	if err := h.textService.MarkDone(c.Request.Context(), claims, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) UnmarkTextDone(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := textIDParam(c)
	if !ok {
		return
	}

	if err := h.textService.UnmarkDone(c.Request.Context(), claims, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type publishRequest struct {
	Publish bool `json:"publish"`
}

func (h HandlerSet) SetTextPublishStatus(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := textIDParam(c)
	if !ok {
		return
	}

	var req publishRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.textService.SetPublishStatus(c.Request.Context(), claims, id, req.Publish); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) ListOwnTexts(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	texts, err := h.textService.ListByAuthor(c.Request.Context(), claims.Subject)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]textResponse, 0, len(texts))
	for _, text := range texts {
		out = append(out, toTextResponse(text))
	}
	c.JSON(http.StatusOK, gin.H{"texts": out})
}

func (h HandlerSet) ListPublishedTexts(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	texts, err := h.textService.ListPublished(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]textResponse, 0, len(texts))
	for _, text := range texts {
		out = append(out, toTextResponse(text))
	}
	c.JSON(http.StatusOK, gin.H{"texts": out})
}

// GetText serves one text with its rendered HTML body. Unpublished texts
// are only visible to the author or a publisher.
func (h HandlerSet) GetText(c *gin.Context) {
	id, ok := textIDParam(c)
	if !ok {
		return
	}

	text, err := h.textService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if !text.IsPublished {
		claims, ok := middleware.ClaimsFrom(c)
		if !ok || (text.Author != claims.Subject && !claims.Admin) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such text"})
			return
		}
	}

	rendered := h.textService.RenderBody(c.Request.Context(), text)
	c.JSON(http.StatusOK, gin.H{
		"text": toTextResponse(text),
		"html": rendered,
	})
}
