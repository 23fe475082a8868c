package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/middleware"
	"inkwell/api/internal/models"
	"inkwell/api/internal/service"
)

type imageResponse struct {
	ID          string   `json:"id"`
	Author      string   `json:"author"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
}

func toImageResponse(image models.Image) imageResponse {
	return imageResponse{
		ID:          image.ID,
		Author:      image.Author,
		Description: image.Description,
		Tags:        image.Tags,
		URL:         "/dynamic-data/images/m/" + image.ID + ".webp",
	}
}

func (h HandlerSet) UploadImage(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var description *string
	if value := c.PostForm("description"); value != "" {
		description = &value
	}

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		tags = strings.Split(raw, ";")
	}

	image, err := h.imageService.Upload(c.Request.Context(), claims, service.UploadImageInput{
		Data:        data,
		Description: description,
		Tags:        tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": toImageResponse(image)})
}

func (h HandlerSet) DeleteImage(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) GetImage(c *gin.Context) {
	if tag := c.Query("tag"); tag != "" && c.Param("id") == "by-tag" {
		images, err := h.imageService.ListByTag(c.Request.Context(), tag)
		if err != nil {
			respondError(c, err)
			return
		}
		out := make([]imageResponse, 0, len(images))
		for _, image := range images {
			out = append(out, toImageResponse(image))
		}
		c.JSON(http.StatusOK, gin.H{"images": out})
		return
	}

	image, err := h.imageService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": toImageResponse(image)})
}
