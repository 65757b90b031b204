package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zaffira/internal/services"
)

// UploadImage stores the multipart "image" field and returns its url.
func UploadImage(images *services.ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/uploads"

		file, err := c.FormFile("image")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid multipart body"})
			return
		}

		url, err := images.Upload(c.Request.Context(), file)
		if err != nil {
			respondError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}
