// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/tapecar-backend/internal/domain/upload"
)

// UploadHandler handles the admin image upload side channel
type UploadHandler struct {
	uploadService *upload.Service
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *upload.Service) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadImage handles POST /admin/uploads. The returned URL is what
// the admin editor attaches to a product's image list.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No image file provided",
		})
		return
	}
	defer file.Close()

	hosted, err := h.uploadService.UploadImage(c.Request.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "File exceeds the maximum allowed size",
			})
		case errors.Is(err, upload.ErrUnsupportedType):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{
				"error": "File type is not allowed",
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Failed to upload image",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully",
		"data":    hosted,
	})
}
