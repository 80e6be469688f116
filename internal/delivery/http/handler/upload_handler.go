package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qingping857/Blind-date-platform/internal/infrastructure/storage"
)

type UploadHandler struct {
	storage storage.PhotoStorage
}

func NewUploadHandler(photoStorage storage.PhotoStorage) *UploadHandler {
	return &UploadHandler{storage: photoStorage}
}

// Upload handles POST /upload; accepts one photo under the "photo" key and
// returns its URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		BadRequest(c, "photo file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		Fail(c, err)
		return
	}
	defer file.Close()

	url, err := h.storage.SavePhoto(c.Request.Context(), header.Filename, file)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	OK(c, gin.H{"url": url})
}
