package webserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janmitra/civic-complaints/src/api/storage"
)

const maxPhotoBytes = 5 << 20

type Uploads struct {
	photos *storage.PhotoStore
}

func NewUploads(photos *storage.PhotoStore) Uploads {
	return Uploads{photos: photos}
}

// Create stores a complaint photo and returns its public URL. Clients treat
// a failure here as non-fatal: the complaint is submitted without a photo.
func (h Uploads) Create(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "multipart field 'photo' is required"})
		return
	}
	if file.Size > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"err": "photo larger than 5MB"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	defer f.Close()
	blob, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	url, err := h.photos.Save(citizenID(c), blob, file.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
