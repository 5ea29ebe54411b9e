package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
)

// maxImageDimension bounds requested output sizes
const maxImageDimension = 4096

// ImageHandlers serves the logo and branding image utility
type ImageHandlers struct{}

// NewImageHandlers creates the image handlers
func NewImageHandlers() *ImageHandlers {
	return &ImageHandlers{}
}

// Resize handles POST /api/resize-image: a multipart image plus width and
// height fields. Zero for one dimension preserves the aspect ratio.
func (h *ImageHandlers) Resize(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "An image file is required"})
		return
	}

	width, _ := strconv.Atoi(c.PostForm("width"))
	height, _ := strconv.Atoi(c.PostForm("height"))
	if width <= 0 && height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A positive width or height is required"})
		return
	}
	if width > maxImageDimension || height > maxImageDimension {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Requested size is too large"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not read image"})
		return
	}
	defer f.Close()

	src, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported image format"})
		return
	}

	resized := imaging.Resize(src, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Image encoding failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
