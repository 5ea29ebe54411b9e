package api

import (
	"net/http"
	"strconv"

	"benefitsportal/internal/data"
	"benefitsportal/internal/middleware"
	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
)

// DocumentHandlers serves document upload, listing and download
type DocumentHandlers struct {
	documents *services.DocumentService
	sanitizer *middleware.Sanitizer
}

// NewDocumentHandlers creates the document handlers
func NewDocumentHandlers(documents *services.DocumentService, sanitizer *middleware.Sanitizer) *DocumentHandlers {
	return &DocumentHandlers{documents: documents, sanitizer: sanitizer}
}

// List handles GET /api/documents. Employees only see public documents.
func (h *DocumentHandlers) List(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	session := middleware.SessionFrom(c)

	filter := data.DocumentFilter{Category: c.Query("category")}
	if session == nil || !session.IsAdmin() {
		filter.PublicOnly = true
	}

	docs, err := h.documents.List(c.Request.Context(), companyID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Get handles GET /api/documents/:id
func (h *DocumentHandlers) Get(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := h.documents.Get(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	session := middleware.SessionFrom(c)
	if !doc.IsPublic && (session == nil || !session.IsAdmin()) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Upload handles POST /api/documents, a multipart batch. Files succeed or
// fail independently and the response reports both.
func (h *DocumentHandlers) Upload(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	session := middleware.SessionFrom(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid multipart payload"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No files provided"})
		return
	}

	meta := services.DocumentMeta{
		Title:       h.sanitizer.Clean(c.PostForm("title")),
		Description: h.sanitizer.Clean(c.PostForm("description")),
		Category:    h.sanitizer.Clean(c.PostForm("category")),
		IsPublic:    parseBool(c.PostForm("isPublic")),
	}

	results := h.documents.Ingest(c.Request.Context(), companyID, session.UserID, files, meta)

	status := http.StatusCreated
	allFailed := true
	for _, r := range results {
		if r.Error == "" {
			allFailed = false
			break
		}
	}
	if allFailed {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"results": results})
}

// Update handles PATCH /api/documents/:id
func (h *DocumentHandlers) Update(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var meta services.DocumentMeta
	if err := c.ShouldBindJSON(&meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid document payload"})
		return
	}
	meta.Title = h.sanitizer.Clean(meta.Title)
	meta.Description = h.sanitizer.Clean(meta.Description)
	meta.Category = h.sanitizer.Clean(meta.Category)

	doc, err := h.documents.UpdateMeta(c.Request.Context(), companyID, id, meta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /api/documents/:id
func (h *DocumentHandlers) Delete(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.documents.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// Download handles GET /api/documents/:id/download
func (h *DocumentHandlers) Download(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, r, err := h.documents.Open(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer r.Close()

	session := middleware.SessionFrom(c)
	if !doc.IsPublic && (session == nil || !session.IsAdmin()) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.OriginalName+`"`)
	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, r, nil)
}

func parseBool(raw string) bool {
	b, _ := strconv.ParseBool(raw)
	return b
}
