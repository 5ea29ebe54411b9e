package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"benefitsportal/internal/data"
	"benefitsportal/internal/jobs"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"
	"benefitsportal/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Summarizer produces a plain-language summary for document text
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// DocumentMeta carries the shared metadata for an upload batch
type DocumentMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsPublic    bool   `json:"isPublic"`
}

// IngestResult reports the outcome for one file in an upload batch
type IngestResult struct {
	FileName string           `json:"fileName"`
	Document *models.Document `json:"document,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// DocumentService stores uploaded benefits documents and their extracted
// content
type DocumentService struct {
	documents   data.DocumentRepositoryInterface
	store       storage.Store
	queue       jobs.Queue
	summarizer  Summarizer
	logger      *observability.Logger
	metrics     *observability.Metrics
	maxFileSize int64
}

// NewDocumentService creates the document service
func NewDocumentService(documents data.DocumentRepositoryInterface, store storage.Store, queue jobs.Queue, summarizer Summarizer, logger *observability.Logger, metrics *observability.Metrics, maxFileSize int64) *DocumentService {
	return &DocumentService{
		documents:   documents,
		store:       store,
		queue:       queue,
		summarizer:  summarizer,
		logger:      logger,
		metrics:     metrics,
		maxFileSize: maxFileSize,
	}
}

// List returns the company's documents, newest first
func (s *DocumentService) List(ctx context.Context, companyID uuid.UUID, filter data.DocumentFilter) ([]*models.Document, error) {
	return s.documents.List(ctx, companyID, filter)
}

// Get returns one document
func (s *DocumentService) Get(ctx context.Context, companyID, id uuid.UUID) (*models.Document, error) {
	return s.documents.GetByID(ctx, id, companyID)
}

// Ingest stores an upload batch. Each file succeeds or fails independently:
// one unreadable file never discards the rest of the batch. Readable text is
// summarized inline, anything else gets placeholder content and a deferred
// extraction job.
func (s *DocumentService) Ingest(ctx context.Context, companyID, uploaderID uuid.UUID, files []*multipart.FileHeader, meta DocumentMeta) []IngestResult {
	results := make([]IngestResult, 0, len(files))
	titles := make(map[string]int)

	for _, header := range files {
		doc, err := s.ingestOne(ctx, companyID, uploaderID, header, meta, titles)
		result := IngestResult{FileName: header.Filename}
		if err != nil {
			result.Error = err.Error()
			s.metrics.RecordDocumentIngested("failed")
			s.logger.Warn("document ingestion failed",
				zap.String("file", header.Filename),
				zap.String("company_id", companyID.String()),
				zap.Error(err))
		} else {
			result.Document = doc
			s.metrics.RecordDocumentIngested("stored")
		}
		results = append(results, result)
	}
	return results
}

func (s *DocumentService) ingestOne(ctx context.Context, companyID, uploaderID uuid.UUID, header *multipart.FileHeader, meta DocumentMeta, titles map[string]int) (*models.Document, error) {
	if s.maxFileSize > 0 && header.Size > s.maxFileSize {
		return nil, ErrFileTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("could not read upload: %w", err)
	}
	defer f.Close()

	storedName, err := s.store.Save(header.Filename, f)
	if err != nil {
		return nil, fmt.Errorf("could not store file: %w", err)
	}

	doc := &models.Document{
		CompanyID:    companyID,
		FileName:     storedName,
		OriginalName: header.Filename,
		MimeType:     contentType(header),
		Size:         header.Size,
		Title:        disambiguateTitle(titleFor(meta, header.Filename), titles),
		Description:  meta.Description,
		Category:     meta.Category,
		IsPublic:     meta.IsPublic,
		UploadedBy:   uploaderID,
	}

	if isReadableText(doc.MimeType) {
		content, err := s.readStoredText(storedName)
		if err == nil {
			summary := s.summarizer.Summarize(ctx, content)
			doc.Content = &summary
		}
	}
	if doc.Content == nil {
		placeholder := models.PlaceholderContentPrefix + doc.OriginalName
		doc.Content = &placeholder
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		// the row is the source of truth, so drop the orphan file
		if rmErr := s.store.Remove(storedName); rmErr != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("stored_name", storedName), zap.Error(rmErr))
		}
		return nil, err
	}

	if !doc.HasUsableContent() {
		s.enqueueExtraction(ctx, doc)
	}
	return doc, nil
}

// UpdateMeta modifies a document's metadata without touching the file
func (s *DocumentService) UpdateMeta(ctx context.Context, companyID, id uuid.UUID, meta DocumentMeta) (*models.Document, error) {
	doc, err := s.documents.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(meta.Title); title != "" {
		doc.Title = title
	}
	doc.Description = meta.Description
	doc.Category = meta.Category
	doc.IsPublic = meta.IsPublic

	if err := s.documents.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the row first, then the stored file best-effort. A missing
// file is logged and otherwise ignored.
func (s *DocumentService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	doc, err := s.documents.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, id, companyID); err != nil {
		return err
	}

	if err := s.store.Remove(doc.FileName); err != nil {
		s.logger.Warn("failed to remove stored file",
			zap.String("document_id", id.String()),
			zap.String("stored_name", doc.FileName),
			zap.Error(err))
	}
	return nil
}

// Open returns the stored file stream for download
func (s *DocumentService) Open(ctx context.Context, companyID, id uuid.UUID) (*models.Document, io.ReadCloser, error) {
	doc, err := s.documents.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.store.Open(doc.FileName)
	if err != nil {
		return nil, nil, fmt.Errorf("stored file unavailable: %w", err)
	}
	return doc, r, nil
}

// GroundingContent returns the usable document content for chat grounding,
// skipping documents still awaiting extraction
func (s *DocumentService) GroundingContent(ctx context.Context, companyID uuid.UUID) ([]*models.Document, error) {
	docs, err := s.documents.List(ctx, companyID, data.DocumentFilter{})
	if err != nil {
		return nil, err
	}

	usable := docs[:0]
	for _, doc := range docs {
		if doc.HasUsableContent() {
			usable = append(usable, doc)
		}
	}
	return usable, nil
}

// RefreshPendingContent makes a best-effort synchronous extraction pass over
// documents still carrying placeholder content, for callers that need real
// text before the background job has run. Failures are logged and skipped.
func (s *DocumentService) RefreshPendingContent(ctx context.Context, companyID uuid.UUID) error {
	docs, err := s.documents.List(ctx, companyID, data.DocumentFilter{})
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if doc.HasUsableContent() {
			continue
		}
		content, err := s.readStoredText(doc.FileName)
		if err != nil {
			s.logger.Warn("content still pending for document",
				zap.String("document_id", doc.ID.String()),
				zap.Error(err))
			continue
		}
		summary := s.summarizer.Summarize(ctx, content)
		if err := s.documents.UpdateContent(ctx, doc.ID, summary); err != nil {
			s.logger.Error("failed to update extracted content", err,
				zap.String("document_id", doc.ID.String()))
		}
	}
	return nil
}

// ExtractHandler returns the worker handler that resolves placeholder
// content after upload
func (s *DocumentService) ExtractHandler() jobs.Handler {
	return func(ctx context.Context, job *jobs.Job) error {
		var payload jobs.DocumentExtractPayload
		if err := unmarshalPayload(job, &payload); err != nil {
			return err
		}

		content, err := s.readStoredText(payload.StoredName)
		if err != nil {
			return fmt.Errorf("extraction failed for document %s: %w", payload.DocumentID, err)
		}

		summary := s.summarizer.Summarize(ctx, content)
		return s.documents.UpdateContent(ctx, payload.DocumentID, summary)
	}
}

func (s *DocumentService) enqueueExtraction(ctx context.Context, doc *models.Document) {
	job, err := jobs.NewDocumentExtractJob(jobs.DocumentExtractPayload{
		DocumentID: doc.ID,
		CompanyID:  doc.CompanyID,
		StoredName: doc.FileName,
		MimeType:   doc.MimeType,
	})
	if err != nil {
		s.logger.Error("failed to build extraction job", err)
		return
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("failed to enqueue extraction job", err,
			zap.String("document_id", doc.ID.String()))
	}
}

func (s *DocumentService) readStoredText(storedName string) (string, error) {
	r, err := s.store.Open(storedName)
	if err != nil {
		return "", err
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("file has no readable text")
	}
	return text, nil
}

func titleFor(meta DocumentMeta, filename string) string {
	if title := strings.TrimSpace(meta.Title); title != "" {
		return title
	}
	return filename
}

// disambiguateTitle appends " (2)", " (3)" per repeated title in a batch
func disambiguateTitle(title string, seen map[string]int) string {
	seen[title]++
	if seen[title] == 1 {
		return title
	}
	return fmt.Sprintf("%s (%d)", title, seen[title])
}

func contentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func isReadableText(mimeType string) bool {
	mt := strings.ToLower(mimeType)
	return strings.HasPrefix(mt, "text/") ||
		strings.Contains(mt, "json") ||
		strings.Contains(mt, "csv") ||
		strings.Contains(mt, "markdown")
}

func unmarshalPayload(job *jobs.Job, v interface{}) error {
	if err := jobs.DecodePayload(job, v); err != nil {
		return fmt.Errorf("invalid job payload: %w", err)
	}
	return nil
}
