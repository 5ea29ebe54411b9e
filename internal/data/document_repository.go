package data

import (
	"context"

	"benefitsportal/internal/models"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

// DocumentFilter narrows a document listing
type DocumentFilter struct {
	// PublicOnly hides non-public documents (role=user callers)
	PublicOnly bool
	Category   string
}

// DocumentRepositoryInterface defines the document repository operations
type DocumentRepositoryInterface interface {
	GetByID(ctx context.Context, id, companyID uuid.UUID) (*models.Document, error)
	List(ctx context.Context, companyID uuid.UUID, filter DocumentFilter) ([]*models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, doc *models.Document) error
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id, companyID uuid.UUID) error
}

// DocumentRepository handles database operations for documents
type DocumentRepository struct {
	db *pg.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pg.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// GetByID retrieves a document scoped to a company
func (r *DocumentRepository) GetByID(ctx context.Context, id, companyID uuid.UUID) (*models.Document, error) {
	doc := new(models.Document)
	err := r.db.ModelContext(ctx, doc).
		Where("id = ? AND company_id = ?", id, companyID).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// List retrieves documents for a company, newest first
func (r *DocumentRepository) List(ctx context.Context, companyID uuid.UUID, filter DocumentFilter) ([]*models.Document, error) {
	var docs []*models.Document
	q := r.db.ModelContext(ctx, &docs).
		Where("company_id = ?", companyID)
	if filter.PublicOnly {
		q = q.Where("is_public = TRUE")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	err := q.Order("uploaded_at DESC").Select()
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Create inserts a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	_, err := r.db.ModelContext(ctx, doc).Insert()
	return err
}

// Update updates a document's metadata fields
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	res, err := r.db.ModelContext(ctx, doc).
		WherePK().
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateContent replaces a document's extracted/summarized content
func (r *DocumentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	res, err := r.db.ModelContext(ctx, (*models.Document)(nil)).
		Set("content = ?", content).
		Where("id = ?", id).
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document row scoped to a company
func (r *DocumentRepository) Delete(ctx context.Context, id, companyID uuid.UUID) error {
	res, err := r.db.ModelContext(ctx, (*models.Document)(nil)).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
