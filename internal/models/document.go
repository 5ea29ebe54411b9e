package models

import (
	"strings"
	"time"

	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
)

// PlaceholderContentPrefix marks document content that still awaits extraction.
// Consumers must treat placeholder content as "no usable context".
const PlaceholderContentPrefix = "Content extraction pending for "

// Document represents an uploaded benefits document
type Document struct {
	ID           uuid.UUID  `pg:"id,type:uuid,pk"`
	CompanyID    uuid.UUID  `pg:"company_id,type:uuid,notnull"`
	FileName     string     `pg:"file_name,notnull"` // randomized stored name
	OriginalName string     `pg:"original_name,notnull"`
	MimeType     string     `pg:"mime_type,notnull"`
	Size         int64      `pg:"size,notnull"`
	Content      *string    `pg:"content"` // extracted or summarized text, nil until processed
	Title        string     `pg:"title,notnull"`
	Description  string     `pg:"description"`
	Category     string     `pg:"category"`
	IsPublic     bool       `pg:"is_public,notnull,default:false"`
	UploadedBy   uuid.UUID  `pg:"uploaded_by,type:uuid,notnull"`
	UploadedAt   time.Time  `pg:"uploaded_at,notnull,default:now()"`

	Company  *Company `pg:"rel:has-one,fk:company_id"`
	Uploader *User    `pg:"rel:has-one,fk:uploaded_by"`
}

// BeforeInsert hook is called before inserting a new document
func (d *Document) BeforeInsert(_ orm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}
	return nil
}

// TableName returns the name of the table for this model
func (d *Document) TableName() string {
	return "documents"
}

// HasUsableContent reports whether the document carries real extracted text,
// as opposed to nil or a pending-extraction placeholder.
func (d *Document) HasUsableContent() bool {
	if d.Content == nil {
		return false
	}
	text := strings.TrimSpace(*d.Content)
	return text != "" && !strings.HasPrefix(text, PlaceholderContentPrefix)
}
