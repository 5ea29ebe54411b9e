package models

import (
	"time"

	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
)

// CompanyStatus represents the status of a company
type CompanyStatus string

// Company statuses
const (
	CompanyStatusActive    CompanyStatus = "active"
	CompanyStatusInactive  CompanyStatus = "inactive"
	CompanyStatusSuspended CompanyStatus = "suspended"
)

// Company represents a tenant organization; every other row is partitioned by its ID
type Company struct {
	ID        uuid.UUID     `pg:"id,type:uuid,pk"`
	Name      string        `pg:"name,notnull"`
	Slug      string        `pg:"slug,unique,notnull"`
	Domain    string        `pg:"domain"`
	Address   string        `pg:"address"`
	Status    CompanyStatus `pg:"status,type:text,notnull,default:'active'"`
	CreatedAt time.Time     `pg:"created_at,notnull,default:now()"`
	UpdatedAt time.Time     `pg:"updated_at,notnull,default:now()"`

	// Relations
	Settings *CompanySettings `pg:"rel:has-one,fk:id,join_fk:company_id"`
	Users    []*User          `pg:"rel:has-many,join_fk:company_id"`
}

// BeforeInsert hook is called before inserting a new company
func (c *Company) BeforeInsert(_ orm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CompanyStatusActive
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook is called before updating a company
func (c *Company) BeforeUpdate(_ orm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}

// TableName returns the name of the table for this model
func (c *Company) TableName() string {
	return "companies"
}

// IsActive returns whether the company is active
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}

// CompanySettings holds per-company branding and AI prompt settings.
// Created lazily on the first settings update if absent.
type CompanySettings struct {
	ID                      uuid.UUID `pg:"id,type:uuid,pk"`
	CompanyID               uuid.UUID `pg:"company_id,type:uuid,unique,notnull"`
	BrandName               string    `pg:"brand_name"`
	PrimaryColor            string    `pg:"primary_color"`
	SecondaryColor          string    `pg:"secondary_color"`
	LogoURL                 string    `pg:"logo_url"`
	AssistantName           string    `pg:"assistant_name,notnull,default:'Benefits Assistant'"`
	SurveyGenerationPrompt  string    `pg:"survey_generation_prompt"`
	WebsiteGenerationPrompt string    `pg:"website_generation_prompt"`
	CreatedAt               time.Time `pg:"created_at,notnull,default:now()"`
	UpdatedAt               time.Time `pg:"updated_at,notnull,default:now()"`

	Company *Company `pg:"rel:has-one,fk:company_id"`
}

// BeforeInsert hook is called before inserting new settings
func (s *CompanySettings) BeforeInsert(_ orm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.AssistantName == "" {
		s.AssistantName = "Benefits Assistant"
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook is called before updating settings
func (s *CompanySettings) BeforeUpdate(_ orm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}

// TableName returns the name of the table for this model
func (s *CompanySettings) TableName() string {
	return "company_settings"
}
