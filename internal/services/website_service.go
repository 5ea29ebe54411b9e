package services

import (
	"context"
	"strings"

	"benefitsportal/internal/observability"
	"benefitsportal/internal/services/assistant"

	"github.com/google/uuid"
)

// CopyGenerator produces structured website copy
type CopyGenerator interface {
	GenerateWebsiteCopy(ctx context.Context, instructions, sourceText string) (*assistant.WebsiteCopy, error)
}

// WebsiteService generates benefits site copy from the company's configured
// prompt and its document content
type WebsiteService struct {
	settings  *SettingsService
	documents *DocumentService
	generator CopyGenerator
	logger    *observability.Logger
}

// NewWebsiteService creates the website content service
func NewWebsiteService(settings *SettingsService, documents *DocumentService, generator CopyGenerator, logger *observability.Logger) *WebsiteService {
	return &WebsiteService{
		settings:  settings,
		documents: documents,
		generator: generator,
		logger:    logger,
	}
}

// Generate produces website copy. Explicit instructions win over the
// company's stored prompt.
func (s *WebsiteService) Generate(ctx context.Context, companyID uuid.UUID, instructions string) (*assistant.WebsiteCopy, error) {
	if strings.TrimSpace(instructions) == "" {
		if settings, err := s.settings.Get(ctx, companyID); err == nil {
			instructions = settings.WebsiteGenerationPrompt
		}
	}

	var source strings.Builder
	docs, err := s.documents.GroundingContent(ctx, companyID)
	if err == nil {
		for _, doc := range docs {
			source.WriteString(doc.Title)
			source.WriteString("\n")
			source.WriteString(*doc.Content)
			source.WriteString("\n\n")
		}
	}

	return s.generator.GenerateWebsiteCopy(ctx, instructions, source.String())
}
