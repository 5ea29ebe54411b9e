package services

import (
	"context"
	"errors"
	"strings"

	"benefitsportal/internal/data"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
)

// SettingsInput carries the writable branding and prompt fields
type SettingsInput struct {
	PrimaryColor            *string `json:"primaryColor"`
	SecondaryColor          *string `json:"secondaryColor"`
	LogoURL                 *string `json:"logoUrl"`
	AssistantName           *string `json:"assistantName"`
	SurveyGenerationPrompt  *string `json:"surveyGenerationPrompt"`
	WebsiteGenerationPrompt *string `json:"websiteGenerationPrompt"`
}

// SettingsService manages per-company branding and assistant configuration
type SettingsService struct {
	settings data.SettingsRepositoryInterface
	logger   *observability.Logger
}

// NewSettingsService creates the settings service
func NewSettingsService(settings data.SettingsRepositoryInterface, logger *observability.Logger) *SettingsService {
	return &SettingsService{settings: settings, logger: logger}
}

// Get returns the company's settings, creating the default row on first
// read for companies provisioned before settings existed
func (s *SettingsService) Get(ctx context.Context, companyID uuid.UUID) (*models.CompanySettings, error) {
	settings, err := s.settings.GetByCompany(ctx, companyID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, data.ErrNotFound) {
		return nil, err
	}

	settings = &models.CompanySettings{CompanyID: companyID}
	if err := s.settings.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Update applies the provided fields, leaving absent ones untouched
func (s *SettingsService) Update(ctx context.Context, companyID uuid.UUID, input SettingsInput) (*models.CompanySettings, error) {
	settings, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if input.PrimaryColor != nil {
		settings.PrimaryColor = strings.TrimSpace(*input.PrimaryColor)
	}
	if input.SecondaryColor != nil {
		settings.SecondaryColor = strings.TrimSpace(*input.SecondaryColor)
	}
	if input.LogoURL != nil {
		settings.LogoURL = strings.TrimSpace(*input.LogoURL)
	}
	if input.AssistantName != nil {
		settings.AssistantName = strings.TrimSpace(*input.AssistantName)
	}
	if input.SurveyGenerationPrompt != nil {
		settings.SurveyGenerationPrompt = *input.SurveyGenerationPrompt
	}
	if input.WebsiteGenerationPrompt != nil {
		settings.WebsiteGenerationPrompt = *input.WebsiteGenerationPrompt
	}

	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
