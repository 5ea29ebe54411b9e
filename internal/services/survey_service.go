package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"benefitsportal/internal/data"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"
	"benefitsportal/internal/services/assistant"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuestionGenerator produces survey question drafts from source material
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, instructions, sourceText string) ([]assistant.QuestionDraft, error)
}

// TemplateInput carries the writable template fields
type TemplateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// QuestionInput carries the writable question fields. Options accepts
// either a list or the newline-delimited textarea form.
type QuestionInput struct {
	QuestionText    string   `json:"questionText"`
	QuestionType    string   `json:"questionType"`
	Options         []string `json:"options"`
	OptionsTextarea string   `json:"optionsText"`
	Required        bool     `json:"required"`
	Order           int      `json:"order"`
	Active          *bool    `json:"active"`
}

// ResponseInput is one survey submission
type ResponseInput struct {
	TemplateID uuid.UUID                       `json:"templateId"`
	Answers    map[uuid.UUID]models.AnswerValue `json:"answers"`
}

// QuickSetupInput drives the one-call AI survey bootstrap
type QuickSetupInput struct {
	Instructions    string `json:"instructions"`
	SourceText      string `json:"sourceText"`
	CreateTemplates bool   `json:"createTemplates"`
}

// QuickSetupResult reports what the bootstrap created
type QuickSetupResult struct {
	Questions []*models.SurveyQuestion `json:"questions"`
	Templates []*models.SurveyTemplate `json:"templates"`
}

// ResponseTally summarizes submissions per template
type ResponseTally struct {
	TemplateID uuid.UUID `json:"templateId"`
	Title      string    `json:"title"`
	Count      int       `json:"count"`
}

// SurveyService manages templates, questions, their links and responses
type SurveyService struct {
	surveys   data.SurveyRepositoryInterface
	generator QuestionGenerator
	logger    *observability.Logger
	metrics   *observability.Metrics

	// allowMultipleResponses lets one user submit a template repeatedly
	allowMultipleResponses bool
}

// NewSurveyService creates the survey service
func NewSurveyService(surveys data.SurveyRepositoryInterface, generator QuestionGenerator, logger *observability.Logger, metrics *observability.Metrics, allowMultipleResponses bool) *SurveyService {
	return &SurveyService{
		surveys:                surveys,
		generator:              generator,
		logger:                 logger,
		metrics:                metrics,
		allowMultipleResponses: allowMultipleResponses,
	}
}

// ListTemplates returns templates. Employees see published ones only.
func (s *SurveyService) ListTemplates(ctx context.Context, companyID uuid.UUID, publishedOnly bool) ([]*models.SurveyTemplate, error) {
	return s.surveys.ListTemplates(ctx, companyID, publishedOnly)
}

// GetTemplate returns one template
func (s *SurveyService) GetTemplate(ctx context.Context, companyID, id uuid.UUID) (*models.SurveyTemplate, error) {
	return s.surveys.GetTemplate(ctx, id, companyID)
}

// CreateTemplate adds a draft template
func (s *SurveyService) CreateTemplate(ctx context.Context, companyID uuid.UUID, input TemplateInput) (*models.SurveyTemplate, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: template title is required", ErrValidation)
	}

	template := &models.SurveyTemplate{
		CompanyID:   companyID,
		Title:       title,
		Description: input.Description,
		Status:      models.TemplateStatusDraft,
	}
	if err := s.surveys.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// UpdateTemplate modifies title, description and non-publish status moves
func (s *SurveyService) UpdateTemplate(ctx context.Context, companyID, id uuid.UUID, input TemplateInput) (*models.SurveyTemplate, error) {
	template, err := s.surveys.GetTemplate(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		template.Title = title
	}
	template.Description = input.Description

	if input.Status != "" {
		status := models.TemplateStatus(input.Status)
		switch status {
		case models.TemplateStatusDraft, models.TemplateStatusActive, models.TemplateStatusArchived:
		default:
			return nil, fmt.Errorf("%w: unknown template status %q", ErrValidation, input.Status)
		}
		// publishing happens through Publish, never by a status write
		if status == models.TemplateStatusDraft && template.IsPublished() {
			return nil, fmt.Errorf("%w: a published template cannot return to draft", ErrValidation)
		}
		template.Status = status
	}

	if err := s.surveys.UpdateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// PublishTemplate makes a template visible to employees. The transition is
// one-way and idempotent: PublishedAt is stamped once and republishing an
// already published template changes nothing.
func (s *SurveyService) PublishTemplate(ctx context.Context, companyID, id uuid.UUID) (*models.SurveyTemplate, error) {
	template, err := s.surveys.GetTemplate(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	if template.IsPublished() {
		return template, nil
	}

	now := time.Now()
	if template.PublishedAt == nil {
		template.PublishedAt = &now
	}
	template.Status = models.TemplateStatusActive

	if err := s.surveys.UpdateTemplate(ctx, template); err != nil {
		return nil, err
	}
	s.logger.Info("survey template published",
		zap.String("template_id", template.ID.String()),
		zap.String("company_id", companyID.String()))
	return template, nil
}

// DeleteTemplate removes a template and its question links
func (s *SurveyService) DeleteTemplate(ctx context.Context, companyID, id uuid.UUID) error {
	return s.surveys.DeleteTemplate(ctx, id, companyID)
}

// ListQuestions returns the company's question bank
func (s *SurveyService) ListQuestions(ctx context.Context, companyID uuid.UUID) ([]*models.SurveyQuestion, error) {
	return s.surveys.ListQuestions(ctx, companyID)
}

// CreateQuestion adds a question to the bank
func (s *SurveyService) CreateQuestion(ctx context.Context, companyID uuid.UUID, input QuestionInput) (*models.SurveyQuestion, error) {
	question, err := buildQuestion(companyID, input)
	if err != nil {
		return nil, err
	}
	if err := s.surveys.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion modifies a question in the bank
func (s *SurveyService) UpdateQuestion(ctx context.Context, companyID, id uuid.UUID, input QuestionInput) (*models.SurveyQuestion, error) {
	question, err := s.surveys.GetQuestion(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	updated, err := buildQuestion(companyID, input)
	if err != nil {
		return nil, err
	}

	question.QuestionText = updated.QuestionText
	question.QuestionType = updated.QuestionType
	question.Options = updated.Options
	question.Required = updated.Required
	question.Order = updated.Order
	if input.Active != nil {
		question.Active = *input.Active
	}

	if err := s.surveys.UpdateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a question and its template links
func (s *SurveyService) DeleteQuestion(ctx context.Context, companyID, id uuid.UUID) error {
	return s.surveys.DeleteQuestion(ctx, id, companyID)
}

// AssignQuestion links a question to a template at the given position.
// Re-assigning an existing pair only moves it.
func (s *SurveyService) AssignQuestion(ctx context.Context, companyID, templateID, questionID uuid.UUID, order int) error {
	if _, err := s.surveys.GetTemplate(ctx, templateID, companyID); err != nil {
		return err
	}
	if _, err := s.surveys.GetQuestion(ctx, questionID, companyID); err != nil {
		return err
	}
	return s.surveys.AddQuestionToTemplate(ctx, &models.TemplateQuestion{
		TemplateID: templateID,
		QuestionID: questionID,
		Order:      order,
	})
}

// UnassignQuestion removes a question from a template
func (s *SurveyService) UnassignQuestion(ctx context.Context, companyID, templateID, questionID uuid.UUID) error {
	if _, err := s.surveys.GetTemplate(ctx, templateID, companyID); err != nil {
		return err
	}
	return s.surveys.RemoveQuestionFromTemplate(ctx, templateID, questionID)
}

// TemplateQuestions returns a template's questions in template order
func (s *SurveyService) TemplateQuestions(ctx context.Context, companyID, templateID uuid.UUID) ([]*models.SurveyQuestion, error) {
	if _, err := s.surveys.GetTemplate(ctx, templateID, companyID); err != nil {
		return nil, err
	}
	return s.surveys.ListQuestionsForTemplate(ctx, templateID)
}

// SubmitResponse validates and records one survey submission. Every
// required question must carry a non-empty answer or nothing is written.
func (s *SurveyService) SubmitResponse(ctx context.Context, companyID, userID uuid.UUID, input ResponseInput) (*models.SurveyResponse, error) {
	template, err := s.surveys.GetTemplate(ctx, input.TemplateID, companyID)
	if err != nil {
		return nil, err
	}
	if !template.IsPublished() {
		return nil, fmt.Errorf("%w: survey is not open for responses", ErrValidation)
	}

	if !s.allowMultipleResponses {
		submitted, err := s.surveys.HasResponse(ctx, userID, template.ID)
		if err != nil {
			return nil, err
		}
		if submitted {
			return nil, fmt.Errorf("%w: you have already responded to this survey", ErrAlreadyDone)
		}
	}

	questions, err := s.surveys.ListQuestionsForTemplate(ctx, template.ID)
	if err != nil {
		return nil, err
	}

	answers := make([]models.QuestionAnswer, 0, len(questions))
	var missing []string
	for _, q := range questions {
		// Deactivated questions drop out of the template's active set and
		// neither require nor record an answer.
		if !q.Active {
			continue
		}
		answer, ok := input.Answers[q.ID]
		if q.Required && (!ok || answer.IsEmpty()) {
			missing = append(missing, q.QuestionText)
			continue
		}
		answers = append(answers, models.QuestionAnswer{
			QuestionID:   q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Response:     answer,
		})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: required questions unanswered: %s",
			ErrValidation, strings.Join(missing, "; "))
	}

	response := &models.SurveyResponse{
		CompanyID:  companyID,
		UserID:     userID,
		TemplateID: template.ID,
		Responses:  answers,
	}
	if err := s.surveys.CreateResponse(ctx, response); err != nil {
		return nil, err
	}
	s.metrics.RecordSurveyResponse()
	return response, nil
}

// ListResponses returns submissions, optionally filtered to one template
func (s *SurveyService) ListResponses(ctx context.Context, companyID uuid.UUID, templateID *uuid.UUID) ([]*models.SurveyResponse, error) {
	return s.surveys.ListResponses(ctx, companyID, templateID)
}

// TallyResponses counts submissions per template
func (s *SurveyService) TallyResponses(ctx context.Context, companyID uuid.UUID) ([]ResponseTally, error) {
	templates, err := s.surveys.ListTemplates(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	responses, err := s.surveys.ListResponses(ctx, companyID, nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int)
	for _, r := range responses {
		counts[r.TemplateID]++
	}

	tallies := make([]ResponseTally, 0, len(templates))
	for _, t := range templates {
		tallies = append(tallies, ResponseTally{
			TemplateID: t.ID,
			Title:      t.Title,
			Count:      counts[t.ID],
		})
	}
	return tallies, nil
}

// GenerateQuestions runs AI question generation without persisting, for
// admin preview
func (s *SurveyService) GenerateQuestions(ctx context.Context, instructions, sourceText string) ([]assistant.QuestionDraft, error) {
	return s.generator.GenerateQuestions(ctx, instructions, sourceText)
}

// QuickSetup bootstraps a survey program in one call: generate questions
// from source material, persist them, and optionally create linked
// quarterly and annual templates. Everything lands in one transaction, so
// a mid-way failure leaves nothing behind.
func (s *SurveyService) QuickSetup(ctx context.Context, companyID uuid.UUID, input QuickSetupInput) (*QuickSetupResult, error) {
	drafts, err := s.generator.GenerateQuestions(ctx, input.Instructions, input.SourceText)
	if err != nil {
		return nil, err
	}

	questions := make([]*models.SurveyQuestion, 0, len(drafts))
	for i, draft := range drafts {
		questions = append(questions, &models.SurveyQuestion{
			ID:           uuid.New(),
			CompanyID:    companyID,
			QuestionText: draft.QuestionText,
			QuestionType: draft.QuestionType,
			Options:      draft.Options,
			Required:     draft.Required,
			Order:        i,
			Active:       true,
			CreatedByAI:  true,
		})
	}

	var templates []*models.SurveyTemplate
	var links []*models.TemplateQuestion
	if input.CreateTemplates {
		for _, title := range []string{"Quarterly Benefits Survey", "Annual Benefits Survey"} {
			template := &models.SurveyTemplate{
				ID:          uuid.New(),
				CompanyID:   companyID,
				Title:       title,
				Description: "Generated from your benefits documents",
				Status:      models.TemplateStatusDraft,
				CreatedByAI: true,
			}
			templates = append(templates, template)
			for i, q := range questions {
				links = append(links, &models.TemplateQuestion{
					TemplateID: template.ID,
					QuestionID: q.ID,
					Order:      i,
				})
			}
		}
	}

	if err := s.surveys.CreateGeneratedSurvey(ctx, questions, templates, links); err != nil {
		return nil, err
	}

	s.logger.Info("survey quick setup completed",
		zap.String("company_id", companyID.String()),
		zap.Int("questions", len(questions)),
		zap.Int("templates", len(templates)))
	return &QuickSetupResult{Questions: questions, Templates: templates}, nil
}

func buildQuestion(companyID uuid.UUID, input QuestionInput) (*models.SurveyQuestion, error) {
	text := strings.TrimSpace(input.QuestionText)
	if text == "" {
		return nil, fmt.Errorf("%w: question text is required", ErrValidation)
	}

	qtype := models.QuestionType(input.QuestionType)
	if input.QuestionType == "" {
		qtype = models.QuestionTypeText
	}
	if !models.ValidQuestionType(qtype) {
		return nil, fmt.Errorf("%w: unknown question type %q", ErrValidation, input.QuestionType)
	}

	options := models.OptionList(input.Options)
	if len(options) == 0 && input.OptionsTextarea != "" {
		options = models.ParseOptionList(input.OptionsTextarea)
	}
	if qtype.HasOptions() && len(options) == 0 {
		return nil, fmt.Errorf("%w: %s questions need at least one option", ErrValidation, qtype)
	}
	if !qtype.HasOptions() {
		options = nil
	}

	return &models.SurveyQuestion{
		CompanyID:    companyID,
		QuestionText: text,
		QuestionType: qtype,
		Options:      options,
		Required:     input.Required,
		Order:        input.Order,
		Active:       true,
	}, nil
}
