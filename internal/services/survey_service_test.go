package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"
	"benefitsportal/internal/services/assistant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockSurveyRepository mocks data.SurveyRepositoryInterface
type MockSurveyRepository struct {
	mock.Mock
}

func (m *MockSurveyRepository) GetTemplate(ctx context.Context, id, companyID uuid.UUID) (*models.SurveyTemplate, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SurveyTemplate), args.Error(1)
}

func (m *MockSurveyRepository) ListTemplates(ctx context.Context, companyID uuid.UUID, publishedOnly bool) ([]*models.SurveyTemplate, error) {
	args := m.Called(ctx, companyID, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SurveyTemplate), args.Error(1)
}

func (m *MockSurveyRepository) CreateTemplate(ctx context.Context, template *models.SurveyTemplate) error {
	return m.Called(ctx, template).Error(0)
}

func (m *MockSurveyRepository) UpdateTemplate(ctx context.Context, template *models.SurveyTemplate) error {
	return m.Called(ctx, template).Error(0)
}

func (m *MockSurveyRepository) DeleteTemplate(ctx context.Context, id, companyID uuid.UUID) error {
	return m.Called(ctx, id, companyID).Error(0)
}

func (m *MockSurveyRepository) GetQuestion(ctx context.Context, id, companyID uuid.UUID) (*models.SurveyQuestion, error) {
	args := m.Called(ctx, id, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SurveyQuestion), args.Error(1)
}

func (m *MockSurveyRepository) ListQuestions(ctx context.Context, companyID uuid.UUID) ([]*models.SurveyQuestion, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SurveyQuestion), args.Error(1)
}

func (m *MockSurveyRepository) CreateQuestion(ctx context.Context, question *models.SurveyQuestion) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockSurveyRepository) UpdateQuestion(ctx context.Context, question *models.SurveyQuestion) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockSurveyRepository) DeleteQuestion(ctx context.Context, id, companyID uuid.UUID) error {
	return m.Called(ctx, id, companyID).Error(0)
}

func (m *MockSurveyRepository) AddQuestionToTemplate(ctx context.Context, link *models.TemplateQuestion) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockSurveyRepository) RemoveQuestionFromTemplate(ctx context.Context, templateID, questionID uuid.UUID) error {
	return m.Called(ctx, templateID, questionID).Error(0)
}

func (m *MockSurveyRepository) ListQuestionsForTemplate(ctx context.Context, templateID uuid.UUID) ([]*models.SurveyQuestion, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SurveyQuestion), args.Error(1)
}

func (m *MockSurveyRepository) CreateResponse(ctx context.Context, response *models.SurveyResponse) error {
	return m.Called(ctx, response).Error(0)
}

func (m *MockSurveyRepository) ListResponses(ctx context.Context, companyID uuid.UUID, templateID *uuid.UUID) ([]*models.SurveyResponse, error) {
	args := m.Called(ctx, companyID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SurveyResponse), args.Error(1)
}

func (m *MockSurveyRepository) HasResponse(ctx context.Context, userID, templateID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, templateID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSurveyRepository) CreateGeneratedSurvey(ctx context.Context, questions []*models.SurveyQuestion, templates []*models.SurveyTemplate, links []*models.TemplateQuestion) error {
	return m.Called(ctx, questions, templates, links).Error(0)
}

// fakeGenerator plays back scripted question drafts
type fakeGenerator struct {
	drafts []assistant.QuestionDraft
	err    error
}

func (f *fakeGenerator) GenerateQuestions(_ context.Context, _, _ string) ([]assistant.QuestionDraft, error) {
	return f.drafts, f.err
}

func newSurveyService(repo *MockSurveyRepository, gen QuestionGenerator, allowMultiple bool) *SurveyService {
	return NewSurveyService(repo, gen, observability.NewNopLogger(), nil, allowMultiple)
}

func publishedTemplate(companyID uuid.UUID) *models.SurveyTemplate {
	now := time.Now()
	return &models.SurveyTemplate{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Title:       "Q1 Survey",
		Status:      models.TemplateStatusActive,
		PublishedAt: &now,
	}
}

func TestPublishTemplateStampsOnce(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, true)
	ctx := context.Background()
	companyID := uuid.New()

	template := &models.SurveyTemplate{
		ID:        uuid.New(),
		CompanyID: companyID,
		Title:     "Draft",
		Status:    models.TemplateStatusDraft,
	}
	repo.On("GetTemplate", ctx, template.ID, companyID).Return(template, nil)
	repo.On("UpdateTemplate", ctx, template).Return(nil)

	got, err := svc.PublishTemplate(ctx, companyID, template.ID)
	assert.NoError(t, err)
	assert.True(t, got.IsPublished())
	assert.NotNil(t, got.PublishedAt)
	firstStamp := *got.PublishedAt

	// republishing changes nothing and writes nothing
	got, err = svc.PublishTemplate(ctx, companyID, template.ID)
	assert.NoError(t, err)
	assert.Equal(t, firstStamp, *got.PublishedAt)
	repo.AssertNumberOfCalls(t, "UpdateTemplate", 1)
}

func TestUpdateTemplateCannotUnpublish(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, true)
	ctx := context.Background()
	companyID := uuid.New()

	template := publishedTemplate(companyID)
	repo.On("GetTemplate", ctx, template.ID, companyID).Return(template, nil)

	_, err := svc.UpdateTemplate(ctx, companyID, template.ID, TemplateInput{Status: "draft"})
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "UpdateTemplate")
}

func TestSubmitResponseRequiredValidation(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, true)
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	template := publishedTemplate(companyID)
	required := &models.SurveyQuestion{
		ID:           uuid.New(),
		CompanyID:    companyID,
		QuestionText: "Rate dental coverage",
		QuestionType: models.QuestionTypeScale,
		Required:     true,
		Active:       true,
	}
	optional := &models.SurveyQuestion{
		ID:           uuid.New(),
		CompanyID:    companyID,
		QuestionText: "Comments",
		QuestionType: models.QuestionTypeTextarea,
		Active:       true,
	}

	repo.On("GetTemplate", ctx, template.ID, companyID).Return(template, nil)
	repo.On("ListQuestionsForTemplate", ctx, template.ID).
		Return([]*models.SurveyQuestion{required, optional}, nil)

	tests := []struct {
		name    string
		answers map[uuid.UUID]models.AnswerValue
		wantErr bool
	}{
		{
			name:    "missing required answer",
			answers: map[uuid.UUID]models.AnswerValue{},
			wantErr: true,
		},
		{
			name: "empty string does not count",
			answers: map[uuid.UUID]models.AnswerValue{
				required.ID: models.NewTextAnswer("  "),
			},
			wantErr: true,
		},
		{
			name: "empty list does not count",
			answers: map[uuid.UUID]models.AnswerValue{
				required.ID: models.NewListAnswer(nil),
			},
			wantErr: true,
		},
		{
			name: "required answered, optional skipped",
			answers: map[uuid.UUID]models.AnswerValue{
				required.ID: models.NewTextAnswer("4"),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.wantErr {
				repo.On("CreateResponse", ctx, mock.AnythingOfType("*models.SurveyResponse")).Return(nil).Once()
			}

			response, err := svc.SubmitResponse(ctx, companyID, userID, ResponseInput{
				TemplateID: template.ID,
				Answers:    tt.answers,
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Nil(t, response)
			} else {
				assert.NoError(t, err)
				assert.Len(t, response.Responses, 2)
				assert.Equal(t, "Rate dental coverage", response.Responses[0].QuestionText)
			}
		})
	}

	// no write happened for any failing case
	repo.AssertNumberOfCalls(t, "CreateResponse", 1)
}

func TestSubmitResponseIgnoresDeactivatedQuestions(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, true)
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	template := publishedTemplate(companyID)
	current := &models.SurveyQuestion{
		ID:           uuid.New(),
		CompanyID:    companyID,
		QuestionText: "Rate dental coverage",
		QuestionType: models.QuestionTypeScale,
		Required:     true,
		Active:       true,
	}
	retired := &models.SurveyQuestion{
		ID:           uuid.New(),
		CompanyID:    companyID,
		QuestionText: "Retired question",
		QuestionType: models.QuestionTypeText,
		Required:     true,
		Active:       false,
	}

	repo.On("GetTemplate", ctx, template.ID, companyID).Return(template, nil)
	repo.On("ListQuestionsForTemplate", ctx, template.ID).
		Return([]*models.SurveyQuestion{current, retired}, nil)
	repo.On("CreateResponse", ctx, mock.AnythingOfType("*models.SurveyResponse")).Return(nil)

	response, err := svc.SubmitResponse(ctx, companyID, userID, ResponseInput{
		TemplateID: template.ID,
		Answers: map[uuid.UUID]models.AnswerValue{
			current.ID: models.NewTextAnswer("4"),
		},
	})
	assert.NoError(t, err, "a deactivated required question must not block submission")
	assert.Len(t, response.Responses, 1)
	assert.Equal(t, current.ID, response.Responses[0].QuestionID)
}

func TestSubmitResponseUnpublishedTemplate(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, true)
	ctx := context.Background()
	companyID := uuid.New()

	draft := &models.SurveyTemplate{ID: uuid.New(), CompanyID: companyID, Status: models.TemplateStatusDraft}
	repo.On("GetTemplate", ctx, draft.ID, companyID).Return(draft, nil)

	_, err := svc.SubmitResponse(ctx, companyID, uuid.New(), ResponseInput{TemplateID: draft.ID})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitResponseSingleSubmissionMode(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, false)
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	template := publishedTemplate(companyID)
	repo.On("GetTemplate", ctx, template.ID, companyID).Return(template, nil)
	repo.On("HasResponse", ctx, userID, template.ID).Return(true, nil)

	_, err := svc.SubmitResponse(ctx, companyID, userID, ResponseInput{TemplateID: template.ID})
	assert.ErrorIs(t, err, ErrAlreadyDone)
	repo.AssertNotCalled(t, "CreateResponse")
}

func TestQuickSetupPersistsQuestionsAndTemplates(t *testing.T) {
	repo := new(MockSurveyRepository)
	gen := &fakeGenerator{drafts: []assistant.QuestionDraft{
		{QuestionText: "Rate dental", QuestionType: models.QuestionTypeScale, Required: true},
		{QuestionText: "Pick plans", QuestionType: models.QuestionTypeCheckbox, Options: models.OptionList{"PPO", "HMO"}},
	}}
	svc := newSurveyService(repo, gen, true)
	ctx := context.Background()
	companyID := uuid.New()

	repo.On("CreateGeneratedSurvey", ctx,
		mock.AnythingOfType("[]*models.SurveyQuestion"),
		mock.AnythingOfType("[]*models.SurveyTemplate"),
		mock.AnythingOfType("[]*models.TemplateQuestion"),
	).Return(nil)

	result, err := svc.QuickSetup(ctx, companyID, QuickSetupInput{CreateTemplates: true})
	assert.NoError(t, err)
	assert.Len(t, result.Questions, 2)
	assert.Len(t, result.Templates, 2)

	for i, q := range result.Questions {
		assert.Equal(t, companyID, q.CompanyID)
		assert.True(t, q.CreatedByAI)
		assert.Equal(t, i, q.Order)
	}
	for _, tpl := range result.Templates {
		assert.Equal(t, models.TemplateStatusDraft, tpl.Status)
		assert.True(t, tpl.CreatedByAI)
	}

	// every question linked to every template
	links := repo.Calls[0].Arguments.Get(3).([]*models.TemplateQuestion)
	assert.Len(t, links, 4)
}

func TestQuickSetupGenerationFailureWritesNothing(t *testing.T) {
	repo := new(MockSurveyRepository)
	gen := &fakeGenerator{err: errors.New("unparseable")}
	svc := newSurveyService(repo, gen, true)

	_, err := svc.QuickSetup(context.Background(), uuid.New(), QuickSetupInput{})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateGeneratedSurvey")
}

func TestCreateQuestionValidation(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, true)
	ctx := context.Background()
	companyID := uuid.New()

	_, err := svc.CreateQuestion(ctx, companyID, QuestionInput{QuestionText: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateQuestion(ctx, companyID, QuestionInput{
		QuestionText: "Pick one",
		QuestionType: "radio",
	})
	assert.ErrorIs(t, err, ErrValidation, "option types need options")

	repo.On("CreateQuestion", ctx, mock.AnythingOfType("*models.SurveyQuestion")).Return(nil)
	question, err := svc.CreateQuestion(ctx, companyID, QuestionInput{
		QuestionText:    "Pick one",
		QuestionType:    "radio",
		OptionsTextarea: "PPO\nHMO",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.OptionList{"PPO", "HMO"}, question.Options)
}

func TestAssignQuestionChecksScope(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, true)
	ctx := context.Background()
	companyID := uuid.New()
	templateID, questionID := uuid.New(), uuid.New()

	template := publishedTemplate(companyID)
	template.ID = templateID
	question := &models.SurveyQuestion{ID: questionID, CompanyID: companyID, QuestionText: "Q"}

	repo.On("GetTemplate", ctx, templateID, companyID).Return(template, nil)
	repo.On("GetQuestion", ctx, questionID, companyID).Return(question, nil)
	repo.On("AddQuestionToTemplate", ctx, mock.MatchedBy(func(link *models.TemplateQuestion) bool {
		return link.TemplateID == templateID && link.QuestionID == questionID && link.Order == 3
	})).Return(nil)

	assert.NoError(t, svc.AssignQuestion(ctx, companyID, templateID, questionID, 3))
}

func TestTallyResponses(t *testing.T) {
	repo := new(MockSurveyRepository)
	svc := newSurveyService(repo, nil, true)
	ctx := context.Background()
	companyID := uuid.New()

	t1 := publishedTemplate(companyID)
	t2 := publishedTemplate(companyID)
	repo.On("ListTemplates", ctx, companyID, false).Return([]*models.SurveyTemplate{t1, t2}, nil)
	repo.On("ListResponses", ctx, companyID, (*uuid.UUID)(nil)).Return([]*models.SurveyResponse{
		{TemplateID: t1.ID}, {TemplateID: t1.ID}, {TemplateID: t2.ID},
	}, nil)

	tallies, err := svc.TallyResponses(ctx, companyID)
	assert.NoError(t, err)
	assert.Equal(t, 2, tallies[0].Count)
	assert.Equal(t, 1, tallies[1].Count)
}
