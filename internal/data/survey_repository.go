package data

import (
	"context"

	"benefitsportal/internal/models"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

// SurveyRepositoryInterface defines the survey domain store operations
type SurveyRepositoryInterface interface {
	GetTemplate(ctx context.Context, id, companyID uuid.UUID) (*models.SurveyTemplate, error)
	ListTemplates(ctx context.Context, companyID uuid.UUID, publishedOnly bool) ([]*models.SurveyTemplate, error)
	CreateTemplate(ctx context.Context, template *models.SurveyTemplate) error
	UpdateTemplate(ctx context.Context, template *models.SurveyTemplate) error
	DeleteTemplate(ctx context.Context, id, companyID uuid.UUID) error

	GetQuestion(ctx context.Context, id, companyID uuid.UUID) (*models.SurveyQuestion, error)
	ListQuestions(ctx context.Context, companyID uuid.UUID) ([]*models.SurveyQuestion, error)
	CreateQuestion(ctx context.Context, question *models.SurveyQuestion) error
	UpdateQuestion(ctx context.Context, question *models.SurveyQuestion) error
	DeleteQuestion(ctx context.Context, id, companyID uuid.UUID) error

	AddQuestionToTemplate(ctx context.Context, link *models.TemplateQuestion) error
	RemoveQuestionFromTemplate(ctx context.Context, templateID, questionID uuid.UUID) error
	ListQuestionsForTemplate(ctx context.Context, templateID uuid.UUID) ([]*models.SurveyQuestion, error)

	CreateResponse(ctx context.Context, response *models.SurveyResponse) error
	ListResponses(ctx context.Context, companyID uuid.UUID, templateID *uuid.UUID) ([]*models.SurveyResponse, error)
	HasResponse(ctx context.Context, userID, templateID uuid.UUID) (bool, error)

	CreateGeneratedSurvey(ctx context.Context, questions []*models.SurveyQuestion, templates []*models.SurveyTemplate, links []*models.TemplateQuestion) error
}

// SurveyRepository handles database operations for the survey domain
type SurveyRepository struct {
	db *pg.DB
}

// NewSurveyRepository creates a new survey repository
func NewSurveyRepository(db *pg.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// GetTemplate retrieves a template scoped to a company
func (r *SurveyRepository) GetTemplate(ctx context.Context, id, companyID uuid.UUID) (*models.SurveyTemplate, error) {
	template := new(models.SurveyTemplate)
	err := r.db.ModelContext(ctx, template).
		Where("id = ? AND company_id = ?", id, companyID).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return template, nil
}

// ListTemplates retrieves templates for a company. With publishedOnly set,
// only published, active templates are returned (the employee view).
func (r *SurveyRepository) ListTemplates(ctx context.Context, companyID uuid.UUID, publishedOnly bool) ([]*models.SurveyTemplate, error) {
	var templates []*models.SurveyTemplate
	q := r.db.ModelContext(ctx, &templates).
		Where("company_id = ?", companyID)
	if publishedOnly {
		q = q.Where("published_at IS NOT NULL AND status = ?", models.TemplateStatusActive)
	}
	err := q.Order("created_at DESC").Select()
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate inserts a new template
func (r *SurveyRepository) CreateTemplate(ctx context.Context, template *models.SurveyTemplate) error {
	_, err := r.db.ModelContext(ctx, template).Insert()
	return err
}

// UpdateTemplate updates an existing template
func (r *SurveyRepository) UpdateTemplate(ctx context.Context, template *models.SurveyTemplate) error {
	res, err := r.db.ModelContext(ctx, template).
		WherePK().
		Where("company_id = ?", template.CompanyID).
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTemplate removes a template and its join rows
func (r *SurveyRepository) DeleteTemplate(ctx context.Context, id, companyID uuid.UUID) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		res, err := tx.ModelContext(ctx, (*models.SurveyTemplate)(nil)).
			Where("id = ? AND company_id = ?", id, companyID).
			Delete()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return ErrNotFound
		}
		_, err = tx.ModelContext(ctx, (*models.TemplateQuestion)(nil)).
			Where("template_id = ?", id).
			Delete()
		return err
	})
}

// GetQuestion retrieves a question scoped to a company
func (r *SurveyRepository) GetQuestion(ctx context.Context, id, companyID uuid.UUID) (*models.SurveyQuestion, error) {
	question := new(models.SurveyQuestion)
	err := r.db.ModelContext(ctx, question).
		Where("id = ? AND company_id = ?", id, companyID).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return question, nil
}

// ListQuestions retrieves a company's questions ordered by their own order field
func (r *SurveyRepository) ListQuestions(ctx context.Context, companyID uuid.UUID) ([]*models.SurveyQuestion, error) {
	var questions []*models.SurveyQuestion
	err := r.db.ModelContext(ctx, &questions).
		Where("company_id = ?", companyID).
		Order("sort_order ASC").
		Select()
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateQuestion inserts a new question
func (r *SurveyRepository) CreateQuestion(ctx context.Context, question *models.SurveyQuestion) error {
	_, err := r.db.ModelContext(ctx, question).Insert()
	return err
}

// UpdateQuestion updates an existing question
func (r *SurveyRepository) UpdateQuestion(ctx context.Context, question *models.SurveyQuestion) error {
	res, err := r.db.ModelContext(ctx, question).
		WherePK().
		Where("company_id = ?", question.CompanyID).
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuestion removes a question and its join rows
func (r *SurveyRepository) DeleteQuestion(ctx context.Context, id, companyID uuid.UUID) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		res, err := tx.ModelContext(ctx, (*models.SurveyQuestion)(nil)).
			Where("id = ? AND company_id = ?", id, companyID).
			Delete()
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return ErrNotFound
		}
		_, err = tx.ModelContext(ctx, (*models.TemplateQuestion)(nil)).
			Where("question_id = ?", id).
			Delete()
		return err
	})
}

// AddQuestionToTemplate links a question to a template with an explicit order
func (r *SurveyRepository) AddQuestionToTemplate(ctx context.Context, link *models.TemplateQuestion) error {
	_, err := r.db.ModelContext(ctx, link).
		OnConflict("(template_id, question_id) DO UPDATE").
		Set("sort_order = EXCLUDED.sort_order").
		Insert()
	return err
}

// RemoveQuestionFromTemplate unlinks a question from a template
func (r *SurveyRepository) RemoveQuestionFromTemplate(ctx context.Context, templateID, questionID uuid.UUID) error {
	res, err := r.db.ModelContext(ctx, (*models.TemplateQuestion)(nil)).
		Where("template_id = ? AND question_id = ?", templateID, questionID).
		Delete()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListQuestionsForTemplate resolves the join in one query, ordered by the
// join row's sort_order rather than the question's own order field.
func (r *SurveyRepository) ListQuestionsForTemplate(ctx context.Context, templateID uuid.UUID) ([]*models.SurveyQuestion, error) {
	var questions []*models.SurveyQuestion
	err := r.db.ModelContext(ctx, &questions).
		Join("JOIN template_questions AS tq ON tq.question_id = survey_question.id").
		Where("tq.template_id = ?", templateID).
		OrderExpr("tq.sort_order ASC").
		Select()
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateResponse inserts a new immutable response row
func (r *SurveyRepository) CreateResponse(ctx context.Context, response *models.SurveyResponse) error {
	_, err := r.db.ModelContext(ctx, response).Insert()
	return err
}

// ListResponses retrieves a company's responses, optionally for one template
func (r *SurveyRepository) ListResponses(ctx context.Context, companyID uuid.UUID, templateID *uuid.UUID) ([]*models.SurveyResponse, error) {
	var responses []*models.SurveyResponse
	q := r.db.ModelContext(ctx, &responses).
		Where("company_id = ?", companyID)
	if templateID != nil {
		q = q.Where("template_id = ?", *templateID)
	}
	err := q.Order("submitted_at ASC").Select()
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// HasResponse reports whether the user has already responded to the template
func (r *SurveyRepository) HasResponse(ctx context.Context, userID, templateID uuid.UUID) (bool, error) {
	return r.db.ModelContext(ctx, (*models.SurveyResponse)(nil)).
		Where("user_id = ? AND template_id = ?", userID, templateID).
		Exists()
}

// CreateGeneratedSurvey persists the quick-setup output in one transaction so
// a failure at any step leaves no partial rows.
func (r *SurveyRepository) CreateGeneratedSurvey(ctx context.Context, questions []*models.SurveyQuestion, templates []*models.SurveyTemplate, links []*models.TemplateQuestion) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		for _, q := range questions {
			if _, err := tx.ModelContext(ctx, q).Insert(); err != nil {
				return err
			}
		}
		for _, t := range templates {
			if _, err := tx.ModelContext(ctx, t).Insert(); err != nil {
				return err
			}
		}
		for _, l := range links {
			if _, err := tx.ModelContext(ctx, l).Insert(); err != nil {
				return err
			}
		}
		return nil
	})
}
