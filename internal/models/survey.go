package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
)

// TemplateStatus represents the publication state of a survey template
type TemplateStatus string

// Template statuses. The publish transition is one-way: draft -> active.
const (
	TemplateStatusDraft    TemplateStatus = "draft"
	TemplateStatusActive   TemplateStatus = "active"
	TemplateStatusArchived TemplateStatus = "archived"
)

// SurveyTemplate is a named, ordered collection of survey questions with a
// publish lifecycle. Employees only see templates once published.
type SurveyTemplate struct {
	ID          uuid.UUID      `pg:"id,type:uuid,pk"`
	CompanyID   uuid.UUID      `pg:"company_id,type:uuid,notnull"`
	Title       string         `pg:"title,notnull"`
	Description string         `pg:"description"`
	Status      TemplateStatus `pg:"status,type:text,notnull,default:'draft'"`
	CreatedByAI bool           `pg:"created_by_ai,notnull,default:false"`
	PublishedAt *time.Time     `pg:"published_at"`
	CreatedAt   time.Time      `pg:"created_at,notnull,default:now()"`
	UpdatedAt   time.Time      `pg:"updated_at,notnull,default:now()"`

	Company *Company `pg:"rel:has-one,fk:company_id"`
}

// BeforeInsert hook is called before inserting a new template
func (t *SurveyTemplate) BeforeInsert(_ orm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TemplateStatusDraft
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook is called before updating a template
func (t *SurveyTemplate) BeforeUpdate(_ orm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// TableName returns the name of the table for this model
func (t *SurveyTemplate) TableName() string {
	return "survey_templates"
}

// IsPublished reports whether the template has been published to employees
func (t *SurveyTemplate) IsPublished() bool {
	return t.PublishedAt != nil && t.Status == TemplateStatusActive
}

// QuestionType represents the input type of a survey question
type QuestionType string

// Question types
const (
	QuestionTypeText        QuestionType = "text"
	QuestionTypeTextarea    QuestionType = "textarea"
	QuestionTypeNumber      QuestionType = "number"
	QuestionTypeDate        QuestionType = "date"
	QuestionTypeRadio       QuestionType = "radio"
	QuestionTypeCheckbox    QuestionType = "checkbox"
	QuestionTypeSelect      QuestionType = "select"
	QuestionTypeMultichoice QuestionType = "multichoice"
	QuestionTypeScale       QuestionType = "scale"
)

// ValidQuestionType reports whether t is a known question type
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionTypeText, QuestionTypeTextarea, QuestionTypeNumber, QuestionTypeDate,
		QuestionTypeRadio, QuestionTypeCheckbox, QuestionTypeSelect,
		QuestionTypeMultichoice, QuestionTypeScale:
		return true
	}
	return false
}

// HasOptions reports whether the question type carries an option list
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionTypeRadio, QuestionTypeCheckbox, QuestionTypeSelect, QuestionTypeMultichoice:
		return true
	}
	return false
}

// OptionList is the normalized form of a question's choices. The
// newline-delimited textarea format exists only at the presentation boundary.
type OptionList []string

// ParseOptionList normalizes a newline-delimited textarea value into an
// OptionList, dropping blank lines.
func ParseOptionList(raw string) OptionList {
	var opts OptionList
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			opts = append(opts, line)
		}
	}
	return opts
}

// Textarea serializes the option list back to the newline-delimited form
func (o OptionList) Textarea() string {
	return strings.Join(o, "\n")
}

// SurveyQuestion represents a reusable survey question. Its own Order field
// drives "all questions" views; per-template ordering lives on the join row.
type SurveyQuestion struct {
	ID           uuid.UUID    `pg:"id,type:uuid,pk"`
	CompanyID    uuid.UUID    `pg:"company_id,type:uuid,notnull"`
	QuestionText string       `pg:"question_text,notnull"`
	QuestionType QuestionType `pg:"question_type,type:text,notnull"`
	Options      OptionList   `pg:"options,array"`
	Required     bool         `pg:"required,notnull,default:false"`
	Order        int          `pg:"sort_order,notnull,default:0"`
	Active       bool         `pg:"active,notnull,default:true"`
	CreatedByAI  bool         `pg:"created_by_ai,notnull,default:false"`
	CreatedAt    time.Time    `pg:"created_at,notnull,default:now()"`
	UpdatedAt    time.Time    `pg:"updated_at,notnull,default:now()"`

	Company *Company `pg:"rel:has-one,fk:company_id"`
}

// BeforeInsert hook is called before inserting a new question
func (q *SurveyQuestion) BeforeInsert(_ orm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.QuestionType == "" {
		q.QuestionType = QuestionTypeText
	}
	q.CreatedAt = time.Now()
	q.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate hook is called before updating a question
func (q *SurveyQuestion) BeforeUpdate(_ orm.DB) error {
	q.UpdatedAt = time.Now()
	return nil
}

// TableName returns the name of the table for this model
func (q *SurveyQuestion) TableName() string {
	return "survey_questions"
}

// TemplateQuestion is the many-to-many join between templates and questions,
// carrying template-specific ordering independent of the question's own order.
type TemplateQuestion struct {
	TemplateID uuid.UUID `pg:"template_id,type:uuid,pk"`
	QuestionID uuid.UUID `pg:"question_id,type:uuid,pk"`
	Order      int       `pg:"sort_order,notnull,default:0"`

	Template *SurveyTemplate `pg:"rel:has-one,fk:template_id"`
	Question *SurveyQuestion `pg:"rel:has-one,fk:question_id"`
}

// TableName returns the name of the table for this model
func (tq *TemplateQuestion) TableName() string {
	return "template_questions"
}

// AnswerValue holds a single answer, which the client supplies either as a
// string or as a list of strings (checkbox/multichoice).
type AnswerValue struct {
	Text string
	List []string
	// isList distinguishes an empty list from an empty string
	isList bool
}

// NewTextAnswer builds a string-valued answer
func NewTextAnswer(s string) AnswerValue {
	return AnswerValue{Text: s}
}

// NewListAnswer builds a list-valued answer
func NewListAnswer(items []string) AnswerValue {
	return AnswerValue{List: items, isList: true}
}

// IsEmpty reports whether the answer counts as unanswered: empty string,
// null, and empty list all do.
func (v AnswerValue) IsEmpty() bool {
	if v.isList {
		return len(v.List) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

// MarshalJSON serializes the answer as either a JSON string or array
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts a JSON string, array of strings, or null
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = AnswerValue{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = AnswerValue{List: list, isList: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = AnswerValue{Text: s}
	return nil
}

// QuestionAnswer is one entry in a submitted response, frozen with the
// question's text and type as they were at submission time.
type QuestionAnswer struct {
	QuestionID   uuid.UUID    `json:"questionId"`
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
	Response     AnswerValue  `json:"response"`
}

// SurveyResponse is an immutable, append-only record of one submission
type SurveyResponse struct {
	ID          uuid.UUID        `pg:"id,type:uuid,pk"`
	CompanyID   uuid.UUID        `pg:"company_id,type:uuid,notnull"`
	UserID      uuid.UUID        `pg:"user_id,type:uuid,notnull"`
	TemplateID  uuid.UUID        `pg:"template_id,type:uuid,notnull"`
	Responses   []QuestionAnswer `pg:"responses,type:jsonb"`
	SubmittedAt time.Time        `pg:"submitted_at,notnull,default:now()"`

	Company  *Company        `pg:"rel:has-one,fk:company_id"`
	User     *User           `pg:"rel:has-one,fk:user_id"`
	Template *SurveyTemplate `pg:"rel:has-one,fk:template_id"`
}

// BeforeInsert hook is called before inserting a new response
func (r *SurveyResponse) BeforeInsert(_ orm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	return nil
}

// TableName returns the name of the table for this model
func (r *SurveyResponse) TableName() string {
	return "survey_responses"
}
