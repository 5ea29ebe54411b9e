package api

import (
	"net/http"
	"strings"

	"benefitsportal/internal/middleware"
	"benefitsportal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SurveyHandlers serves survey authoring, publication and responses
type SurveyHandlers struct {
	surveys   *services.SurveyService
	documents *services.DocumentService
	sanitizer *middleware.Sanitizer
}

// NewSurveyHandlers creates the survey handlers
func NewSurveyHandlers(surveys *services.SurveyService, documents *services.DocumentService, sanitizer *middleware.Sanitizer) *SurveyHandlers {
	return &SurveyHandlers{surveys: surveys, documents: documents, sanitizer: sanitizer}
}

// ListTemplates handles GET /api/survey/templates. Admins see every
// template, employees only published ones.
func (h *SurveyHandlers) ListTemplates(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	session := middleware.SessionFrom(c)
	publishedOnly := session == nil || !session.IsAdmin()

	templates, err := h.surveys.ListTemplates(c.Request.Context(), companyID, publishedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetTemplate handles GET /api/survey/templates/:id
func (h *SurveyHandlers) GetTemplate(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	template, err := h.surveys.GetTemplate(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	session := middleware.SessionFrom(c)
	if !template.IsPublished() && (session == nil || !session.IsAdmin()) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	c.JSON(http.StatusOK, template)
}

// CreateTemplate handles POST /api/survey/templates
func (h *SurveyHandlers) CreateTemplate(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	var input services.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid template payload"})
		return
	}
	input.Title = h.sanitizer.Clean(input.Title)

	template, err := h.surveys.CreateTemplate(c.Request.Context(), companyID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// UpdateTemplate handles PATCH /api/survey/templates/:id
func (h *SurveyHandlers) UpdateTemplate(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid template payload"})
		return
	}
	template, err := h.surveys.UpdateTemplate(c.Request.Context(), companyID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// PublishTemplate handles POST /api/survey/templates/:id/publish
func (h *SurveyHandlers) PublishTemplate(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	template, err := h.surveys.PublishTemplate(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate handles DELETE /api/survey/templates/:id
func (h *SurveyHandlers) DeleteTemplate(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.surveys.DeleteTemplate(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

// TemplateQuestions handles GET /api/survey/templates/:id/questions,
// returning the template's questions in template order
func (h *SurveyHandlers) TemplateQuestions(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	template, err := h.surveys.GetTemplate(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Draft templates stay invisible to regular users, question set included
	session := middleware.SessionFrom(c)
	if !template.IsPublished() && (session == nil || !session.IsAdmin()) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	questions, err := h.surveys.TemplateQuestions(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

type assignQuestionRequest struct {
	QuestionID uuid.UUID `json:"questionId" binding:"required"`
	Order      int       `json:"order"`
}

// AssignQuestion handles POST /api/survey/templates/:id/questions
func (h *SurveyHandlers) AssignQuestion(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c)
	if !ok {
		return
	}
	var req assignQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid assignment payload"})
		return
	}
	if err := h.surveys.AssignQuestion(c.Request.Context(), companyID, templateID, req.QuestionID, req.Order); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question assigned"})
}

// UnassignQuestion handles DELETE /api/survey/templates/:id/questions/:questionId
func (h *SurveyHandlers) UnassignQuestion(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	templateID, ok := pathID(c)
	if !ok {
		return
	}
	questionID, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return
	}
	if err := h.surveys.UnassignQuestion(c.Request.Context(), companyID, templateID, questionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question removed"})
}

// ListQuestions handles GET /api/survey/questions
func (h *SurveyHandlers) ListQuestions(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	questions, err := h.surveys.ListQuestions(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// CreateQuestion handles POST /api/survey/questions
func (h *SurveyHandlers) CreateQuestion(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid question payload"})
		return
	}
	input.QuestionText = h.sanitizer.Clean(input.QuestionText)

	question, err := h.surveys.CreateQuestion(c.Request.Context(), companyID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion handles PATCH /api/survey/questions/:id
func (h *SurveyHandlers) UpdateQuestion(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid question payload"})
		return
	}
	question, err := h.surveys.UpdateQuestion(c.Request.Context(), companyID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion handles DELETE /api/survey/questions/:id
func (h *SurveyHandlers) DeleteQuestion(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.surveys.DeleteQuestion(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// SubmitResponse handles POST /api/survey
func (h *SurveyHandlers) SubmitResponse(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	session := middleware.SessionFrom(c)

	var input services.ResponseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid response payload"})
		return
	}
	response, err := h.surveys.SubmitResponse(c.Request.Context(), companyID, session.UserID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// ListResponses handles GET /api/survey, admin only
func (h *SurveyHandlers) ListResponses(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}

	var templateID *uuid.UUID
	if raw := c.Query("templateId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid templateId"})
			return
		}
		templateID = &id
	}

	responses, err := h.surveys.ListResponses(c.Request.Context(), companyID, templateID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses)
}

// TallyResponses handles GET /api/survey/tally, admin only
func (h *SurveyHandlers) TallyResponses(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	tallies, err := h.surveys.TallyResponses(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tallies)
}

type generateRequest struct {
	Instructions    string `json:"instructions"`
	SourceText      string `json:"sourceText"`
	UseDocuments    bool   `json:"useDocuments"`
	Persist         bool   `json:"persist"`
	CreateTemplates bool   `json:"createTemplates"`
}

// GenerateQuestions handles POST /api/survey/templates/generate. Without
// persist it previews drafts; with persist it runs the quick setup flow.
// Generation failures are hard errors so no partial survey data is written.
func (h *SurveyHandlers) GenerateQuestions(c *gin.Context) {
	companyID, ok := companyScope(c)
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid generation payload"})
		return
	}

	sourceText := req.SourceText
	if req.UseDocuments && strings.TrimSpace(sourceText) == "" {
		// Resolve any still-pending extractions before reading content
		if err := h.documents.RefreshPendingContent(c.Request.Context(), companyID); err != nil {
			respondError(c, err)
			return
		}
		docs, err := h.documents.GroundingContent(c.Request.Context(), companyID)
		if err == nil {
			var b strings.Builder
			for _, doc := range docs {
				b.WriteString(doc.Title)
				b.WriteString("\n")
				b.WriteString(*doc.Content)
				b.WriteString("\n\n")
			}
			sourceText = b.String()
		}
	}

	if !req.Persist {
		drafts, err := h.surveys.GenerateQuestions(c.Request.Context(), req.Instructions, sourceText)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Question generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"questions": drafts})
		return
	}

	result, err := h.surveys.QuickSetup(c.Request.Context(), companyID, services.QuickSetupInput{
		Instructions:    req.Instructions,
		SourceText:      sourceText,
		CreateTemplates: req.CreateTemplates,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Survey generation failed"})
		return
	}
	c.JSON(http.StatusCreated, result)
}
