package services

import (
	"context"
	"fmt"
	"strings"

	"benefitsportal/internal/data"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"
	"benefitsportal/internal/services/assistant"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Answerer produces grounded assistant replies
type Answerer interface {
	ChatAnswer(ctx context.Context, companyID, userID uuid.UUID, companyName, assistantName, userMessage string, docs []assistant.GroundingDocument) string
}

// ChatService runs the benefits chat: the assistant answers grounded in the
// company's documents, and both sides of the exchange land in the durable
// message log.
type ChatService struct {
	messages  data.ChatRepositoryInterface
	companies data.CompanyRepositoryInterface
	settings  data.SettingsRepositoryInterface
	documents *DocumentService
	answerer  Answerer
	logger    *observability.Logger
}

// NewChatService creates the chat service
func NewChatService(messages data.ChatRepositoryInterface, companies data.CompanyRepositoryInterface, settings data.SettingsRepositoryInterface, documents *DocumentService, answerer Answerer, logger *observability.Logger) *ChatService {
	return &ChatService{
		messages:  messages,
		companies: companies,
		settings:  settings,
		documents: documents,
		answerer:  answerer,
		logger:    logger,
	}
}

// History returns the user's recent messages, oldest first
func (s *ChatService) History(ctx context.Context, companyID, userID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.messages.ListByUser(ctx, companyID, userID, limit)
}

// Send answers a user message and persists both turns. A reply always comes
// back, even when the model is unavailable.
func (s *ChatService) Send(ctx context.Context, companyID, userID uuid.UUID, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	assistantName := ""
	if settings, err := s.settings.GetByCompany(ctx, companyID); err == nil {
		assistantName = settings.AssistantName
	}

	docs, err := s.documents.GroundingContent(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to load grounding documents", err,
			zap.String("company_id", companyID.String()))
		docs = nil
	}
	grounding := make([]assistant.GroundingDocument, 0, len(docs))
	for _, doc := range docs {
		grounding = append(grounding, assistant.GroundingDocument{
			Title:   doc.Title,
			Content: *doc.Content,
		})
	}

	reply := s.answerer.ChatAnswer(ctx, companyID, userID, company.Name, assistantName, content, grounding)

	userMsg := &models.ChatMessage{
		CompanyID: companyID,
		UserID:    userID,
		Role:      models.ChatRoleUser,
		Content:   content,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	assistantMsg := &models.ChatMessage{
		CompanyID: companyID,
		UserID:    userID,
		Role:      models.ChatRoleAssistant,
		Content:   reply,
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return nil, err
	}
	return assistantMsg, nil
}
