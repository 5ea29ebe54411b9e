// Package assistant wraps the language model behind benefits-domain
// operations: document summarization, grounded chat, survey question
// generation and website copy. Callers never build prompts themselves.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"benefitsportal/internal/llm"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	summaryUnavailable = "Summary unavailable at this time. Please try again later."
	chatUnavailable    = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."
	emptyDocSummary    = "This document has no readable content to summarize."
)

// CompletionClient is the slice of the model client the assistant needs
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
	Model() string
}

// Service is the benefits assistant facade over the model client
type Service struct {
	client  CompletionClient
	cache   ConversationCache
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewService creates the assistant service
func NewService(client CompletionClient, cache ConversationCache, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		client:  client,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// Summarize produces a plain-language summary of document text. It never
// returns an error: callers embed the result directly in stored content, so
// failures surface as a readable placeholder instead.
func (s *Service) Summarize(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return emptyDocSummary
	}

	content, err := s.complete(ctx, "summarize", llm.ChatCompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: summarizePrompt(text)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Error("document summarization failed", err)
		return summaryUnavailable
	}
	return content
}

// ChatAnswer answers a user message grounded in the company's benefits
// documents, carrying the rolling conversation window. The reply is always
// usable text: provider failures come back as an apology, not an error.
func (s *Service) ChatAnswer(ctx context.Context, companyID, userID uuid.UUID, companyName, assistantName, userMessage string, docs []GroundingDocument) string {
	window, err := s.cache.Window(ctx, companyID, userID)
	if err != nil {
		s.logger.Error("failed to load conversation window", err)
		window = nil
	}

	messages := make([]llm.Message, 0, len(window)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: chatSystemPrompt(companyName, assistantName, docs),
	})
	messages = append(messages, window...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})

	reply, err := s.complete(ctx, "chat", llm.ChatCompletionRequest{
		Messages:    messages,
		Temperature: 0.7,
		User:        userID.String(),
	})
	if err != nil {
		s.logger.Error("chat completion failed", err,
			zap.String("company_id", companyID.String()))
		return chatUnavailable
	}

	if err := s.cache.Append(ctx, companyID, userID,
		llm.Message{Role: llm.RoleUser, Content: userMessage},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	); err != nil {
		s.logger.Error("failed to update conversation window", err)
	}
	return reply
}

// GenerateQuestions asks the model for survey questions and parses the reply
func (s *Service) GenerateQuestions(ctx context.Context, instructions, sourceText string) ([]QuestionDraft, error) {
	content, err := s.complete(ctx, "generate_questions", llm.ChatCompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: generateQuestionsPrompt(instructions, sourceText)},
		},
		Temperature:    0.5,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("question generation request failed: %w", err)
	}

	drafts, err := ExtractQuestions(content)
	if err != nil {
		s.logger.Warn("unusable question generation response",
			zap.Int("response_length", len(content)))
		return nil, err
	}
	return drafts, nil
}

// WebsiteSection is one titled block of generated website copy
type WebsiteSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// WebsiteCopy is the generated content for a company benefits site
type WebsiteCopy struct {
	Headline string           `json:"headline"`
	Tagline  string           `json:"tagline"`
	About    string           `json:"about"`
	Sections []WebsiteSection `json:"sections"`
}

// GenerateWebsiteCopy asks the model for portal website copy
func (s *Service) GenerateWebsiteCopy(ctx context.Context, instructions, sourceText string) (*WebsiteCopy, error) {
	content, err := s.complete(ctx, "generate_website", llm.ChatCompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: websiteCopyPrompt(instructions, sourceText)},
		},
		Temperature:    0.7,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("website copy request failed: %w", err)
	}

	var copy WebsiteCopy
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &copy); err != nil {
		return nil, fmt.Errorf("could not parse website copy response: %w", err)
	}
	return &copy, nil
}

// complete runs one completion and records latency and outcome metrics
func (s *Service) complete(ctx context.Context, operation string, req llm.ChatCompletionRequest) (string, error) {
	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordLLMRequest(operation, "error", duration)
		return "", err
	}
	s.metrics.RecordLLMRequest(operation, "success", duration)

	content := strings.TrimSpace(resp.Content())
	if content == "" {
		return "", fmt.Errorf("model returned an empty response")
	}
	return content, nil
}
