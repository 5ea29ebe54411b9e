package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"benefitsportal/internal/llm"
	"benefitsportal/internal/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeClient records requests and plays back a scripted reply
type fakeClient struct {
	lastRequest llm.ChatCompletionRequest
	reply       string
	err         error
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: llm.Message{Role: llm.RoleAssistant, Content: f.reply}}},
	}, nil
}

func (f *fakeClient) Model() string { return "test-model" }

func newTestService(client CompletionClient) (*Service, *MemoryConversationCache) {
	cache := NewMemoryConversationCache()
	return NewService(client, cache, observability.NewNopLogger(), nil), cache
}

func TestSummarizeBlankInput(t *testing.T) {
	client := &fakeClient{reply: "should not be called"}
	svc, _ := newTestService(client)

	got := svc.Summarize(context.Background(), "   \n\t ")
	assert.Equal(t, emptyDocSummary, got)
	assert.Empty(t, client.lastRequest.Messages, "no provider call for blank input")
}

func TestSummarizeProviderErrorDegrades(t *testing.T) {
	client := &fakeClient{err: errors.New("provider down")}
	svc, _ := newTestService(client)

	got := svc.Summarize(context.Background(), "some document text")
	assert.Equal(t, summaryUnavailable, got)
}

func TestSummarizeTruncatesLongInput(t *testing.T) {
	client := &fakeClient{reply: "a summary"}
	svc, _ := newTestService(client)

	long := strings.Repeat("x", MaxContextChars+500)
	got := svc.Summarize(context.Background(), long)
	assert.Equal(t, "a summary", got)

	prompt := client.lastRequest.Messages[0].Content
	assert.Contains(t, prompt, "[Content truncated]")
	assert.Less(t, len(prompt), MaxContextChars+500, "document text cut to the ceiling")
}

func TestTruncateAtKeepsRunesWhole(t *testing.T) {
	// the leading byte shifts every 3-byte rune off the cut point
	text := "x" + strings.Repeat("€", MaxContextChars)
	got := truncateContext(text)

	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.True(t, strings.HasSuffix(got, truncationMarker))
	assert.LessOrEqual(t, len(got), MaxContextChars+len(truncationMarker))

	short := "café"
	assert.Equal(t, short, truncateAt(short, len(short)))
}

func TestChatAnswerCarriesWindowAndGrounding(t *testing.T) {
	client := &fakeClient{reply: "dental is covered at 80%"}
	svc, cache := newTestService(client)
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	docs := []GroundingDocument{{Title: "Dental Plan", Content: "Dental covered at 80%."}}

	reply := svc.ChatAnswer(ctx, companyID, userID, "Acme", "Benny", "Is dental covered?", docs)
	assert.Equal(t, "dental is covered at 80%", reply)

	// system prompt embeds identity and grounding
	system := client.lastRequest.Messages[0]
	assert.Equal(t, llm.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "Benny")
	assert.Contains(t, system.Content, "Acme")
	assert.Contains(t, system.Content, "Dental covered at 80%.")

	// both turns recorded in the rolling window
	window, err := cache.Window(ctx, companyID, userID)
	assert.NoError(t, err)
	assert.Len(t, window, 2)
	assert.Equal(t, llm.RoleUser, window[0].Role)
	assert.Equal(t, llm.RoleAssistant, window[1].Role)

	// the next call replays the window
	svc.ChatAnswer(ctx, companyID, userID, "Acme", "Benny", "What about vision?", docs)
	assert.Len(t, client.lastRequest.Messages, 4, "system + two window turns + new message")
}

func TestChatAnswerProviderErrorApologizes(t *testing.T) {
	client := &fakeClient{err: errors.New("timeout")}
	svc, cache := newTestService(client)
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	reply := svc.ChatAnswer(ctx, companyID, userID, "Acme", "", "hello", nil)
	assert.Equal(t, chatUnavailable, reply)

	window, err := cache.Window(ctx, companyID, userID)
	assert.NoError(t, err)
	assert.Empty(t, window, "failed exchanges stay out of the window")
}

func TestChatAnswerDefaultAssistantName(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	svc, _ := newTestService(client)

	svc.ChatAnswer(context.Background(), uuid.New(), uuid.New(), "Acme", "  ", "hi", nil)
	assert.Contains(t, client.lastRequest.Messages[0].Content, defaultAssistantName)
}

func TestGenerateQuestionsRequestsJSONMode(t *testing.T) {
	client := &fakeClient{reply: `{"questions": [{"questionText": "Q", "questionType": "text"}]}`}
	svc, _ := newTestService(client)

	drafts, err := svc.GenerateQuestions(context.Background(), "focus on dental", "source")
	assert.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.NotNil(t, client.lastRequest.ResponseFormat)
	assert.Equal(t, "json_object", client.lastRequest.ResponseFormat.Type)
}

func TestGenerateQuestionsProviderErrorIsHard(t *testing.T) {
	client := &fakeClient{err: errors.New("no capacity")}
	svc, _ := newTestService(client)

	_, err := svc.GenerateQuestions(context.Background(), "", "")
	assert.Error(t, err)
}

func TestGenerateQuestionsUnparseableReply(t *testing.T) {
	client := &fakeClient{reply: "I could not produce questions, sorry."}
	svc, _ := newTestService(client)

	_, err := svc.GenerateQuestions(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGenerateWebsiteCopy(t *testing.T) {
	client := &fakeClient{reply: `{"headline": "Great Benefits", "tagline": "For everyone", "about": "...", "sections": [{"title": "Dental", "body": "80% covered"}]}`}
	svc, _ := newTestService(client)

	copy, err := svc.GenerateWebsiteCopy(context.Background(), "", "")
	assert.NoError(t, err)
	assert.Equal(t, "Great Benefits", copy.Headline)
	assert.Len(t, copy.Sections, 1)
}

func TestUnavailableClientDegrades(t *testing.T) {
	svc, _ := newTestService(UnavailableClient{})

	assert.Equal(t, summaryUnavailable, svc.Summarize(context.Background(), "text"))

	_, err := svc.GenerateQuestions(context.Background(), "", "")
	assert.Error(t, err)
}
