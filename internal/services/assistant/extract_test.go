package assistant

import (
	"testing"

	"benefitsportal/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExtractQuestionsTopLevelField(t *testing.T) {
	raw := `{"questions": [
		{"questionText": "Rate dental coverage", "questionType": "scale", "required": true},
		{"questionText": "Pick your plans", "questionType": "checkbox", "options": ["PPO", "HMO"]}
	]}`

	drafts, err := ExtractQuestions(raw)
	assert.NoError(t, err)
	assert.Len(t, drafts, 2)
	assert.Equal(t, "Rate dental coverage", drafts[0].QuestionText)
	assert.Equal(t, models.QuestionTypeScale, drafts[0].QuestionType)
	assert.True(t, drafts[0].Required)
	assert.Equal(t, models.OptionList{"PPO", "HMO"}, drafts[1].Options)
}

func TestExtractQuestionsNestedSurveys(t *testing.T) {
	raw := `{
		"quarterlySurvey": {"questions": [{"questionText": "Q1", "questionType": "text"}]},
		"annualSurvey": {"questions": [{"questionText": "A1", "questionType": "textarea"}]}
	}`

	drafts, err := ExtractQuestions(raw)
	assert.NoError(t, err)
	assert.Len(t, drafts, 2)
	assert.Equal(t, "Q1", drafts[0].QuestionText)
	assert.Equal(t, "A1", drafts[1].QuestionText)
}

func TestExtractQuestionsFirstQuestionLikeArray(t *testing.T) {
	raw := `{"surveyItems": [
		{"question": "How satisfied are you?", "type": "scale"},
		{"question": "Any comments?", "type": "textarea"}
	]}`

	drafts, err := ExtractQuestions(raw)
	assert.NoError(t, err)
	assert.Len(t, drafts, 2)
	assert.Equal(t, "How satisfied are you?", drafts[0].QuestionText)
}

func TestExtractQuestionsBareArray(t *testing.T) {
	raw := `[{"questionText": "Standalone", "questionType": "text"}]`

	drafts, err := ExtractQuestions(raw)
	assert.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestExtractQuestionsStripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"questions\": [{\"questionText\": \"Fenced\"}]}\n```"

	drafts, err := ExtractQuestions(raw)
	assert.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, "Fenced", drafts[0].QuestionText)
}

func TestExtractQuestionsUnknownTypeFallsBackToText(t *testing.T) {
	raw := `{"questions": [{"questionText": "Odd", "questionType": "slider"}]}`

	drafts, err := ExtractQuestions(raw)
	assert.NoError(t, err)
	assert.Equal(t, models.QuestionTypeText, drafts[0].QuestionType)
}

func TestExtractQuestionsSkipsBlankEntries(t *testing.T) {
	raw := `{"questions": [
		{"questionText": "  "},
		{"questionText": "Kept"},
		"not an object"
	]}`

	drafts, err := ExtractQuestions(raw)
	assert.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, "Kept", drafts[0].QuestionText)
}

func TestExtractQuestionsUnusablePayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "The survey should ask about dental."},
		{"no question arrays", `{"message": "done", "count": 3}`},
		{"array without question shape", `{"items": [{"foo": "bar"}]}`},
		{"empty questions", `{"questions": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractQuestions(tt.raw)
			assert.ErrorIs(t, err, ErrGeneration)
		})
	}
}

func TestExtractQuestionsDropsOptionsForNonOptionTypes(t *testing.T) {
	raw := `{"questions": [{"questionText": "Free text", "questionType": "text", "options": ["a"]}]}`

	drafts, err := ExtractQuestions(raw)
	assert.NoError(t, err)
	assert.Nil(t, drafts[0].Options)
}
