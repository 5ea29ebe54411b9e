package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func nowPtr() *time.Time {
	now := time.Now()
	return &now
}

func TestAnswerValueUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantText string
		wantList []string
		isEmpty  bool
	}{
		{
			name:     "string answer",
			input:    `"4"`,
			wantText: "4",
			isEmpty:  false,
		},
		{
			name:     "list answer",
			input:    `["dental","vision"]`,
			wantList: []string{"dental", "vision"},
			isEmpty:  false,
		},
		{
			name:    "empty string is unanswered",
			input:   `""`,
			isEmpty: true,
		},
		{
			name:    "whitespace string is unanswered",
			input:   `"   "`,
			isEmpty: true,
		},
		{
			name:    "null is unanswered",
			input:   `null`,
			isEmpty: true,
		},
		{
			name:     "empty list is unanswered",
			input:    `[]`,
			wantList: []string{},
			isEmpty:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v AnswerValue
			err := json.Unmarshal([]byte(tt.input), &v)
			assert.NoError(t, err)
			assert.Equal(t, tt.isEmpty, v.IsEmpty())
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, v.Text)
			}
			if tt.wantList != nil {
				assert.Equal(t, tt.wantList, v.List)
			}
		})
	}
}

func TestAnswerValueMarshalRoundTrip(t *testing.T) {
	list := NewListAnswer([]string{"a", "b"})
	data, err := json.Marshal(list)
	assert.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))

	text := NewTextAnswer("hello")
	data, err = json.Marshal(text)
	assert.NoError(t, err)
	assert.JSONEq(t, `"hello"`, string(data))
}

func TestAnswerValueRejectsInvalidJSON(t *testing.T) {
	var v AnswerValue
	assert.Error(t, json.Unmarshal([]byte(`{"nested":"object"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &v))
}

func TestParseOptionList(t *testing.T) {
	opts := ParseOptionList("Dental\n\n  Vision  \nLife\n")
	assert.Equal(t, OptionList{"Dental", "Vision", "Life"}, opts)
	assert.Equal(t, "Dental\nVision\nLife", opts.Textarea())

	assert.Nil(t, ParseOptionList("\n  \n"))
}

func TestQuestionTypeHasOptions(t *testing.T) {
	assert.True(t, QuestionTypeRadio.HasOptions())
	assert.True(t, QuestionTypeMultichoice.HasOptions())
	assert.False(t, QuestionTypeText.HasOptions())
	assert.False(t, QuestionTypeScale.HasOptions())
}

func TestTemplateIsPublished(t *testing.T) {
	template := &SurveyTemplate{Status: TemplateStatusDraft}
	assert.False(t, template.IsPublished())

	now := nowPtr()
	template.PublishedAt = now
	assert.False(t, template.IsPublished(), "published_at alone is not enough")

	template.Status = TemplateStatusActive
	assert.True(t, template.IsPublished())

	template.Status = TemplateStatusArchived
	assert.False(t, template.IsPublished(), "archived templates leave the employee view")
}
