package assistant

import (
	"encoding/json"
	"errors"
	"strings"

	"benefitsportal/internal/models"
)

// ErrGeneration indicates the model reply could not be turned into usable
// survey questions, even after trying every known payload shape.
var ErrGeneration = errors.New("could not extract questions from model response")

// QuestionDraft is one generated survey question before persistence
type QuestionDraft struct {
	QuestionText string              `json:"questionText"`
	QuestionType models.QuestionType `json:"questionType"`
	Options      models.OptionList   `json:"options,omitempty"`
	Required     bool                `json:"required"`
}

// extractor attempts to pull question drafts out of one decoded payload
// shape. It reports false when the shape does not apply, letting the next
// strategy try.
type extractor func(payload map[string]interface{}) ([]QuestionDraft, bool)

var extractors = []extractor{
	extractQuestionsField,
	extractNestedSurveys,
	extractFirstQuestionArray,
}

// ExtractQuestions parses a model reply into question drafts. Models wrap
// JSON in markdown fences or alternate envelope shapes from run to run, so
// parsing tries a sequence of known shapes in order.
func ExtractQuestions(raw string) ([]QuestionDraft, error) {
	cleaned := stripCodeFences(raw)

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		// Some models return a bare array instead of an object
		var list []interface{}
		if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
			return nil, ErrGeneration
		}
		payload = map[string]interface{}{"questions": list}
	}

	for _, extract := range extractors {
		if drafts, ok := extract(payload); ok && len(drafts) > 0 {
			return drafts, nil
		}
	}
	return nil, ErrGeneration
}

// extractQuestionsField handles {"questions": [...]}
func extractQuestionsField(payload map[string]interface{}) ([]QuestionDraft, bool) {
	list, ok := payload["questions"].([]interface{})
	if !ok {
		return nil, false
	}
	return draftsFromList(list)
}

// extractNestedSurveys handles {"quarterlySurvey": {"questions": [...]}, ...}
func extractNestedSurveys(payload map[string]interface{}) ([]QuestionDraft, bool) {
	var drafts []QuestionDraft
	for _, key := range []string{"quarterlySurvey", "annualSurvey"} {
		nested, ok := payload[key].(map[string]interface{})
		if !ok {
			continue
		}
		list, ok := nested["questions"].([]interface{})
		if !ok {
			continue
		}
		if found, ok := draftsFromList(list); ok {
			drafts = append(drafts, found...)
		}
	}
	return drafts, len(drafts) > 0
}

// extractFirstQuestionArray scans every top-level array for elements that
// look like questions and takes the first such array.
func extractFirstQuestionArray(payload map[string]interface{}) ([]QuestionDraft, bool) {
	for _, value := range payload {
		list, ok := value.([]interface{})
		if !ok || len(list) == 0 {
			continue
		}
		first, ok := list[0].(map[string]interface{})
		if !ok || !looksLikeQuestion(first) {
			continue
		}
		return draftsFromList(list)
	}
	return nil, false
}

func looksLikeQuestion(item map[string]interface{}) bool {
	for _, key := range []string{"questionText", "question", "text"} {
		if _, ok := item[key].(string); ok {
			return true
		}
	}
	return false
}

func draftsFromList(list []interface{}) ([]QuestionDraft, bool) {
	var drafts []QuestionDraft
	for _, raw := range list {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if draft, ok := draftFromMap(item); ok {
			drafts = append(drafts, draft)
		}
	}
	return drafts, len(drafts) > 0
}

func draftFromMap(item map[string]interface{}) (QuestionDraft, bool) {
	text := firstString(item, "questionText", "question", "text")
	if strings.TrimSpace(text) == "" {
		return QuestionDraft{}, false
	}

	qtype := models.QuestionType(strings.TrimSpace(firstString(item, "questionType", "type")))
	if !models.ValidQuestionType(qtype) {
		qtype = models.QuestionTypeText
	}

	draft := QuestionDraft{
		QuestionText: strings.TrimSpace(text),
		QuestionType: qtype,
		Required:     boolValue(item, "required"),
	}
	if qtype.HasOptions() {
		draft.Options = optionsValue(item)
	}
	return draft, true
}

func firstString(item map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := item[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func boolValue(item map[string]interface{}, key string) bool {
	b, _ := item[key].(bool)
	return b
}

func optionsValue(item map[string]interface{}) models.OptionList {
	raw, ok := item["options"].([]interface{})
	if !ok {
		return nil
	}
	var options models.OptionList
	for _, entry := range raw {
		if s, ok := entry.(string); ok && strings.TrimSpace(s) != "" {
			options = append(options, strings.TrimSpace(s))
		}
	}
	return options
}

// stripCodeFences removes a surrounding ```json fence when present
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
