package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxContextChars caps how much document text a single prompt carries.
// Longer inputs are truncated with a visible marker rather than rejected.
const MaxContextChars = 15000

const truncationMarker = "\n\n[Content truncated]"

const defaultAssistantName = "Benefits Assistant"

// truncateContext trims text to the prompt ceiling, appending the marker
// when anything was cut
func truncateContext(text string) string {
	return truncateAt(text, MaxContextChars)
}

// truncateAt cuts text to at most limit bytes on a rune boundary, so a
// multi-byte character is never split mid-sequence
func truncateAt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit] + truncationMarker
}

func summarizePrompt(text string) string {
	return fmt.Sprintf(`Summarize the following employee benefits document in plain language.
Focus on what matters to an employee: coverage, eligibility, deadlines and costs.
Keep the summary under 300 words.

Document:
%s`, truncateContext(text))
}

// GroundingDocument is one document made available to the chat assistant
type GroundingDocument struct {
	Title   string
	Content string
}

func chatSystemPrompt(companyName, assistantName string, docs []GroundingDocument) string {
	if strings.TrimSpace(assistantName) == "" {
		assistantName = defaultAssistantName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, the employee benefits assistant for %s.\n", assistantName, companyName)
	b.WriteString("Answer questions using only the benefits documents below. ")
	b.WriteString("If the answer is not covered by the documents, say so and suggest contacting the benefits team. ")
	b.WriteString("Politely decline questions unrelated to employee benefits.\n")

	if len(docs) == 0 {
		b.WriteString("\nNo benefits documents are available yet.")
		return b.String()
	}

	b.WriteString("\nBenefits documents:\n")
	remaining := MaxContextChars
	for _, doc := range docs {
		if remaining <= 0 {
			break
		}
		content := truncateAt(doc.Content, remaining)
		remaining -= len(content)
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", doc.Title, content)
	}
	return b.String()
}

func generateQuestionsPrompt(instructions, sourceText string) string {
	var b strings.Builder
	b.WriteString(`Generate employee benefits survey questions as JSON.
Respond with a single JSON object of the form:
{"questions": [{"questionText": "...", "questionType": "text|textarea|number|date|radio|checkbox|select|multichoice|scale", "options": ["..."], "required": true}]}
Only radio, checkbox, select and multichoice questions carry options.
`)
	if strings.TrimSpace(instructions) != "" {
		fmt.Fprintf(&b, "\nInstructions:\n%s\n", instructions)
	}
	if strings.TrimSpace(sourceText) != "" {
		fmt.Fprintf(&b, "\nBase the questions on this material:\n%s\n", truncateContext(sourceText))
	}
	return b.String()
}

func websiteCopyPrompt(instructions, sourceText string) string {
	var b strings.Builder
	b.WriteString(`Write website copy for an employee benefits portal as JSON.
Respond with a single JSON object of the form:
{"headline": "...", "tagline": "...", "about": "...", "sections": [{"title": "...", "body": "..."}]}
`)
	if strings.TrimSpace(instructions) != "" {
		fmt.Fprintf(&b, "\nInstructions:\n%s\n", instructions)
	}
	if strings.TrimSpace(sourceText) != "" {
		fmt.Fprintf(&b, "\nSource material:\n%s\n", truncateContext(sourceText))
	}
	return b.String()
}
