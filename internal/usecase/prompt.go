// File: internal/usecase/prompt.go
package usecase

import (
	"fmt"
	"strings"
	"text/template"

	"mood-aware-chat/internal/domain/model"
	"mood-aware-chat/internal/domain/ports/adapter"
	"mood-aware-chat/internal/session"
)

// The generation prompt carries the mood context, retrieved snippets and
// recent history alongside the question, oldest history first.
const promptTemplate = `Use the following context and chat history to answer the question.
Consider the user's emotional state in your response.

[User Mood Context]
Dominant Mood: {{.DominantMood}}
Last Interaction Mood: {{.LastMood}}

[Context]
{{.Context}}

[Chat History]
{{.ChatHistory}}

[Question]
{{.Question}}

[Response]
`

var promptTmpl = template.Must(template.New("turn").Parse(promptTemplate))

type promptInputs struct {
	DominantMood model.Mood
	LastMood     model.Mood
	Context      string
	ChatHistory  string
	Question     string
}

// buildPrompt renders the single user message sent to the generation
// provider. History lines are formatted "text (Mood: label)", oldest first.
func buildPrompt(in promptInputs) (string, error) {
	var b strings.Builder
	if err := promptTmpl.Execute(&b, in); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

// historyLines renders stored messages oldest-first, weaving in the assistant
// reply the session buffered for each question. The stored rows already carry
// every question, so the buffer contributes only replies; rendering its
// questions too would repeat each one. The repository returns messages
// newest-first, exchanges arrive oldest-first.
func historyLines(msgs []*model.ChatMessage, exs []session.Exchange) []string {
	replies := make(map[string][]string, len(exs))
	for _, ex := range exs {
		if ex.Reply != "" {
			replies[ex.Question] = append(replies[ex.Question], ex.Reply)
		}
	}
	lines := make([]string, 0, len(msgs)*2)
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		lines = append(lines, fmt.Sprintf("%s (Mood: %s)", m.Text, m.Mood))
		if q := replies[m.Text]; len(q) > 0 {
			lines = append(lines, "assistant: "+q[0])
			replies[m.Text] = q[1:]
		}
	}
	return lines
}

func contextBlock(entries []adapter.SemanticEntry) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Text)
	}
	return strings.Join(parts, "\n")
}
