package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Question is one item of the test being analyzed.
type Question struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Topic    string  `json:"topic,omitempty"`
	MaxMarks float64 `json:"maxMarks,omitempty"`
}

// Response is a student's answer to one question.
type Response struct {
	QuestionID string  `json:"questionId"`
	Answer     string  `json:"answer"`
	Correct    bool    `json:"correct"`
	Marks      float64 `json:"marks,omitempty"`
}

// Submission is the payload a performance analysis is requested for.
type Submission struct {
	TestTitle string     `json:"testTitle,omitempty"`
	Questions []Question `json:"questions"`
	Responses []Response `json:"responses"`
}

// Completer is the model call the analyzer depends on.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Analyzer builds analysis prompts and parses model replies.
type Analyzer struct {
	model Completer
}

// NewAnalyzer creates an analyzer over the given model client.
// Panics if model is nil.
func NewAnalyzer(model Completer) *Analyzer {
	if model == nil {
		panic("insights: model client must not be nil")
	}
	return &Analyzer{model: model}
}

const systemPrompt = `You are an educational performance analyst. ` +
	`Reply with a single JSON object and nothing else. The object must have ` +
	`these keys: "summary" (string), "strengths" (array of strings), ` +
	`"weaknesses" (array of strings), "recommendations" (array of strings).`

// Analyze asks the model for a performance breakdown of the submission
// and returns the parsed analysis object. Replies wrapped in markdown
// code fences are unwrapped before parsing; anything that still is not
// a JSON object fails with ErrMalformedReply under ErrUpstream.
func (a *Analyzer) Analyze(ctx context.Context, sub Submission) (map[string]any, error) {
	if len(sub.Questions) == 0 || len(sub.Responses) == 0 {
		return nil, ErrMissingInput
	}

	reply, err := a.model.Complete(ctx, systemPrompt, buildPrompt(sub))
	if err != nil {
		return nil, err
	}

	var report map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &report); err != nil {
		return nil, errors.Join(ErrUpstream, ErrMalformedReply, err)
	}
	return report, nil
}

func buildPrompt(sub Submission) string {
	var b strings.Builder

	if sub.TestTitle != "" {
		fmt.Fprintf(&b, "Test: %s\n\n", sub.TestTitle)
	}
	b.WriteString("Questions:\n")
	for i, q := range sub.Questions {
		fmt.Fprintf(&b, "%d. %s", i+1, q.Text)
		if q.Topic != "" {
			fmt.Fprintf(&b, " (topic: %s)", q.Topic)
		}
		if q.MaxMarks > 0 {
			fmt.Fprintf(&b, " [%g marks]", q.MaxMarks)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nStudent responses:\n")
	answered := make(map[string]int, len(sub.Questions))
	for i, q := range sub.Questions {
		answered[q.ID] = i + 1
	}
	for _, r := range sub.Responses {
		num := answered[r.QuestionID]
		verdict := "incorrect"
		if r.Correct {
			verdict = "correct"
		}
		fmt.Fprintf(&b, "Q%d: %q (%s, %g marks)\n", num, r.Answer, verdict, r.Marks)
	}

	b.WriteString("\nAnalyze the student's performance across topics.")
	return b.String()
}

// stripCodeFence unwraps a reply of the form ```json\n...\n``` that
// models produce despite being told to return bare JSON.
func stripCodeFence(reply string) string {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line, e.g. "json".
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
