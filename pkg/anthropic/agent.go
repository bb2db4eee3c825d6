package anthropic

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

// AgentSpec configures a single-purpose analyst agent: a system prompt and
// the sampling parameters it runs with.
type AgentSpec struct {
	Name         string
	Instructions string
	Model        string
	MaxTokens    int64
	Temperature  *float64
}

var validate = validator.New(validator.WithRequiredStructEnabled())

const jsonDirective = "Respond with a single JSON object matching the requested output format. " +
	"Output only the JSON object, with no surrounding prose or markdown fences."

// RunObject executes the agent against the input and unmarshals the reply
// into T. The decoded value is validated against its struct tags, so a
// reply with an out-of-vocabulary enum value is an error, not a silent
// passthrough.
func RunObject[T any](ctx context.Context, client Client, spec AgentSpec, input string) (T, TokenUsage, error) {
	var out T

	resp, err := client.CreateMessage(ctx, MessageRequest{
		Model:       spec.Model,
		MaxTokens:   spec.MaxTokens,
		System:      spec.Instructions + "\n\n" + jsonDirective,
		Messages:    []Message{{Role: "user", Content: input}},
		Temperature: spec.Temperature,
	})
	if err != nil {
		return out, TokenUsage{}, eris.Wrapf(err, "anthropic: agent %s", spec.Name)
	}

	raw := ExtractJSON(resp.Text())
	if raw == "" {
		return out, resp.Usage, eris.Errorf("anthropic: agent %s: no JSON object in reply", spec.Name)
	}

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, resp.Usage, eris.Wrapf(err, "anthropic: agent %s: decode reply", spec.Name)
	}

	if err := validate.Struct(out); err != nil {
		return out, resp.Usage, eris.Wrapf(err, "anthropic: agent %s: validate reply", spec.Name)
	}

	return out, resp.Usage, nil
}

// ExtractJSON pulls the outermost JSON object out of a model reply,
// tolerating markdown fences and surrounding prose.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
