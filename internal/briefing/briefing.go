// Package briefing asks an LLM to turn a computed route into a short raid
// briefing and a per-raid packing checklist.
package briefing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultMaxTokens bounds a single response.
const DefaultMaxTokens = 1024

// RaidChecklist is what to bring into one raid.
type RaidChecklist struct {
	Raid  int      `json:"raid"`
	Map   string   `json:"map"`
	Bring []string `json:"bring"`
	Notes string   `json:"notes"`
}

// Checklist is the structured response of Client.Checklist.
type Checklist struct {
	Raids   []RaidChecklist `json:"raids"`
	Summary string          `json:"summary"`
}

// Client wraps the Anthropic SDK.
type Client struct {
	inner     anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClient creates a briefing client. apiKey defaults to ANTHROPIC_API_KEY.
// model is required; extra options are passed to the SDK.
func NewClient(apiKey, model string, maxTokens int64, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}
	if model == "" {
		return nil, fmt.Errorf("no briefing model configured")
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	inner := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Client{inner: inner, model: anthropic.Model(model), maxTokens: maxTokens}, nil
}

const briefSystemPrompt = `You are an experienced squad lead giving a pre-raid briefing.
Be concrete and brief. Use the map names and task names exactly as given.
Do not invent objectives that are not in the route.`

// BriefRoute returns a narrative briefing for a rendered route prompt.
func (c *Client) BriefRoute(ctx context.Context, routePrompt string) (string, error) {
	return c.complete(ctx, briefSystemPrompt, routePrompt)
}

const checklistPrompt = `For the route below, list what the player should bring into each raid.

Return your answer as JSON with this exact structure:
{
  "raids": [
    {"raid": <1-based raid number>, "map": "<map>", "bring": ["<item or key>"], "notes": "<one sentence>"}
  ],
  "summary": "<one short paragraph>"
}

Return ONLY the JSON object. No markdown fences, no commentary outside the JSON.

`

// Checklist asks for a structured per-raid packing list.
func (c *Client) Checklist(ctx context.Context, routePrompt string) (*Checklist, error) {
	text, err := c.complete(ctx, briefSystemPrompt, checklistPrompt+routePrompt)
	if err != nil {
		return nil, err
	}

	text = stripJSONFences(text)

	var out Checklist
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parse checklist response: %w\nraw: %s", err, text)
	}
	return &out, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// stripJSONFences removes markdown code fences around a JSON answer.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
