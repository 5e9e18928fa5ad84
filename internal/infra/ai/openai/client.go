package openai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/commstack/letterlens/internal/domain/ai"
	"github.com/commstack/letterlens/internal/domain/analysis"
	"github.com/commstack/letterlens/internal/domain/customers"
	"github.com/commstack/letterlens/internal/domain/personalization"
	"github.com/commstack/letterlens/internal/infra/ai/prompt"
)

const maxTokens = 2048

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// AnalyzeLetter asks the model for an AnalysisResult-shaped JSON object.
// Transport errors, malformed responses and missing braces all map to
// ErrNoResult so the caller falls back to the pattern path.
func (c *Client) AnalyzeLetter(ctx context.Context, content, customerName string) (*analysis.Partial, error) {
	raw, err := c.complete(ctx,
		prompt.AnalysisSystemPrompt(),
		prompt.AnalysisUserPrompt(content, customerName),
	)
	if err != nil {
		return nil, err
	}

	var partial analysis.Partial
	if err := decodeObject(raw, &partial); err != nil {
		return nil, domai.ErrNoResult
	}
	return &partial, nil
}

// PersonalizeLetter asks the model for a channel bundle.
func (c *Client) PersonalizeLetter(ctx context.Context, letter string, cust *customers.Customer, plan *personalization.Plan) (*personalization.Bundle, error) {
	raw, err := c.complete(ctx,
		prompt.PersonalizationSystemPrompt(),
		prompt.PersonalizationUserPrompt(letter, cust, plan),
	)
	if err != nil {
		return nil, err
	}

	var bundle personalization.Bundle
	if err := decodeObject(raw, &bundle); err != nil {
		return nil, domai.ErrNoResult
	}
	return &bundle, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		if quotaError(err) {
			return "", domai.ErrQuotaExceeded
		}
		return "", domai.ErrNoResult
	}
	if len(resp.Choices) == 0 {
		return "", domai.ErrNoResult
	}
	return resp.Choices[0].Message.Content, nil
}

// decodeObject carves the substring between the first '{' and the last '}'
// and decodes it into out.
func decodeObject(raw string, out any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return domai.ErrNoResult
	}
	return json.Unmarshal([]byte(raw[start:end+1]), out)
}

func quotaError(err error) bool {
	if apiErr, ok := err.(*openai.APIError); ok {
		return apiErr.HTTPStatusCode == 429
	}
	return false
}
