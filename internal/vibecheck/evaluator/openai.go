// Package evaluator asks a language model to assess a product idea.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
)

const systemPrompt = `You are a pragmatic startup analyst reviewing side projects built by indie makers.
Assess the product described by the user and reply with a single JSON object with exactly these keys:
"summary" (string, 2-3 sentences),
"market_fit" (string),
"target_audience" (string),
"competitors" (array of strings),
"strengths" (array of strings),
"weaknesses" (array of strings),
"risks" (array of strings),
"recommendations" (array of strings),
"scores" (object with numeric keys "market", "execution", "innovation", "monetization", "overall", each from 0 to 10).
Be specific and honest. Do not include any text outside the JSON object.`

// OpenAI evaluates ideas with a chat completion in JSON mode.
type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return NewOpenAIWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAIWithConfig allows pointing the client at another base URL.
func NewOpenAIWithConfig(cfg openai.ClientConfig, model string) *OpenAI {
	return &OpenAI{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: 60 * time.Second,
	}
}

func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Evaluate(ctx context.Context, in domain.Input) (*domain.Evaluation, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(in)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEvaluationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrEvaluationFailed)
	}

	var ev domain.Evaluation
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &ev); err != nil {
		return nil, fmt.Errorf("%w: decode completion: %v", domain.ErrEvaluationFailed, err)
	}
	return &ev, nil
}

func userPrompt(in domain.Input) string {
	var b strings.Builder
	if in.WebsiteURL != "" {
		fmt.Fprintf(&b, "Website: %s\n", in.WebsiteURL)
	}
	if in.IdeaDescription != "" {
		fmt.Fprintf(&b, "Idea:\n%s\n", in.IdeaDescription)
	}
	return b.String()
}
