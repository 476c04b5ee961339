package upstream

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const providerOpenAI = "openai"

type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI chat completion client. baseURL overrides the
// public API endpoint when non-empty.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAI) Complete(ctx context.Context, c Completion) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.System},
			{Role: openai.ChatMessageRoleUser, Content: c.Message},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	})
	if err != nil {
		return "", fromOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Provider: providerOpenAI, StatusCode: http.StatusBadGateway, Message: MsgEmptyCompletion}
	}
	log.Debug().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("openai completion")
	return resp.Choices[0].Message.Content, nil
}

func fromOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Provider:   providerOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Cause:      err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Provider: providerOpenAI, StatusCode: reqErr.HTTPStatusCode, Cause: err}
	}
	return &Error{Provider: providerOpenAI, Cause: err}
}
