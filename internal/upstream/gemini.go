package upstream

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const providerGemini = "gemini"

// Gemini opens a client per completion; the proxy keeps no state between
// invocations.
type Gemini struct {
	apiKey string
	model  string
	opts   []option.ClientOption
}

func NewGemini(apiKey, model string, opts ...option.ClientOption) *Gemini {
	return &Gemini{apiKey: apiKey, model: model, opts: opts}
}

func (g *Gemini) Complete(ctx context.Context, c Completion) (string, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", &Error{Provider: providerGemini, Cause: errors.Wrap(err, "create gemini client")}
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(c.System)}}
	model.SetTemperature(c.Temperature)
	if c.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(c.Message))
	if err != nil {
		return "", fromGeminiError(err)
	}
	text := extractText(resp)
	if text == "" {
		return "", &Error{Provider: providerGemini, StatusCode: http.StatusBadGateway, Message: MsgEmptyCompletion}
	}
	return text, nil
}

func fromGeminiError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &Error{
			Provider:   providerGemini,
			StatusCode: gerr.Code,
			Message:    gerr.Message,
			Cause:      err,
		}
	}
	return &Error{Provider: providerGemini, Cause: err}
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		// first candidate with content wins
		if b.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
