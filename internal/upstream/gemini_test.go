package upstream

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestFromGeminiError_GoogleAPIError(t *testing.T) {
	err := fromGeminiError(fmt.Errorf("generate: %w", &googleapi.Error{
		Code:    http.StatusTooManyRequests,
		Message: "Resource has been exhausted",
	}))

	ue, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, "gemini", ue.Provider)
	require.Equal(t, http.StatusTooManyRequests, ue.StatusCode)
	require.Equal(t, "Resource has been exhausted", ue.Message)
	require.True(t, IsRateLimit(err))
}

func TestFromGeminiError_Unclassified(t *testing.T) {
	err := fromGeminiError(fmt.Errorf("dial tcp: connection refused"))

	ue, ok := AsError(err)
	require.True(t, ok)
	require.Zero(t, ue.StatusCode)
	require.Contains(t, ue.Error(), "connection refused")
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hallo "), genai.Text("Welt")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}
	require.Equal(t, "Hallo Welt", extractText(resp))
	require.Empty(t, extractText(nil))
}
