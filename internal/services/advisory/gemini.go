package advisory

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var errMissingAPIKey = errors.New("advisory api key is not configured")

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string                 `json:"responseMimeType"`
	ResponseSchema   map[string]interface{} `json:"responseSchema"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GeminiProvider calls the Generative Language REST API in JSON mode.
type GeminiProvider struct {
	base   *HTTPServiceBase
	model  string
	hasKey bool
}

func NewGeminiProvider(baseURL, model, apiKey string, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		base:   NewHTTPServiceBase(baseURL, timeout, map[string]string{"x-goog-api-key": apiKey}),
		model:  model,
		hasKey: apiKey != "",
	}
}

func (g *GeminiProvider) Name() string { return "gemini" }

// Generate returns the raw JSON text of the first candidate.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if !g.hasKey {
		return nil, errMissingAPIKey
	}

	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(true),
		},
	}

	var resp geminiResponse
	path := "/v1beta/models/" + url.PathEscape(g.model) + ":generateContent"
	if err := g.base.PostJSON(ctx, path, req, &resp); err != nil {
		return nil, err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty candidate (finish reason %q)", resp.Candidates[0].FinishReason)
	}
	return []byte(text.String()), nil
}
