package advisory

import (
	"context"
	"fmt"
	"time"
)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   map[string]interface{} `json:"format"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error"`
}

// OllamaProvider calls a self-hosted Ollama server with structured output.
type OllamaProvider struct {
	base  *HTTPServiceBase
	model string
}

func NewOllamaProvider(baseURL, model string, timeout time.Duration) *OllamaProvider {
	return &OllamaProvider{
		base:  NewHTTPServiceBase(baseURL, timeout, nil),
		model: model,
	}
}

func (o *OllamaProvider) Name() string { return "ollama" }

func (o *OllamaProvider) Generate(ctx context.Context, prompt string) ([]byte, error) {
	req := ollamaRequest{
		Model:    o.model,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   responseSchema(false),
	}

	var resp ollamaResponse
	if err := o.base.PostJSON(ctx, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("ollama: %s", resp.Error)
	}
	if resp.Message.Content == "" {
		return nil, fmt.Errorf("empty message (done=%t)", resp.Done)
	}
	return []byte(resp.Message.Content), nil
}
