package advisory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"ForecastAI/internal/domain/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeAnalysis parses a model reply and enforces the response contract: every
// field present, exactly three tips, trend one of up/down/stable.
func DecodeAnalysis(raw []byte) (models.Analysis, error) {
	var a models.Analysis
	if err := json.Unmarshal(stripCodeFence(raw), &a); err != nil {
		return models.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	if err := validate.Struct(a); err != nil {
		return models.Analysis{}, fmt.Errorf("analysis contract: %w", err)
	}
	return a, nil
}

// stripCodeFence removes a ```json ... ``` wrapper some models add despite JSON mode.
func stripCodeFence(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = bytes.TrimPrefix(b, []byte("```"))
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
	return bytes.TrimSpace(b)
}

// responseSchema describes models.Analysis in the OpenAPI subset both providers accept.
// Gemini wants upper-case type names, JSON Schema lower-case.
func responseSchema(upper bool) map[string]interface{} {
	t := func(s string) string {
		if upper {
			return map[string]string{"object": "OBJECT", "string": "STRING", "array": "ARRAY"}[s]
		}
		return s
	}
	return map[string]interface{}{
		"type": t("object"),
		"properties": map[string]interface{}{
			"forecast": map[string]interface{}{"type": t("string"), "description": "A brief summary of the forecast"},
			"advice": map[string]interface{}{
				"type":        t("array"),
				"items":       map[string]interface{}{"type": t("string")},
				"description": "3 actionable business tips",
			},
			"trend":      map[string]interface{}{"type": t("string"), "enum": []string{"up", "down", "stable"}},
			"confidence": map[string]interface{}{"type": t("string")},
		},
		"required": []string{"forecast", "advice", "trend", "confidence"},
	}
}
