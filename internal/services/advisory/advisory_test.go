package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ForecastAI/internal/domain/models"
	"ForecastAI/pkg/config"
)

const validReply = `{"forecast":"Sales keep growing","advice":["a","b","c"],"trend":"up","confidence":"High"}`

var testOpts = PromptOptions{Currency: "MMK", Language: "Myanmar", MarketContext: "Myanmar market"}

func geminiServer(t *testing.T, hits *int32, status int, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
			assert.Equal(t, "OBJECT", req.GenerationConfig.ResponseSchema["type"])
			if assert.Len(t, req.Contents, 1) {
				assert.Contains(t, req.Contents[0].Parts[0].Text, "Jan: 1200000 MMK")
			}
		}

		if status != http.StatusOK {
			http.Error(w, `{"error":{"message":"boom"}}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content":      map[string]interface{}{"role": "model", "parts": []map[string]string{{"text": text}}},
				"finishReason": "STOP",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGeminiClient(url, key string) *Client {
	return NewClient(NewGeminiProvider(url, "gemini-test", key, 5*time.Second), testOpts, nil)
}

func TestClient_Gemini_Success(t *testing.T) {
	var hits int32
	srv := geminiServer(t, &hits, http.StatusOK, validReply)

	a, err := newGeminiClient(srv.URL, "key-123").Analyze(context.Background(), models.DefaultSeries())
	require.NoError(t, err)

	assert.Equal(t, models.TrendUp, a.Trend)
	assert.Len(t, a.Advice, 3)
	assert.Equal(t, "High", a.Confidence)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_InsufficientData_NoRequest(t *testing.T) {
	var hits int32
	srv := geminiServer(t, &hits, http.StatusOK, validReply)
	c := newGeminiClient(srv.URL, "key-123")

	for _, n := range []int{0, 1, 2} {
		_, err := c.Analyze(context.Background(), models.DefaultSeries()[:n])
		assert.ErrorIs(t, err, models.ErrInsufficientData)
		assert.NotErrorIs(t, err, models.ErrAdvisoryFailure)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestClient_Gemini_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		text   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"unauthorized", http.StatusUnauthorized, ""},
		{"not json", http.StatusOK, "the trend is up"},
		{"two tips", http.StatusOK, `{"forecast":"x","advice":["a","b"],"trend":"up","confidence":"Low"}`},
		{"bad trend", http.StatusOK, `{"forecast":"x","advice":["a","b","c"],"trend":"sideways","confidence":"Low"}`},
		{"missing confidence", http.StatusOK, `{"forecast":"x","advice":["a","b","c"],"trend":"down"}`},
		{"empty tip", http.StatusOK, `{"forecast":"x","advice":["a","","c"],"trend":"down","confidence":"Low"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hits int32
			srv := geminiServer(t, &hits, tc.status, tc.text)

			_, err := newGeminiClient(srv.URL, "key-123").Analyze(context.Background(), models.DefaultSeries())
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrAdvisoryFailure)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
		})
	}
}

func TestClient_Gemini_MissingKey(t *testing.T) {
	var hits int32
	srv := geminiServer(t, &hits, http.StatusOK, validReply)

	_, err := newGeminiClient(srv.URL, "").Analyze(context.Background(), models.DefaultSeries())
	assert.ErrorIs(t, err, models.ErrAdvisoryFailure)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestClient_Gemini_Blocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(NewGeminiProvider(srv.URL, "m", "k", time.Second), testOpts, nil).
		Analyze(context.Background(), models.DefaultSeries())
	assert.ErrorIs(t, err, models.ErrAdvisoryFailure)
}

func TestClient_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newGeminiClient(srv.URL, "key-123").Analyze(ctx, models.DefaultSeries())
	assert.ErrorIs(t, err, models.ErrAdvisoryFailure)
}

func TestClient_Ollama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-test", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "object", req.Format["type"])

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Message: ollamaMessage{Role: "assistant", Content: "```json\n" + validReply + "\n```"},
			Done:    true,
		})
	}))
	defer srv.Close()

	c := NewClient(NewOllamaProvider(srv.URL, "llama-test", time.Second), testOpts, nil)
	assert.Equal(t, "ollama", c.Provider())

	a, err := c.Analyze(context.Background(), models.DefaultSeries())
	require.NoError(t, err)
	assert.Equal(t, "Sales keep growing", a.Forecast)
}

func TestNew_Providers(t *testing.T) {
	c, err := New(config.AdvisoryConfig{Provider: config.ProviderGemini, BaseURL: "http://x", Model: "m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Provider())

	c, err = New(config.AdvisoryConfig{Provider: config.ProviderOllama, BaseURL: "http://x", Model: "m"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama", c.Provider())

	_, err = New(config.AdvisoryConfig{Provider: "openai"}, nil)
	assert.Error(t, err)
}

func TestCheckSufficient(t *testing.T) {
	assert.ErrorIs(t, CheckSufficient(nil), models.ErrInsufficientData)
	assert.ErrorIs(t, CheckSufficient(models.DefaultSeries()[:2]), models.ErrInsufficientData)
	assert.NoError(t, CheckSufficient(models.DefaultSeries()[:3]))
	assert.False(t, errors.Is(CheckSufficient(models.DefaultSeries()), models.ErrInsufficientData))
}
