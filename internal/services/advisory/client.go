package advisory

import (
	"context"
	"fmt"
	"time"

	"ForecastAI/internal/domain/models"
	domsvc "ForecastAI/internal/domain/service"
	"ForecastAI/pkg/config"
	applogger "ForecastAI/pkg/logger"
)

// Provider produces the raw JSON reply of a model for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Client implements domsvc.Advisor on top of a Provider. Any failure after the
// length check is reported as models.ErrAdvisoryFailure; the cause is only logged.
type Client struct {
	provider Provider
	opts     PromptOptions
	log      *applogger.Logger
}

func NewClient(p Provider, opts PromptOptions, l *applogger.Logger) *Client {
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{provider: p, opts: opts, log: l.With(applogger.String("provider", p.Name()))}
}

// New builds the client for the configured provider.
func New(cfg config.AdvisoryConfig, l *applogger.Logger) (*Client, error) {
	var p Provider
	switch cfg.Provider {
	case config.ProviderGemini:
		p = NewGeminiProvider(cfg.BaseURL, cfg.Model, cfg.APIKey, cfg.Timeout)
	case config.ProviderOllama:
		p = NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown advisory provider %q", cfg.Provider)
	}

	return NewClient(p, PromptOptions{
		Currency:      cfg.Currency,
		Language:      cfg.AdviceLanguage,
		MarketContext: cfg.MarketContext,
	}, l), nil
}

func (c *Client) Provider() string { return c.provider.Name() }

// Analyze sends the series for analysis. Series shorter than MinAdvisoryPoints are
// rejected with models.ErrInsufficientData before any request is built.
func (c *Client) Analyze(ctx context.Context, series models.Series) (models.Analysis, error) {
	if err := CheckSufficient(series); err != nil {
		return models.Analysis{}, err
	}

	start := time.Now()
	raw, err := c.provider.Generate(ctx, BuildPrompt(series, c.opts))
	if err != nil {
		return models.Analysis{}, c.fail(err, start)
	}

	a, err := DecodeAnalysis(raw)
	if err != nil {
		return models.Analysis{}, c.fail(err, start)
	}

	c.log.Debug("advisory analysis received",
		applogger.Int("points", len(series)),
		applogger.String("trend", string(a.Trend)),
		applogger.Duration("took", time.Since(start)))
	return a, nil
}

func (c *Client) fail(cause error, start time.Time) error {
	c.log.Warn("advisory call failed", applogger.Error(cause), applogger.Duration("took", time.Since(start)))
	return fmt.Errorf("%w: %v", models.ErrAdvisoryFailure, cause)
}

var _ domsvc.Advisor = (*Client)(nil)
