package advisory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ForecastAI/internal/domain/models"
)

// PromptOptions localizes the prompt.
type PromptOptions struct {
	Currency      string
	Language      string
	MarketContext string
}

// SummarizeSeries renders the series as "Jan: 1200000 MMK, Feb: 1500000 MMK".
// Amounts are printed in plain decimal notation, never in exponent form.
func SummarizeSeries(series models.Series, currency string) string {
	parts := make([]string, len(series))
	for i, p := range series {
		parts[i] = fmt.Sprintf("%s: %s %s", p.Label, decimal.NewFromFloat(p.Value).String(), currency)
	}
	return strings.Join(parts, ", ")
}

// BuildPrompt returns the instruction sent to the model. Fit parameters are not included;
// the model forms its own view of the trend.
func BuildPrompt(series models.Series, opts PromptOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert business consultant for small business owners in the %s.\n", opts.MarketContext)
	fmt.Fprintf(&b, "Analyze the following historical monthly sales data (in %s): %s.\n\n", opts.Currency, SummarizeSeries(series, opts.Currency))
	b.WriteString("Tasks:\n")
	b.WriteString("1. Forecast the next 4 months based on the trend.\n")
	b.WriteString("2. Identify the overall trend (up, down, or stable).\n")
	fmt.Fprintf(&b, "3. Provide 3 specific actionable business tips in %s language specifically tailored to the %s context "+
		"(consider factors like inflation, seasonality, or local consumer behavior).\n", opts.Language, opts.MarketContext)
	b.WriteString("4. Estimate your confidence in this forecast (High/Medium/Low).\n\n")
	b.WriteString("Respond in JSON format with the fields forecast, advice, trend and confidence.")
	return b.String()
}
