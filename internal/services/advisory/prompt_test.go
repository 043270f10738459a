package advisory

import (
	"strings"
	"testing"

	"ForecastAI/internal/domain/models"
)

func TestSummarizeSeries(t *testing.T) {
	got := SummarizeSeries(models.DefaultSeries()[:3], "MMK")
	want := "Jan: 1200000 MMK, Feb: 1500000 MMK, Mar: 1800000 MMK"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSummarizeSeriesPlainNotation(t *testing.T) {
	got := SummarizeSeries(models.Series{{Label: "Q1", Value: 2.5e9}, {Label: "Q2", Value: 0.75}}, "USD")
	want := "Q1: 2500000000 USD, Q2: 0.75 USD"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(models.DefaultSeries(), testOpts)

	for _, s := range []string{
		"Jun: 2400000 MMK",
		"next 4 months",
		"up, down, or stable",
		"3 specific actionable business tips in Myanmar language",
		"High/Medium/Low",
		"JSON",
	} {
		if !strings.Contains(p, s) {
			t.Fatalf("prompt missing %q:\n%s", s, p)
		}
	}
	if strings.Contains(strings.ToLower(p), "slope") {
		t.Fatalf("prompt must not carry fit parameters")
	}
}

func TestStripCodeFence(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	if got := string(stripCodeFence([]byte(in))); got != `{"a":1}` {
		t.Fatalf("got %q", got)
	}
	if got := string(stripCodeFence([]byte(" {\"a\":1} "))); got != `{"a":1}` {
		t.Fatalf("got %q", got)
	}
}
