package models

// Trend is the direction label returned by the advisory service.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Analysis is the structured narrative returned by the advisory service.
// Every field is required; Advice holds exactly three tips.
type Analysis struct {
	Forecast   string   `json:"forecast" validate:"required"`
	Advice     []string `json:"advice" validate:"len=3,dive,required"`
	Trend      Trend    `json:"trend" validate:"oneof=up down stable"`
	Confidence string   `json:"confidence" validate:"required"`
}
