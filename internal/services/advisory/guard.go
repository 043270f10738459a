package advisory

import (
	"fmt"

	"ForecastAI/internal/domain/models"
)

// MinAdvisoryPoints is the shortest series worth sending for analysis.
const MinAdvisoryPoints = 3

// CheckSufficient rejects series too short for an advisory request.
func CheckSufficient(series models.Series) error {
	if len(series) < MinAdvisoryPoints {
		return fmt.Errorf("%w: got %d entries, need at least %d", models.ErrInsufficientData, len(series), MinAdvisoryPoints)
	}
	return nil
}
