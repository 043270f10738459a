package models

import "time"

// AdvisoryStatus tracks the advisory call of a session.
type AdvisoryStatus string

const (
	AdvisoryIdle      AdvisoryStatus = "idle"
	AdvisoryPending   AdvisoryStatus = "pending"
	AdvisorySucceeded AdvisoryStatus = "succeeded"
	AdvisoryFailed    AdvisoryStatus = "failed"
)

// User-facing messages stored on the session. The cause of an advisory failure is never shown.
const (
	InsufficientDataMessage = "please enter at least 3 months of sales data"
	AdvisoryFailedMessage   = "failed to get AI advice, please try again"
)

// AdvisoryState is the last advisory outcome of a session. A failed call keeps the
// previous Analysis so the dashboard stays usable.
type AdvisoryState struct {
	Status      AdvisoryStatus `json:"status"`
	Analysis    *Analysis      `json:"analysis,omitempty"`
	Error       string         `json:"error,omitempty"`
	RequestedAt *time.Time     `json:"requested_at,omitempty"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
}

// Session exclusively owns one editable series for the lifetime of a dashboard visit.
type Session struct {
	ID        string        `json:"id"`
	Series    Series        `json:"series"`
	Advisory  AdvisoryState `json:"advisory"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SessionEventType names a change pushed to session subscribers.
type SessionEventType string

const (
	EventSnapshot          SessionEventType = "session.snapshot"
	EventSeriesUpdated     SessionEventType = "series.updated"
	EventAdvisoryPending   SessionEventType = "advisory.pending"
	EventAdvisorySucceeded SessionEventType = "advisory.succeeded"
	EventAdvisoryFailed    SessionEventType = "advisory.failed"
)

// SessionEvent carries the session state after a change and, for series changes,
// the recomputed projection.
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	SessionID string           `json:"session_id"`
	Session   *Session         `json:"session,omitempty"`
	Forecast  *Projection      `json:"forecast,omitempty"`
	At        time.Time        `json:"at"`
}
