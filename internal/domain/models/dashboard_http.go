package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Requests for the dashboard HTTP endpoints.

type SeriesRequest struct {
	Series Series `json:"series" validate:"max=240,dive"`
}

type CreateSessionRequest struct {
	// Nil means "start from DefaultSeries"; an explicit [] starts empty.
	Series Series `json:"series" validate:"max=240,dive"`
}

type SessionRequest struct {
	ID string `json:"-" param:"id" validate:"required,uuid"`
}

type RowRequest struct {
	ID    string `json:"-" param:"id" validate:"required,uuid"`
	Index int    `json:"-" param:"index" validate:"gte=0"`
}

type UpdateRowRequest struct {
	ID    string     `json:"-" param:"id" validate:"required,uuid"`
	Index int        `json:"-" param:"index" validate:"gte=0"`
	Label *string    `json:"label" validate:"omitempty,max=64"`
	Value *RawAmount `json:"value"`
}

// RawAmount is the text of an amount input box. It accepts a JSON number or string;
// turning it into a value is left to the caller.
type RawAmount string

func (r *RawAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*r = RawAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*r = RawAmount(n.String())
	return nil
}
