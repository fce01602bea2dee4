package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Severity is the display class of an Alert.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Valid reports whether s is one of the two known severities.
func (s Severity) Valid() bool {
	return s == SeverityWarning || s == SeverityDanger
}

// UnmarshalJSON rejects anything outside the closed severity set.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Severity(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid severity %q", raw)
	}
	*s = v
	return nil
}

// Alert is a normalized dengue alert shown in the feed.
type Alert struct {
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Region     string    `json:"region"`
	Severity   Severity  `json:"severity"`
	ReceivedAt time.Time `json:"received_at"`
}
