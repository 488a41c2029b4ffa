package record

import (
	"fmt"
	"time"
)

// FireType classifies the origin of a fire
type FireType string

const (
	FireElectrical FireType = "Electrical"
	FireChemical   FireType = "Chemical"
	FireStructural FireType = "Structural"
	FireOther      FireType = "Other"
)

// Valid reports whether t is a known fire type
func (t FireType) Valid() bool {
	switch t {
	case FireElectrical, FireChemical, FireStructural, FireOther:
		return true
	}
	return false
}

// Fire is an incident report for a fire at a premises
type Fire struct {
	Base
	Address    string    `json:"address,omitempty"`
	Date       time.Time `json:"date"`
	State      string    `json:"state,omitempty"`
	Type       FireType  `json:"type"`
	Cause      string    `json:"cause,omitempty"`
	Extent     string    `json:"extent,omitempty"`
	Injuries   int       `json:"injuries"`
	Fatalities int       `json:"fatalities"`
}

// ApplyDefaults dates the incident at creation when no date was given and
// rejects unknown types
func (f *Fire) ApplyDefaults() error {
	if f.Type == "" {
		f.Type = FireOther
	}
	if !f.Type.Valid() {
		return fmt.Errorf("unknown fire type %q", f.Type)
	}
	if f.Date.IsZero() {
		f.Date = f.CreatedAt
	}
	return nil
}
