package screen

import (
	"fmt"

	"github.com/couchcryptid/forecast-screen/internal/domain"
)

// State is the screen's render state.
type State int

const (
	// StateLoading shows an indeterminate progress indicator and no content.
	StateLoading State = iota
	// StateContent shows a forecast.
	StateContent
	// StateError shows the retry prompt.
	StateError
)

var stateNames = [...]string{"loading", "content", "error"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText renders the state by name in JSON payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrorMessage is the user-facing text shown in the error state.
const ErrorMessage = "Failed to load data. Retry?"

// Snapshot is an immutable copy of the screen at one point in time.
// View is shared between snapshots and must not be modified.
type Snapshot struct {
	State     State               `json:"state"`
	View      *domain.WeatherView `json:"view,omitempty"`
	Expanded  []bool              `json:"expanded,omitempty"`
	Message   string              `json:"message,omitempty"`
	Dismissed bool                `json:"dismissed,omitempty"`
	AttemptID string              `json:"attempt_id,omitempty"`
	Version   uint64              `json:"version"`
}

// IsExpanded reports whether day card i is expanded.
func (s Snapshot) IsExpanded(i int) bool {
	return i >= 0 && i < len(s.Expanded) && s.Expanded[i]
}
