package monitor

import "time"

type Status struct {
	Backend    bool      `json:"backend"`
	BackendErr string    `json:"backend_error,omitempty"`
	Store      bool      `json:"store"`
	StoreErr   string    `json:"store_error,omitempty"`
	LastCheck  time.Time `json:"last_check"`
}

// Checked reports whether at least one probe round has completed.
func (s Status) Checked() bool {
	return !s.LastCheck.IsZero()
}
