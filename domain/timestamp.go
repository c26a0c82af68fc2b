package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Timestamp is a server timestamp the client never interprets. JSON strings
// keep their text, numbers (epoch values) keep their literal spelling and
// null is empty.
type Timestamp string

func (t Timestamp) String() string { return string(t) }

func (t Timestamp) IsZero() bool { return t == "" }

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
		return nil
	}
	if !json.Valid(data) {
		return fmt.Errorf("timestamp: invalid JSON value %q", data)
	}
	*t = Timestamp(data)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}
