package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorShape tags which known error body layout the backend sent.
type ErrorShape int

const (
	ShapeUnknown ErrorShape = iota
	ShapeDetail
	ShapeMessage
	ShapeRaw
)

func (s ErrorShape) String() string {
	switch s {
	case ShapeDetail:
		return "detail"
	case ShapeMessage:
		return "message"
	case ShapeRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// ErrorBody is the parsed error response. Shapes are tried in the order
// detail, message, raw string; anything else is ShapeUnknown.
type ErrorBody struct {
	Shape ErrorShape
	Text  string
}

// MessageOr returns the body text, or fallback when the shape is unknown.
func (b ErrorBody) MessageOr(fallback string) string {
	if b.Shape == ShapeUnknown || b.Text == "" {
		return fallback
	}
	return b.Text
}

// ParseErrorBody classifies an error response body.
func ParseErrorBody(body []byte) ErrorBody {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ErrorBody{}
	}

	var decoded interface{}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return ErrorBody{Shape: ShapeRaw, Text: string(trimmed)}
	}

	switch v := decoded.(type) {
	case map[string]interface{}:
		if text := detailText(v["detail"]); text != "" {
			return ErrorBody{Shape: ShapeDetail, Text: text}
		}
		if text, ok := v["message"].(string); ok && text != "" {
			return ErrorBody{Shape: ShapeMessage, Text: text}
		}
		if text, ok := v["error"].(string); ok && text != "" {
			return ErrorBody{Shape: ShapeMessage, Text: text}
		}
	case string:
		if v != "" {
			return ErrorBody{Shape: ShapeRaw, Text: v}
		}
	}
	return ErrorBody{}
}

// detailText accepts a plain string or a list of validation entries with a msg field.
func detailText(detail interface{}) string {
	switch d := detail.(type) {
	case string:
		return d
	case []interface{}:
		msgs := make([]string, 0, len(d))
		for _, entry := range d {
			switch e := entry.(type) {
			case string:
				msgs = append(msgs, e)
			case map[string]interface{}:
				if msg, ok := e["msg"].(string); ok && msg != "" {
					msgs = append(msgs, msg)
				}
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// APIError is a non-success HTTP status returned by the backend.
type APIError struct {
	Status int
	Body   ErrorBody
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Body.MessageOr("no details"))
}
