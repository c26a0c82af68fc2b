package transport

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fastygo/todo/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// AuthData is the payload of a successful login or register call.
type AuthData struct {
	Token string      `json:"token"`
	User  domain.User `json:"user,omitempty"`
}

type authEnvelope struct {
	Data *AuthData `json:"data"`
}

// DecodeAuth extracts {data: {token, user?}}. A body without a token is an
// invalid response.
func DecodeAuth(body []byte) (*AuthData, error) {
	var env authEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalidResponse, domain.ErrMissingToken.Message, err)
	}
	if env.Data == nil || env.Data.Token == "" {
		return nil, domain.ErrMissingToken
	}
	return env.Data, nil
}

// DecodeTaskList accepts either a bare array of tasks or an object wrapping
// the array under "data". A wrapper without data yields an empty list.
func DecodeTaskList(body []byte) ([]domain.Task, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalidResponse, "empty task list response")
	}

	switch trimmed[0] {
	case '[':
		var tasks []domain.Task
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalidResponse, "invalid task list", err)
		}
		return tasks, nil
	case '{':
		var wrapper struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalidResponse, "invalid task list", err)
		}
		data := bytes.TrimSpace(wrapper.Data)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			return []domain.Task{}, nil
		}
		var tasks []domain.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalidResponse, "invalid task list", err)
		}
		return tasks, nil
	default:
		return nil, domain.NewError(domain.ErrCodeInvalidResponse, fmt.Sprintf("unexpected task list payload starting with %q", trimmed[0]))
	}
}

// DecodeTask decodes a single task record, bare or wrapped under "data".
func DecodeTask(body []byte) (*domain.Task, error) {
	var wrapper struct {
		Data *domain.Task `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Data != nil {
		return wrapper.Data, nil
	}
	var task domain.Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalidResponse, "invalid task", err)
	}
	return &task, nil
}
