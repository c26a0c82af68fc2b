package domain

import (
	"encoding/json"
	"fmt"
)

// UserID is the textual form of a user identifier claim. Numeric claims keep
// their JSON spelling, so {"user_id": 42} becomes "42". Empty means null.
type UserID string

func (id UserID) IsZero() bool { return id == "" }

func (id UserID) String() string { return string(id) }

// UserIDFrom converts a decoded JSON value into a UserID.
func UserIDFrom(value interface{}) UserID {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return UserID(v)
	case json.Number:
		return UserID(v.String())
	case float64:
		return UserID(fmt.Sprintf("%v", v))
	case bool:
		return ""
	default:
		return UserID(fmt.Sprint(v))
	}
}

// Claims is the decoded payload of a bearer token.
type Claims map[string]interface{}

// UserID prefers the user_id claim and falls back to sub.
func (c Claims) UserID() UserID {
	if c == nil {
		return ""
	}
	if id := UserIDFrom(c["user_id"]); !id.IsZero() {
		return id
	}
	return UserIDFrom(c["sub"])
}

// Session is the client-side record of the current authentication state.
type Session struct {
	Token   string `json:"token,omitempty"`
	User    User   `json:"user,omitempty"`
	UserID  UserID `json:"user_id,omitempty"`
	Loading bool   `json:"loading"`
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}
