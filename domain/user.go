package domain

// User is the loosely typed user record: either the decoded token claims or
// the user object embedded in an auth response.
type User map[string]interface{}

func (u User) Email() string {
	if u == nil {
		return ""
	}
	email, _ := u["email"].(string)
	return email
}

func (u User) ID() UserID {
	if u == nil {
		return ""
	}
	return UserIDFrom(u["id"])
}

// DisplayName is what the dashboard greets the user with.
func (u User) DisplayName() string {
	if email := u.Email(); email != "" {
		return email
	}
	return "User"
}
