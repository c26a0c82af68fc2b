package domain

// Task represents a user-owned todo item. ID is zero until the server persists it.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   Timestamp `json:"created_at,omitempty"`
	UpdatedAt   Timestamp `json:"updated_at,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// Status is the label used by task tables.
func (t *Task) Status() string {
	if t.IsCompleted() {
		return "completed"
	}
	return "pending"
}
