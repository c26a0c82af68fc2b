package domain

// NotificationKind classifies a transient user-facing message.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
	NotificationWarning NotificationKind = "warning"
)

type Notification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
}
