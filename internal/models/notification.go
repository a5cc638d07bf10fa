package models

// NotificationKind is the severity of a user-visible notification.
type NotificationKind string

const (
	NotifySuccess     NotificationKind = "success"
	NotifyInfo        NotificationKind = "info"
	NotifyError       NotificationKind = "error"
	NotifyAchievement NotificationKind = "achievement"
)

// Notification is a transient, non-blocking message for the view.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Title   string           `json:"title,omitempty"`
	Message string           `json:"message"`
}
