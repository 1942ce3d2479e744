package models

import "time"

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the role as sent on the wire and shown in exports
func (r Role) String() string {
	return string(r)
}

// Label returns the display name used in chat bubbles
func (r Role) Label() string {
	if r == RoleUser {
		return "You"
	}
	return "Assistant"
}

// Message represents one side of a turn in the conversation.
// Images is ordered and indexed by the image_<N> placeholders in Content.
type Message struct {
	Role      Role
	Content   string
	Images    []string
	Timestamp string // formatted with TimestampLayout when created
}

// Clone returns a copy whose Images slice does not alias the original
func (m Message) Clone() Message {
	if m.Images != nil {
		images := make([]string, len(m.Images))
		copy(images, m.Images)
		m.Images = images
	}
	return m
}

// IsError reports whether the message is the synthetic transport failure reply
func (m Message) IsError() bool {
	return m.Role == RoleAssistant && m.Content == ErrorLiteral
}

// FormatTimestamp formats t the way message timestamps are displayed
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
