// Package model defines the core domain models used throughout the application.
package model

// Reply format shared by the prompt and the reply parser. Changing one
// without the other breaks classification.
const (
	PrimaryLabel   = "Category Prediction"
	BackupLabel    = "Backup Prediction"
	LabelSeparator = ": "
)

// Role identifies the author of a chat message.
type Role string

// Chat roles.
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single chat instruction.
type Message struct {
	Role    Role
	Content string
}

// ClassificationRequest is the composed instruction bundle for one record.
type ClassificationRequest struct {
	Memory *Message // optional override rule
	System Message
	User   Message
}

// Messages returns the request messages in send order: system, memory, user.
func (r ClassificationRequest) Messages() []Message {
	msgs := make([]Message, 0, 3)
	msgs = append(msgs, r.System)
	if r.Memory != nil {
		msgs = append(msgs, *r.Memory)
	}
	return append(msgs, r.User)
}

// ClassificationResult is the parsed model reply.
type ClassificationResult struct {
	PrimaryCategory string `json:"category_prediction"`
	BackupCategory  string `json:"backup_prediction"`
}
