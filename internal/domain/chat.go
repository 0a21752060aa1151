package domain

// Role identifies the author of a ConversationMessage.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationMessage is the provider-agnostic chat message shape shared by the
// handler, the completion client and the transcript store.
type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// CompletionRequest is one call to the hosted completion API. Messages always
// start with the system prompt.
type CompletionRequest struct {
	Model       string
	Messages    []ConversationMessage
	Temperature float64
	MaxTokens   int
}
