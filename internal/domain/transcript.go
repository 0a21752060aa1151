package domain

// Exchange is one persisted user message and the reply it received.
type Exchange struct {
	PK             string
	SK             string
	ConversationID string
	Message        string
	Answer         string
	Category       IntentCategory
	Mode           string
	TTL            int64
}
