package chat

import (
	"sort"
	"strings"
	"time"

	"skillbridge/internal/common"
)

// Chat is a two-participant conversation. Its identifier is derived from the
// participant ids so that either side opening the conversation converges on
// the same record.
type Chat struct {
	ID           string        `json:"id"`
	Participants []common.UUID `json:"participants"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type Message struct {
	ID        common.UUID `json:"id"`
	ChatID    string      `json:"chatId"`
	SenderID  common.UUID `json:"senderId"`
	Body      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ConversationID is the single chat-identity resolver: the sorted join of the
// two participant ids. Every entry point that opens a conversation must go
// through it, otherwise the two sides can create divergent records.
func ConversationID(a, b common.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// Participant reports whether uid belongs to the chat.
func (c *Chat) Participant(uid common.UUID) bool {
	for _, p := range c.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// Counterparty returns the other participant for uid, if any.
func (c *Chat) Counterparty(uid common.UUID) (common.UUID, bool) {
	for _, p := range c.Participants {
		if p != uid {
			return p, true
		}
	}
	return "", false
}
