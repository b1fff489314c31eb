package chat

import (
	"context"

	"skillbridge/internal/common"
)

type Repository interface {
	// Ensure creates the chat if absent and returns the stored record either
	// way. The write is a keyed upsert, so concurrent opens by both
	// participants converge on one row.
	Ensure(ctx context.Context, c Chat) (*Chat, error)
	GetByID(ctx context.Context, id string) (*Chat, error)
	ListByParticipant(ctx context.Context, uid common.UUID) ([]Chat, error)
	Touch(ctx context.Context, id string) error

	AppendMessage(ctx context.Context, m Message) (*Message, error)
	ListMessages(ctx context.Context, chatID string, limit, offset int) ([]Message, error)
}
