package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/chat"
)

type ChatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Ensure(ctx context.Context, c chat.Chat) (*chat.Chat, error) {
	// The chat id is the sorted participant join, so concurrent opens from
	// either side hit the same key and the insert is idempotent.
	participants := make([]string, len(c.Participants))
	for i, p := range c.Participants {
		participants[i] = p.String()
	}
	row := r.db.QueryRowContext(ctx, `INSERT INTO chats (id, participants, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET id = chats.id
		RETURNING id, participants, created_at, updated_at`,
		c.ID, pq.Array(participants), c.CreatedAt, c.UpdatedAt)
	stored, err := scanChatRow(row)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to ensure chat", err)
	}
	return stored, nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*chat.Chat, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, participants, created_at, updated_at FROM chats WHERE id = $1`, id)
	c, err := scanChatRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "chat not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load chat", err)
	}
	return c, nil
}

func (r *ChatRepository) ListByParticipant(ctx context.Context, uid common.UUID) ([]chat.Chat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, participants, created_at, updated_at
		FROM chats WHERE $1 = ANY(participants) ORDER BY updated_at DESC`, uid.String())
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list chats", err)
	}
	defer rows.Close()
	var items []chat.Chat
	for rows.Next() {
		var c chat.Chat
		var participants []string
		if err := rows.Scan(&c.ID, pq.Array(&participants), &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan chat", err)
		}
		c.Participants = toUUIDs(participants)
		items = append(items, c)
	}
	return items, nil
}

func (r *ChatRepository) Touch(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chats SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to touch chat", err)
	}
	return nil
}

func (r *ChatRepository) AppendMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	m.ID = common.NewUUID()
	m.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO messages (id, chat_id, sender_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ChatID, m.SenderID, m.Body, m.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to append message", err)
	}
	return &m, nil
}

func (r *ChatRepository) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]chat.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, chat_id, sender_id, body, created_at
		FROM messages WHERE chat_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`, chatID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list messages", err)
	}
	defer rows.Close()
	var items []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan message", err)
		}
		items = append(items, m)
	}
	return items, nil
}

func scanChatRow(row *sql.Row) (*chat.Chat, error) {
	var c chat.Chat
	var participants []string
	if err := row.Scan(&c.ID, pq.Array(&participants), &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Participants = toUUIDs(participants)
	return &c, nil
}

func toUUIDs(values []string) []common.UUID {
	out := make([]common.UUID, len(values))
	for i, v := range values {
		out[i] = common.UUID(v)
	}
	return out
}
