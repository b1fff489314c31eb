package app

import (
	"context"
	"strings"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/chat"
	"skillbridge/internal/livequery"
)

type ChatService struct {
	repo     chat.Repository
	profiles *ProfileService
	notifier livequery.Notifier
}

func NewChatService(repo chat.Repository, profiles *ProfileService, notifier livequery.Notifier) *ChatService {
	return &ChatService{repo: repo, profiles: profiles, notifier: notifier}
}

// Open resolves the conversation between self and other. Every entry point
// (accepted application, profile, direct URL) goes through here, so both
// participants always converge on the same record.
func (s *ChatService) Open(ctx context.Context, selfUID, otherUID common.UUID) (*chat.Chat, error) {
	if selfUID == otherUID {
		return nil, common.NewValidationError("invalid participant", map[string]string{"user": "cannot open a conversation with yourself"})
	}
	if _, err := s.profiles.Get(ctx, otherUID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "recipient not found", nil)
		}
		return nil, err
	}

	now := time.Now().UTC()
	ensured, err := s.repo.Ensure(ctx, chat.Chat{
		ID:           chat.ConversationID(selfUID, otherUID),
		Participants: []common.UUID{selfUID, otherUID},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, livequery.TopicChats(selfUID))
	s.notifier.Publish(ctx, livequery.TopicChats(otherUID))
	return ensured, nil
}

func (s *ChatService) Send(ctx context.Context, chatID string, senderID common.UUID, body string) (*chat.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, common.NewValidationError("empty message", map[string]string{"text": "message text is required"})
	}
	c, err := s.access(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.AppendMessage(ctx, chat.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Body:     body,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Touch(ctx, chatID); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, livequery.TopicMessages(chatID))
	for _, p := range c.Participants {
		s.notifier.Publish(ctx, livequery.TopicChats(p))
	}
	return created, nil
}

func (s *ChatService) Messages(ctx context.Context, chatID string, uid common.UUID, limit, offset int) ([]chat.Message, error) {
	if _, err := s.access(ctx, chatID, uid); err != nil {
		return nil, err
	}
	items, err := s.repo.ListMessages(ctx, chatID, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []chat.Message{}
	}
	return items, nil
}

func (s *ChatService) ListChats(ctx context.Context, uid common.UUID) ([]chat.Chat, error) {
	items, err := s.repo.ListByParticipant(ctx, uid)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []chat.Chat{}
	}
	return items, nil
}

// access loads the chat and enforces that only its two participants can read
// or write it.
func (s *ChatService) access(ctx context.Context, chatID string, uid common.UUID) (*chat.Chat, error) {
	c, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !c.Participant(uid) {
		return nil, common.NewError(common.CodeForbidden, "not a participant of this conversation", nil)
	}
	return c, nil
}
