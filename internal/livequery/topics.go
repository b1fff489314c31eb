package livequery

import "skillbridge/internal/common"

// Topic names are coarse on purpose: a notification only triggers a reload,
// and the reload re-applies the subscriber's own predicate.
const (
	TopicTasks        = "tasks"
	TopicApplications = "applications"
)

func TopicChats(uid common.UUID) string {
	return "chats:" + uid.String()
}

func TopicMessages(chatID string) string {
	return "messages:" + chatID
}
