package bot

import "github.com/line/line-bot-sdk-go/v8/linebot/webhook"

// Sender identifies who sent a LINE message and where.
type Sender struct {
	ChatID string // user ID in 1:1 chats, otherwise the group or room ID
	UserID string // empty in groups where the user has not shared it
	Shared bool   // group or room, where the bot answers only when mentioned
}

// Identify maps a webhook source to a Sender. Unknown sources yield the zero value.
func Identify(source webhook.SourceInterface) Sender {
	switch s := source.(type) {
	case webhook.UserSource:
		return Sender{ChatID: s.UserId, UserID: s.UserId}
	case webhook.GroupSource:
		return Sender{ChatID: s.GroupId, UserID: s.UserId, Shared: true}
	case webhook.RoomSource:
		return Sender{ChatID: s.RoomId, UserID: s.UserId, Shared: true}
	}
	return Sender{}
}

// ClientKey is the rate limiting identity: the user when known, otherwise
// the conversation.
func (s Sender) ClientKey() string {
	if s.UserID != "" {
		return s.UserID
	}
	return s.ChatID
}
