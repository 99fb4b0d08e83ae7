// Package lineutil builds LINE messages: text replies with optional quick
// reply buttons, kept within the Messaging API limits.
package lineutil

import (
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Suggestion is a quick reply button. Tapping it sends Text as the user.
type Suggestion struct {
	Label string
	Text  string
}

// Suggestions turns narrowing options into buttons that resend utterance with
// the option appended, so a tap yields a complete question. Options whose
// combined text would exceed the action limit are skipped.
func Suggestions(utterance string, options []string) []Suggestion {
	utterance = strings.TrimSpace(utterance)
	out := make([]Suggestion, 0, min(len(options), MaxQuickReplyItemCount))
	for _, opt := range options {
		if len(out) == MaxQuickReplyItemCount {
			break
		}
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		text := opt
		if utterance != "" {
			text = utterance + " " + opt
		}
		if runeLen(text) > MaxMessageActionText {
			continue
		}
		out = append(out, Suggestion{Label: TruncateRunes(opt, MaxQuickReplyLabel), Text: text})
	}
	return out
}

// NewTextMessage creates a text message truncated to the LINE limit.
func NewTextMessage(text string) *messaging_api.TextMessage {
	return &messaging_api.TextMessage{
		Text: TruncateRunes(text, MaxTextMessageLength),
	}
}

// NewQuickReply creates a quick reply of message actions. Items past the
// LINE limit are dropped. Returns nil for no items.
func NewQuickReply(items []Suggestion) *messaging_api.QuickReply {
	if len(items) == 0 {
		return nil
	}
	if len(items) > MaxQuickReplyItemCount {
		items = items[:MaxQuickReplyItemCount]
	}

	quickReplyItems := make([]messaging_api.QuickReplyItem, len(items))
	for i, item := range items {
		quickReplyItems[i] = messaging_api.QuickReplyItem{
			Action: NewMessageAction(item.Label, item.Text),
		}
	}
	return &messaging_api.QuickReply{
		Items: quickReplyItems,
	}
}

// NewMessageAction creates a message action that sends text when clicked.
func NewMessageAction(label, text string) messaging_api.ActionInterface {
	return &messaging_api.MessageAction{
		Label: TruncateRunes(label, MaxQuickReplyLabel),
		Text:  TruncateRunes(text, MaxMessageActionText),
	}
}

// NewTextMessageWithSuggestions creates a text message and attaches the
// suggestions as quick reply buttons.
func NewTextMessageWithSuggestions(text string, items []Suggestion) *messaging_api.TextMessage {
	msg := NewTextMessage(text)
	msg.QuickReply = NewQuickReply(items)
	return msg
}

// TruncateRunes shortens text to maxRunes runes, ending with "..." when cut.
func TruncateRunes(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

func runeLen(s string) int {
	return len([]rune(s))
}
