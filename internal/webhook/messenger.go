package webhook

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/garyellow/merit-linebot-go/internal/lineutil"
)

// loadingSeconds must be a multiple of 5 between 5 and 60.
const loadingSeconds int32 = 20

// Messenger sends replies through the LINE Messaging API.
type Messenger interface {
	// Reply sends one text message. suggestions become quick reply buttons.
	Reply(ctx context.Context, replyToken, text string, suggestions []lineutil.Suggestion) error
	ShowLoading(ctx context.Context, chatID string) error
}

// lineMessenger adapts the SDK client to Messenger.
type lineMessenger struct {
	api *messaging_api.MessagingApiAPI
}

// NewLINEMessenger creates a Messenger authenticated with the channel access token.
func NewLINEMessenger(channelToken string) (Messenger, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return &lineMessenger{api: api}, nil
}

func (m *lineMessenger) Reply(_ context.Context, replyToken, text string, suggestions []lineutil.Suggestion) error {
	_, err := m.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			lineutil.NewTextMessageWithSuggestions(text, suggestions),
		},
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

func (m *lineMessenger) ShowLoading(_ context.Context, chatID string) error {
	_, err := m.api.ShowLoadingAnimation(&messaging_api.ShowLoadingAnimationRequest{
		ChatId:         chatID,
		LoadingSeconds: loadingSeconds,
	})
	if err != nil {
		return fmt.Errorf("show loading animation: %w", err)
	}
	return nil
}
