package lineutil

// LINE API limits, counted in runes.
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength   = 5000 // text message content
	MaxQuickReplyItemCount = 13   // items in one quick reply
	MaxQuickReplyLabel     = 20   // quick reply button label
	MaxMessageActionText   = 300  // text sent by a message action
)
