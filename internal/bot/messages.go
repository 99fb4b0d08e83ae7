package bot

import "fmt"

// Replies produced before or around the resolver.
const (
	EmptyMessageReply  = "Please ask a question about merit."
	RateLimitedReply   = "You're sending messages too quickly. Please wait a moment and try again."
	InternalErrorReply = "Sorry, something went wrong. Please try again."
)

func tooLongReply(limit int) string {
	return fmt.Sprintf("Your message is too long. Please keep it under %d characters.", limit)
}
