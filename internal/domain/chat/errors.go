package chat

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("you are not part of this conversation")
	ErrListingNotFound      = errors.New("listing not found")
	ErrChatWithSelf         = errors.New("cannot start a conversation on your own listing")
	ErrEmptyMessage         = errors.New("message body is empty")
)
