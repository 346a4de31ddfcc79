package driven

import (
	"context"

	"github.com/pullherald/pullherald/internal/domain/model"
)

// ChatClient defines the driven port for publishing cycle summaries to a
// chat channel. Message IDs are transport-opaque strings.
type ChatClient interface {
	// PostMessage publishes a new message and returns its ID.
	PostMessage(ctx context.Context, channelID string, summary model.Summary) (string, error)
	// UpdateMessage replaces the content of an existing message in place.
	UpdateMessage(ctx context.Context, channelID, messageID string, summary model.Summary) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	PinMessage(ctx context.Context, channelID, messageID string) error
	// ListRecentMessages returns up to limit messages, newest first.
	ListRecentMessages(ctx context.Context, channelID string, limit int) ([]model.ChannelMessage, error)
}
