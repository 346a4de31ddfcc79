// Package slack implements the ChatClient port using the slack-go library.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/pullherald/pullherald/internal/domain/model"
	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ChatClient = (*Client)(nil)

const (
	postFallbackText   = "Pull Request Summary"
	updateFallbackText = "Pull Request Updated"
)

// Client implements the driven.ChatClient port against the Slack Web API.
// Message IDs are Slack message timestamps.
type Client struct {
	api   *slackapi.Client
	botID string
}

// NewClient creates a Slack client and resolves the bot's own identity via
// auth.test so history scans can tell our messages from other bots'.
func NewClient(ctx context.Context, token string) (*Client, error) {
	api := slackapi.New(token)

	resp, err := api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("slack auth test: %w", err)
	}

	return &Client{api: api, botID: resp.BotID}, nil
}

// NewClientWithAPI creates a Client around a preconfigured API client.
// Intended for tests using slack-go's OptionAPIURL against an httptest server.
func NewClientWithAPI(api *slackapi.Client, botID string) *Client {
	return &Client{api: api, botID: botID}
}

// PostMessage publishes the rendered summary and returns its timestamp.
func (c *Client) PostMessage(ctx context.Context, channelID string, summary model.Summary) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slackapi.MsgOptionBlocks(renderBlocks(summary)...),
		slackapi.MsgOptionText(postFallbackText, false),
		slackapi.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return "", fmt.Errorf("posting message to %s: %w", channelID, err)
	}
	return ts, nil
}

// UpdateMessage replaces an existing message's blocks in place.
func (c *Client) UpdateMessage(ctx context.Context, channelID, messageID string, summary model.Summary) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, messageID,
		slackapi.MsgOptionBlocks(renderBlocks(summary)...),
		slackapi.MsgOptionText(updateFallbackText, false),
	)
	if err != nil {
		return fmt.Errorf("updating message %s in %s: %w", messageID, channelID, err)
	}
	return nil
}

// DeleteMessage removes a message from the channel.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if _, _, err := c.api.DeleteMessageContext(ctx, channelID, messageID); err != nil {
		return fmt.Errorf("deleting message %s in %s: %w", messageID, channelID, err)
	}
	return nil
}

// PinMessage pins a message in the channel.
func (c *Client) PinMessage(ctx context.Context, channelID, messageID string) error {
	ref := slackapi.NewRefToMessage(channelID, messageID)
	if err := c.api.AddPinContext(ctx, channelID, ref); err != nil {
		return fmt.Errorf("pinning message %s in %s: %w", messageID, channelID, err)
	}
	return nil
}

// ListRecentMessages returns up to limit channel messages, newest first.
// BotOwned marks messages authored by this bot identity specifically.
func (c *Client) ListRecentMessages(ctx context.Context, channelID string, limit int) ([]model.ChannelMessage, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slackapi.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s: %w", channelID, err)
	}

	messages := make([]model.ChannelMessage, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		messages = append(messages, model.ChannelMessage{
			ID:       msg.Timestamp,
			BotOwned: msg.BotID != "" && msg.BotID == c.botID,
		})
	}

	return messages, nil
}
