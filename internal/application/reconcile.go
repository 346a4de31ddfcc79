package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pullherald/pullherald/internal/domain/model"
	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// Strategy governs whether a channel's summary message is recreated or
// edited in place for a given cycle.
type Strategy string

const (
	// StrategyNotify replaces the channel's bot messages with a fresh,
	// pinned one. Reserved for events worth an unread-style ping.
	StrategyNotify Strategy = "notify"
	// StrategyUpdate edits the last message in place while it is still near
	// the bottom of the channel, republishing once it has been buried.
	StrategyUpdate Strategy = "update"
	// StrategySilent always edits in place, publishing only on cold start.
	StrategySilent Strategy = "silent"
)

// deleteScanLimit bounds how much history a notify pass scans for stale bot
// messages to delete.
const deleteScanLimit = 100

// MessageReconciler keeps one summary message per channel current, editing
// in place to avoid spam during quiet periods and republishing when the
// message has been buried by other conversation.
type MessageReconciler struct {
	chat          driven.ChatClient
	recencyWindow int
	lastMessage   map[string]string // channel ID -> last published message ID
}

// NewMessageReconciler creates a reconciler. recencyWindow is how many of a
// channel's most recent messages the update strategy considers "not buried".
func NewMessageReconciler(chat driven.ChatClient, recencyWindow int) *MessageReconciler {
	return &MessageReconciler{
		chat:          chat,
		recencyWindow: recencyWindow,
		lastMessage:   make(map[string]string),
	}
}

// Reconcile publishes or edits the channel's summary message according to
// the strategy. Transport errors are returned to the caller; the remembered
// message ID only advances after a confirmed successful publish, so a failed
// attempt never corrupts state and the next cycle retries naturally.
func (r *MessageReconciler) Reconcile(ctx context.Context, channelID string, summary model.Summary, strategy Strategy) error {
	switch strategy {
	case StrategyNotify:
		return r.publish(ctx, channelID, summary)

	case StrategySilent:
		id, ok := r.lastMessage[channelID]
		if !ok {
			return r.publish(ctx, channelID, summary)
		}
		return r.chat.UpdateMessage(ctx, channelID, id, summary)

	case StrategyUpdate:
		recent, err := r.chat.ListRecentMessages(ctx, channelID, r.recencyWindow)
		if err != nil {
			return fmt.Errorf("listing recent messages for %s: %w", channelID, err)
		}

		id, ok := r.lastMessage[channelID]
		if !ok {
			// Cold start: adopt the newest bot-authored message still in
			// the window, if any.
			for _, msg := range recent {
				if msg.BotOwned {
					id, ok = msg.ID, true
					break
				}
			}
		}
		if !ok {
			return r.publish(ctx, channelID, summary)
		}

		inWindow := false
		for _, msg := range recent {
			if msg.ID == id {
				inWindow = true
				break
			}
		}
		if !inWindow {
			// Buried under other conversation; republish so the summary
			// is not lost at the bottom of the channel.
			return r.publish(ctx, channelID, summary)
		}

		if err := r.chat.UpdateMessage(ctx, channelID, id, summary); err != nil {
			return err
		}
		r.lastMessage[channelID] = id
		return nil

	default:
		return fmt.Errorf("unknown reconcile strategy %q", strategy)
	}
}

// publish deletes the channel's prior bot messages, posts a fresh summary,
// and pins it.
func (r *MessageReconciler) publish(ctx context.Context, channelID string, summary model.Summary) error {
	history, err := r.chat.ListRecentMessages(ctx, channelID, deleteScanLimit)
	if err != nil {
		return fmt.Errorf("listing messages for cleanup in %s: %w", channelID, err)
	}
	for _, msg := range history {
		if !msg.BotOwned {
			continue
		}
		if err := r.chat.DeleteMessage(ctx, channelID, msg.ID); err != nil {
			return fmt.Errorf("deleting stale message %s in %s: %w", msg.ID, channelID, err)
		}
	}

	id, err := r.chat.PostMessage(ctx, channelID, summary)
	if err != nil {
		return fmt.Errorf("posting summary to %s: %w", channelID, err)
	}
	r.lastMessage[channelID] = id

	if err := r.chat.PinMessage(ctx, channelID, id); err != nil {
		// The message is live; losing the pin is not worth a republish.
		slog.Warn("pinning summary failed", "channel", channelID, "message", id, "error", err)
	}

	return nil
}
