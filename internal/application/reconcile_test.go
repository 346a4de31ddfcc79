package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullherald/pullherald/internal/application"
	"github.com/pullherald/pullherald/internal/domain/model"
)

const testChannel = "C123"

func TestReconcile_NotifyReplacesBotMessages(t *testing.T) {
	chat := newFakeChatClient()
	chat.history[testChannel] = []model.ChannelMessage{
		{ID: "human-1"},
		{ID: "old-bot", BotOwned: true},
		{ID: "human-2"},
	}
	reconciler := application.NewMessageReconciler(chat, 10)

	err := reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategyNotify)
	require.NoError(t, err)

	assert.Equal(t, []messageRef{{Channel: testChannel, MessageID: "old-bot"}}, chat.deleted)
	require.Len(t, chat.posted, 1)
	assert.Equal(t, []messageRef{{Channel: testChannel, MessageID: "msg-1"}}, chat.pinned)
	assert.Empty(t, chat.updated)
}

func TestReconcile_UpdateEditsRecentMessage(t *testing.T) {
	chat := newFakeChatClient()
	reconciler := application.NewMessageReconciler(chat, 10)

	require.NoError(t, reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategyNotify))
	require.Len(t, chat.posted, 1)

	err := reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategyUpdate)
	require.NoError(t, err)

	assert.Equal(t, []updateCall{{Channel: testChannel, MessageID: "msg-1"}}, chat.updated)
	assert.Len(t, chat.posted, 1, "an in-window update never reposts")
}

func TestReconcile_UpdateRepublishesBuriedMessage(t *testing.T) {
	chat := newFakeChatClient()
	reconciler := application.NewMessageReconciler(chat, 2)

	require.NoError(t, reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategyNotify))

	// Two human messages push the summary outside the recency window.
	chat.history[testChannel] = append([]model.ChannelMessage{
		{ID: "human-2"},
		{ID: "human-1"},
	}, chat.history[testChannel]...)

	err := reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategyUpdate)
	require.NoError(t, err)

	assert.Len(t, chat.posted, 2, "a buried summary gets republished")
	assert.Contains(t, chat.deleted, messageRef{Channel: testChannel, MessageID: "msg-1"})
	assert.Empty(t, chat.updated)
}

func TestReconcile_UpdateColdStartAdoptsExistingMessage(t *testing.T) {
	chat := newFakeChatClient()
	chat.history[testChannel] = []model.ChannelMessage{
		{ID: "human-1"},
		{ID: "survivor", BotOwned: true},
	}
	reconciler := application.NewMessageReconciler(chat, 10)

	err := reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategyUpdate)
	require.NoError(t, err)

	assert.Equal(t, []updateCall{{Channel: testChannel, MessageID: "survivor"}}, chat.updated)
	assert.Empty(t, chat.posted, "an adoptable message in the window means no repost")
}

func TestReconcile_UpdateColdStartPublishesWhenNothingToAdopt(t *testing.T) {
	chat := newFakeChatClient()
	chat.history[testChannel] = []model.ChannelMessage{{ID: "human-1"}}
	reconciler := application.NewMessageReconciler(chat, 10)

	err := reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategyUpdate)
	require.NoError(t, err)

	assert.Len(t, chat.posted, 1)
	assert.Empty(t, chat.updated)
}

func TestReconcile_SilentEditsInPlace(t *testing.T) {
	chat := newFakeChatClient()
	reconciler := application.NewMessageReconciler(chat, 10)

	// Cold start publishes once, then every silent pass edits.
	require.NoError(t, reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategySilent))
	require.Len(t, chat.posted, 1)

	require.NoError(t, reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategySilent))
	require.NoError(t, reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategySilent))

	assert.Len(t, chat.posted, 1)
	assert.Equal(t, []updateCall{
		{Channel: testChannel, MessageID: "msg-1"},
		{Channel: testChannel, MessageID: "msg-1"},
	}, chat.updated)
}

func TestReconcile_PostFailureRetriesNextCycle(t *testing.T) {
	chat := newFakeChatClient()
	reconciler := application.NewMessageReconciler(chat, 10)

	chat.postErr = errors.New("transport down")
	err := reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategyNotify)
	require.Error(t, err)

	// The failed publish left no remembered message, so a later silent pass
	// falls back to publishing instead of editing a ghost.
	chat.postErr = nil
	require.NoError(t, reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.StrategySilent))
	assert.Len(t, chat.posted, 1)
	assert.Empty(t, chat.updated)
}

func TestReconcile_ChannelsTrackedIndependently(t *testing.T) {
	chat := newFakeChatClient()
	reconciler := application.NewMessageReconciler(chat, 10)

	require.NoError(t, reconciler.Reconcile(context.Background(), "C1", model.Summary{}, application.StrategyNotify))
	require.NoError(t, reconciler.Reconcile(context.Background(), "C2", model.Summary{}, application.StrategyNotify))

	require.NoError(t, reconciler.Reconcile(context.Background(), "C1", model.Summary{}, application.StrategyUpdate))
	require.NoError(t, reconciler.Reconcile(context.Background(), "C2", model.Summary{}, application.StrategyUpdate))

	assert.Equal(t, []updateCall{
		{Channel: "C1", MessageID: "msg-1"},
		{Channel: "C2", MessageID: "msg-2"},
	}, chat.updated)
}

func TestReconcile_UnknownStrategy(t *testing.T) {
	reconciler := application.NewMessageReconciler(newFakeChatClient(), 10)
	err := reconciler.Reconcile(context.Background(), testChannel, model.Summary{}, application.Strategy("shout"))
	assert.Error(t, err)
}
