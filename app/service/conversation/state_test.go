package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	state := NewState("user_1", "sess_1")

	require.NotEmpty(t, state.ConversationID)
	require.Equal(t, "user_1", state.UserID)
	require.Equal(t, "sess_1", state.SessionID)
	require.Equal(t, StageIntentRecognition, state.Stage)
	require.Empty(t, state.History)
	require.Equal(t, state.CreatedAt.Add(24*time.Hour), state.ExpiresAt)

	other := NewState("user_1", "sess_1")
	require.NotEqual(t, state.ConversationID, other.ConversationID)
}

func TestIsExpired(t *testing.T) {
	state := NewState("user_1", "sess_1")
	require.False(t, state.IsExpired())

	state.ExpiresAt = time.Now().Add(-time.Second)
	require.True(t, state.IsExpired())
}

func TestProgress(t *testing.T) {
	state := NewState("user_1", "sess_1")

	previous := -1
	for i, stage := range stageOrder {
		state.Stage = stage

		progress := state.Progress()
		require.Equal(t, i*100/len(stageOrder), progress)
		require.Greater(t, progress, previous)
		previous = progress
	}

	state.Stage = StageCancelled
	require.Equal(t, 0, state.Progress())
}

func TestCollectDataAppendsHistory(t *testing.T) {
	state := NewState("user_1", "sess_1")

	state.CollectData("restaurant_id", "rest_1")

	require.Len(t, state.History, 1)
	require.Equal(t, "data_collected", state.History[0].Event)
	require.Equal(t, "restaurant_id", state.History[0].Data["key"])
	require.Equal(t, "rest_1", state.History[0].Data["value"])
	require.Equal(t, "rest_1", state.CollectedData["restaurant_id"])
}

func TestUpdateStageAppendsHistory(t *testing.T) {
	state := NewState("user_1", "sess_1")

	state.UpdateStage(StageCategorySelection)

	require.Equal(t, StageCategorySelection, state.Stage)
	require.Len(t, state.History, 1)
	require.Equal(t, "stage_change", state.History[0].Event)
	require.Equal(t, StageIntentRecognition, state.History[0].Data["from"])
	require.Equal(t, StageCategorySelection, state.History[0].Data["to"])
}

func TestHistoryIsAppendOnly(t *testing.T) {
	state := NewState("user_1", "sess_1")

	length := 0
	operations := []func(){
		func() { state.AddHistory("user_input", map[string]any{"message": "hi"}) },
		func() { state.CollectData("items", []string{"item_1"}) },
		func() { state.UpdateStage(StageCategorySelection) },
		func() { state.CollectData("delivery_address", map[string]any{"raw": "1 Main St"}) },
		func() { state.UpdateStage(StageItemSelection) },
	}

	for _, op := range operations {
		op()
		require.Greater(t, len(state.History), length)
		length = len(state.History)
	}
}

func TestLastUpdateMonotonic(t *testing.T) {
	state := NewState("user_1", "sess_1")

	last := state.LastUpdate
	for i := 0; i < 5; i++ {
		state.CollectData("key", i)
		require.False(t, state.LastUpdate.Before(last))
		last = state.LastUpdate
	}
}

func TestStageTerminal(t *testing.T) {
	require.True(t, StageCompleted.IsTerminal())
	require.True(t, StageCancelled.IsTerminal())
	require.False(t, StageTracking.IsTerminal())
}

func TestOrderStatusTerminal(t *testing.T) {
	require.True(t, OrderDelivered.IsTerminal())
	require.True(t, OrderCompleted.IsTerminal())
	require.True(t, OrderCancelled.IsTerminal())
	require.False(t, OrderInTransit.IsTerminal())
}
