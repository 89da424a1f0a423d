package bot

import (
	"testing"

	"pointsbot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayouts(t *testing.T) {
	payouts, err := parsePayouts("10, 20,50")
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 50}, payouts)

	_, err = parsePayouts("10,abc,30")
	assert.Error(t, err)

	_, err = parsePayouts("")
	assert.Error(t, err)
}

func TestParseDropCustomID(t *testing.T) {
	eventID, slot, err := parseDropCustomID("drop:0b6c3d1e-4f5a-4711-9c2d-1a2b3c4d5e6f:7")
	require.NoError(t, err)
	assert.Equal(t, "0b6c3d1e-4f5a-4711-9c2d-1a2b3c4d5e6f", eventID)
	assert.Equal(t, 7, slot)

	_, _, err = parseDropCustomID("drop:no-slot-index")
	assert.Error(t, err)

	_, _, err = parseDropCustomID("drop:event:notanumber")
	assert.Error(t, err)
}

func TestBuildDropButtons_RowsOfFive(t *testing.T) {
	labels := make([]models.SlotLabel, 12)
	for i := range labels {
		labels[i] = models.SlotLabel{Index: i, Label: "Drop"}
	}
	labels[3].Claimed = true

	rows := buildDropButtons("event-1", labels)

	require.Len(t, rows, 3)
	first, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	assert.Len(t, first.Components, 5)
	last, ok := rows[2].(discordgo.ActionsRow)
	require.True(t, ok)
	assert.Len(t, last.Components, 2)

	claimed, ok := first.Components[3].(discordgo.Button)
	require.True(t, ok)
	assert.True(t, claimed.Disabled)
	assert.Equal(t, "drop:event-1:3", claimed.CustomID)
}
