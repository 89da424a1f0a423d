package bot

import (
	"testing"

	"pointsbot/service"

	"github.com/stretchr/testify/assert"
)

func TestUserFacingError(t *testing.T) {
	assert.Equal(t, "Not enough points.", userFacingError(service.ErrInsufficientFunds))
	assert.Equal(t, "That reward is out of stock.", userFacingError(service.ErrOutOfStock))
	assert.Equal(t, "That key has already been used.", userFacingError(service.ErrAlreadyUsed))
	assert.Equal(t, "That drop was already taken!", userFacingError(service.ErrSlotTaken))
	assert.Equal(t, "You've already picked up a drop from this batch!", userFacingError(service.ErrAlreadyClaimed))

	// Unrecognized errors read as retryable, never as data loss
	assert.Equal(t, "Something went wrong. Please try again.", userFacingError(assert.AnError))
}

func TestParseDiscordID(t *testing.T) {
	id, err := parseDiscordID("123456789012345678")
	assert.NoError(t, err)
	assert.Equal(t, int64(123456789012345678), id)

	_, err = parseDiscordID("not-a-snowflake")
	assert.Error(t, err)
}
