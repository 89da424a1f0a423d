package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Equal(t, KindNotFound, Kind(ErrRewardNotFound))
	assert.Equal(t, KindNotFound, Kind(ErrKeyNotFound))
	assert.Equal(t, KindNotFound, Kind(ErrEventNotFound))
	assert.Equal(t, KindNotFound, Kind(ErrSlotNotFound))
	assert.Equal(t, KindAlreadyUsed, Kind(ErrAlreadyUsed))
	assert.Equal(t, KindOutOfStock, Kind(ErrOutOfStock))
	assert.Equal(t, KindInsufficientFunds, Kind(ErrInsufficientFunds))
	assert.Equal(t, KindAlreadyClaimed, Kind(ErrAlreadyClaimed))
	assert.Equal(t, KindSlotTaken, Kind(ErrSlotTaken))
	assert.Equal(t, KindNotEligible, Kind(ErrNotEligible))
	assert.Equal(t, KindInvalidState, Kind(ErrInvalidState))
	assert.Equal(t, KindStorageFault, Kind(assert.AnError))
}

func TestKind_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("redeeming: %w", ErrOutOfStock)
	assert.Equal(t, KindOutOfStock, Kind(wrapped))
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(ErrInsufficientFunds))
	assert.True(t, IsRecoverable(ErrSlotTaken))
	assert.False(t, IsRecoverable(assert.AnError))
}
