package service

import (
	"errors"
)

// Recoverable business-rule failures. Every engine operation returns one
// of these (wrapped or bare) for user-facing rejections; anything else
// crossing the service boundary is a storage fault and should be treated
// as a retryable "try again" condition, never as silent data loss.
var (
	ErrRewardNotFound    = errors.New("reward not found")
	ErrKeyNotFound       = errors.New("redemption key not found")
	ErrEventNotFound     = errors.New("drop event not found")
	ErrSlotNotFound      = errors.New("drop slot not found")
	ErrAlreadyUsed       = errors.New("redemption key already used")
	ErrOutOfStock        = errors.New("reward out of stock")
	ErrInsufficientFunds = errors.New("insufficient points")
	ErrAlreadyClaimed    = errors.New("already claimed a drop from this batch")
	ErrSlotTaken         = errors.New("drop slot already taken")
	ErrNotEligible       = errors.New("not eligible for this drop")
	ErrInvalidState      = errors.New("invalid request")
)

// Error kinds surfaced to the command layer
const (
	KindNotFound          = "not_found"
	KindAlreadyUsed       = "already_used"
	KindOutOfStock        = "out_of_stock"
	KindInsufficientFunds = "insufficient_funds"
	KindAlreadyClaimed    = "already_claimed"
	KindSlotTaken         = "slot_taken"
	KindNotEligible       = "not_eligible"
	KindInvalidState      = "invalid_state"
	KindStorageFault      = "storage_fault"
)

// Kind maps an error to its taxonomy kind. Unrecognized errors are
// storage faults.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrRewardNotFound),
		errors.Is(err, ErrKeyNotFound),
		errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrSlotNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyUsed):
		return KindAlreadyUsed
	case errors.Is(err, ErrOutOfStock):
		return KindOutOfStock
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrAlreadyClaimed):
		return KindAlreadyClaimed
	case errors.Is(err, ErrSlotTaken):
		return KindSlotTaken
	case errors.Is(err, ErrNotEligible):
		return KindNotEligible
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	default:
		return KindStorageFault
	}
}

// IsRecoverable reports whether the error is a business-rule rejection
// rather than a system fault
func IsRecoverable(err error) bool {
	return Kind(err) != KindStorageFault
}
