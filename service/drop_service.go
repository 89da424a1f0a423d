package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pointsbot/events"
	"pointsbot/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// maxDropSlots matches the 25-button limit of a Discord message
const maxDropSlots = 25

// dropEvent is the in-memory state of one announced drop. All claim
// processing for an event runs under its mutex: slot exclusivity and the
// one-claim-per-account rule are enforced in the same critical section,
// so two slots can never be granted to one account even under races.
type dropEvent struct {
	mu           sync.Mutex
	id           string
	payouts      []int64
	claimed      []bool
	claimedBy    map[int64]bool
	visible      bool
	requiredRole string
	createdAt    time.Time
}

type dropService struct {
	uowFactory UnitOfWorkFactory

	mu     sync.RWMutex
	events map[string]*dropEvent
}

// NewDropService creates a new drop service. Drop events live for the
// process lifetime only; balances credited from claims are durable.
func NewDropService(uowFactory UnitOfWorkFactory) DropService {
	return &dropService{
		uowFactory: uowFactory,
		events:     make(map[string]*dropEvent),
	}
}

// CreateEvent announces a drop with one slot per payout and returns the
// event ID plus the initial rendered view
func (s *dropService) CreateEvent(ctx context.Context, payouts []int64, visible bool, requiredRole string) (string, []models.SlotLabel, error) {
	if len(payouts) == 0 {
		return "", nil, fmt.Errorf("%w: drop needs at least one slot", ErrInvalidState)
	}
	if len(payouts) > maxDropSlots {
		return "", nil, fmt.Errorf("%w: drop is limited to %d slots", ErrInvalidState, maxDropSlots)
	}
	for _, payout := range payouts {
		if payout <= 0 {
			return "", nil, fmt.Errorf("%w: payouts must be positive", ErrInvalidState)
		}
	}

	event := &dropEvent{
		id:           uuid.NewString(),
		payouts:      append([]int64(nil), payouts...),
		claimed:      make([]bool, len(payouts)),
		claimedBy:    make(map[int64]bool),
		visible:      visible,
		requiredRole: requiredRole,
		createdAt:    time.Now(),
	}

	s.mu.Lock()
	s.events[event.id] = event
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"eventID": event.id,
		"slots":   len(payouts),
		"visible": visible,
		"role":    requiredRole,
	}).Info("Drop event created")

	return event.id, event.renderLocked(), nil
}

// Claim attempts to claim a slot for an account holding the given roles.
// The whole check-and-mutate sequence runs under the event's mutex; the
// balance credit commits before the slot is marked, so a storage fault
// leaves the event state untouched and the slot claimable.
func (s *dropService) Claim(ctx context.Context, eventID string, accountID int64, slotIndex int, roles []string) (*models.ClaimResult, error) {
	event, err := s.get(eventID)
	if err != nil {
		return nil, err
	}

	event.mu.Lock()
	defer event.mu.Unlock()

	if event.requiredRole != "" && !hasRole(roles, event.requiredRole) {
		return nil, ErrNotEligible
	}
	if slotIndex < 0 || slotIndex >= len(event.payouts) {
		return nil, ErrSlotNotFound
	}
	if event.claimedBy[accountID] {
		return nil, ErrAlreadyClaimed
	}
	if event.claimed[slotIndex] {
		return nil, ErrSlotTaken
	}

	payout := event.payouts[slotIndex]
	logMessage := fmt.Sprintf("<@%d> picked up a drop worth %d points.", accountID, payout)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	newBalance, err := uow.AccountRepository().Credit(ctx, accountID, payout)
	if err != nil {
		return nil, fmt.Errorf("failed to credit claim payout: %w", err)
	}

	uow.EventBus().Publish(events.DropClaimedEvent{
		EventID:    eventID,
		AccountID:  accountID,
		SlotIndex:  slotIndex,
		Payout:     payout,
		LogMessage: logMessage,
	})
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    accountID,
		OldBalance:   newBalance - payout,
		NewBalance:   newBalance,
		ChangeAmount: payout,
		Reason:       "drop_claim",
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Mark only after the credit is durable
	event.claimed[slotIndex] = true
	event.claimedBy[accountID] = true

	claimedCount := event.claimedCountLocked()

	return &models.ClaimResult{
		EventID:       eventID,
		SlotIndex:     slotIndex,
		Payout:        payout,
		NewBalance:    newBalance,
		Labels:        event.renderLocked(),
		ClaimedCount:  claimedCount,
		TotalSlots:    len(event.payouts),
		PublicMessage: fmt.Sprintf("You picked up **%d points**!", payout),
		LogMessage:    logMessage,
	}, nil
}

// Snapshot returns the current rendered view of an event
func (s *dropService) Snapshot(eventID string) ([]models.SlotLabel, int, int, error) {
	event, err := s.get(eventID)
	if err != nil {
		return nil, 0, 0, err
	}

	event.mu.Lock()
	defer event.mu.Unlock()

	return event.renderLocked(), event.claimedCountLocked(), len(event.payouts), nil
}

func (s *dropService) get(eventID string) (*dropEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// renderLocked builds the public view of every slot. Callers must hold
// the event mutex (creation, before the event is shared, counts too).
func (e *dropEvent) renderLocked() []models.SlotLabel {
	labels := make([]models.SlotLabel, len(e.payouts))
	for i := range e.payouts {
		labels[i] = models.SlotLabel{
			Index:   i,
			Claimed: e.claimed[i],
		}
		switch {
		case e.claimed[i]:
			labels[i].Label = "Claimed ✅"
		case e.visible:
			labels[i].Label = fmt.Sprintf("Drop %d: %d pts", i+1, e.payouts[i])
		default:
			labels[i].Label = fmt.Sprintf("Drop %d: Mystery ✨", i+1)
		}
	}
	return labels
}

func (e *dropEvent) claimedCountLocked() int {
	count := 0
	for _, claimed := range e.claimed {
		if claimed {
			count++
		}
	}
	return count
}

func hasRole(roles []string, required string) bool {
	for _, role := range roles {
		if role == required {
			return true
		}
	}
	return false
}
