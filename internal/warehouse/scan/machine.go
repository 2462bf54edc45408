package scan

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/internal/warehouse/usecase/command"
	"github.com/renkteks/kartela/internal/warehouse/usecase/query"
	"github.com/renkteks/kartela/pkg/logger"
)

// Phase identifies where a scan sequence currently is
type Phase string

// Scan phases
const (
	PhaseAwaitingItem Phase = "awaiting_item"
	PhaseAwaitingCell Phase = "awaiting_cell"
	PhaseSuccess      Phase = "success"
	PhaseError        Phase = "error"
)

// SuccessResetDelay is how long the Success screen stays up before the
// machine returns to AwaitingItem on its own.
const SuccessResetDelay = 3 * time.Second

// State is a snapshot of the machine. Item is set from AwaitingCell onward,
// Cell and Record only in Success, Reason only in Error.
type State struct {
	Phase  Phase                  `json:"phase"`
	Item   *domain.Item           `json:"item,omitempty"`
	Cell   *domain.Cell           `json:"cell,omitempty"`
	Record *domain.TransferRecord `json:"record,omitempty"`
	Reason string                 `json:"reason,omitempty"`
}

// EventDeduper filters duplicate deliveries of the same scanner event.
// FirstDelivery returns false when the key was already seen recently.
type EventDeduper interface {
	FirstDelivery(ctx context.Context, key string) (bool, error)
}

// Machine drives one operator session's scan sequence. It is cooperative:
// every event handler runs under one mutex, so exactly one lookup or transfer
// is in flight per session. Cross-session capacity races are closed in the
// cell store, not here.
type Machine struct {
	sessionID string
	userID    uint

	resolveItem *query.ResolveItemHandler
	lookupCell  *query.LookupCellHandler
	transfer    *command.TransferItemHandler

	clock  Clock
	dedupe EventDeduper

	mu       sync.Mutex
	state    State
	timer    Timer
	timerSeq uint64
}

// NewMachine creates a machine in AwaitingItem for one operator session.
// dedupe may be nil, in which case every delivery is taken at face value.
func NewMachine(
	sessionID string,
	userID uint,
	resolveItem *query.ResolveItemHandler,
	lookupCell *query.LookupCellHandler,
	transfer *command.TransferItemHandler,
	clock Clock,
	dedupe EventDeduper,
) *Machine {
	return &Machine{
		sessionID:   sessionID,
		userID:      userID,
		resolveItem: resolveItem,
		lookupCell:  lookupCell,
		transfer:    transfer,
		clock:       clock,
		dedupe:      dedupe,
		state:       State{Phase: PhaseAwaitingItem},
	}
}

// SessionID returns the operator session this machine belongs to
func (m *Machine) SessionID() string {
	return m.sessionID
}

// Current returns a snapshot of the machine state
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ScanItem handles raw item input. Only meaningful in AwaitingItem; in any
// other phase the event is dropped and the current state returned.
func (m *Machine) ScanItem(ctx context.Context, raw string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseAwaitingItem {
		return m.state
	}

	item, err := m.resolveItem.Handle(ctx, query.ResolveItemQuery{Input: raw})
	if err != nil {
		m.toError(err)
		return m.state
	}

	m.state = State{Phase: PhaseAwaitingCell, Item: item}
	return m.state
}

// ScanCell handles raw destination input. Only meaningful in AwaitingCell.
// On acceptance it runs the full transfer sequence before returning; the
// machine takes no further input until then.
func (m *Machine) ScanCell(ctx context.Context, raw string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Phase != PhaseAwaitingCell {
		return m.state
	}

	item := m.state.Item

	// Normalize before the dedupe key so a double-fire with trailing scanner
	// whitespace still collapses onto one key.
	raw = strings.TrimSpace(raw)

	if m.dedupe != nil {
		key := fmt.Sprintf("scan:%s:%d:%s", m.sessionID, item.ID, raw)
		first, err := m.dedupe.FirstDelivery(ctx, key)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("session", m.sessionID).Msg("Scan dedupe check failed, accepting event")
		} else if !first {
			logger.Logger.Info().Str("session", m.sessionID).Str("input", raw).Msg("Duplicate scan event dropped")
			return m.state
		}
	}

	cell, err := m.lookupCell.Handle(ctx, query.LookupCellQuery{Code: raw})
	if err != nil {
		m.toError(err)
		return m.state
	}

	if err := domain.EvaluatePlacement(item, cell); err != nil {
		m.toError(err)
		return m.state
	}

	result, err := m.transfer.Handle(ctx, command.TransferItemCommand{
		Item:     item,
		DestCell: cell,
		UserID:   m.userID,
	})
	if err != nil {
		m.toError(err)
		return m.state
	}

	m.state = State{Phase: PhaseSuccess, Item: item, Cell: cell, Record: &result.Record}
	m.armResetTimer()
	return m.state
}

// Confirm acknowledges a terminal screen. In Success it cancels the pending
// auto-reset and returns to AwaitingItem immediately; in Error it returns to
// AwaitingItem. In the awaiting phases it is a no-op.
func (m *Machine) Confirm() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state.Phase {
	case PhaseSuccess, PhaseError:
		m.reset()
	}
	return m.state
}

// Cancel discards any partially entered selection and returns to
// AwaitingItem. It never reverses a transfer that already committed; by the
// time the machine is in Success the coordinator has run to completion.
func (m *Machine) Cancel() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
	return m.state
}

// toError moves to the Error phase. Error does not auto-reset; the operator
// has to acknowledge it.
func (m *Machine) toError(err error) {
	m.stopTimer()
	m.state = State{Phase: PhaseError, Reason: err.Error()}
}

// reset returns to AwaitingItem and invalidates any pending timer.
func (m *Machine) reset() {
	m.stopTimer()
	m.state = State{Phase: PhaseAwaitingItem}
}

// armResetTimer schedules the auto-reset out of Success. The sequence number
// keeps a timer that lost the Stop race from resetting a newer sequence.
func (m *Machine) armResetTimer() {
	m.stopTimer()
	seq := m.timerSeq
	m.timer = m.clock.AfterFunc(SuccessResetDelay, func() {
		m.autoReset(seq)
	})
}

func (m *Machine) autoReset(seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timerSeq != seq || m.state.Phase != PhaseSuccess {
		return
	}
	m.timer = nil
	m.timerSeq++
	m.state = State{Phase: PhaseAwaitingItem}
}

func (m *Machine) stopTimer() {
	m.timerSeq++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
