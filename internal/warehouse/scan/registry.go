package scan

import (
	"sync"

	"github.com/google/uuid"

	"github.com/renkteks/kartela/internal/warehouse/usecase/command"
	"github.com/renkteks/kartela/internal/warehouse/usecase/query"
)

// Registry hands out one Machine per operator session. Machines are created
// lazily on first use and live for the process lifetime; there are few
// operators and each machine is a handful of pointers.
type Registry struct {
	resolveItem *query.ResolveItemHandler
	lookupCell  *query.LookupCellHandler
	transfer    *command.TransferItemHandler
	clock       Clock
	dedupe      EventDeduper

	mu       sync.Mutex
	machines map[string]*Machine
}

// NewRegistry creates a new session registry
func NewRegistry(
	resolveItem *query.ResolveItemHandler,
	lookupCell *query.LookupCellHandler,
	transfer *command.TransferItemHandler,
	clock Clock,
	dedupe EventDeduper,
) *Registry {
	return &Registry{
		resolveItem: resolveItem,
		lookupCell:  lookupCell,
		transfer:    transfer,
		clock:       clock,
		dedupe:      dedupe,
		machines:    make(map[string]*Machine),
	}
}

// NewSessionID mints a fresh session identifier
func NewSessionID() string {
	return uuid.New().String()
}

// Machine returns the machine for sessionID, creating it for userID if it
// does not exist yet.
func (r *Registry) Machine(sessionID string, userID uint) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.machines[sessionID]; ok {
		return m
	}
	m := NewMachine(sessionID, userID, r.resolveItem, r.lookupCell, r.transfer, r.clock, r.dedupe)
	r.machines[sessionID] = m
	return m
}

// Lookup returns the machine for sessionID without creating one
func (r *Registry) Lookup(sessionID string) (*Machine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.machines[sessionID]
	return m, ok
}
