package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

// Mock ItemRepository
type mockItemRepo struct {
	items     map[uint]*domain.Item
	updateErr error
	mu        sync.Mutex
}

func newMockItemRepo(items ...*domain.Item) *mockItemRepo {
	m := &mockItemRepo{items: make(map[uint]*domain.Item)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *mockItemRepo) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; ok {
		copied := *it
		return &copied, nil
	}
	return nil, domain.ErrItemNotFound
}

func (m *mockItemRepo) FindByCode(ctx context.Context, code string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Code == code {
			copied := *it
			return &copied, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (m *mockItemRepo) FindByColorCodeContains(ctx context.Context, fragment string) ([]domain.Item, error) {
	return nil, nil
}

func (m *mockItemRepo) UpdatePlacement(ctx context.Context, itemID, cellID uint, cellCode string, userID uint, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	it, ok := m.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	it.CurrentCellID = &cellID
	it.CurrentCellCode = cellCode
	it.UsageCount++
	it.LastUsedAt = &now
	it.LastUsedByUserID = &userID
	return nil
}

func (m *mockItemRepo) CountByCellID(ctx context.Context, cellID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.items {
		if it.CurrentCellID != nil && *it.CurrentCellID == cellID {
			n++
		}
	}
	return n, nil
}

// Mock CellRepository
type mockCellRepo struct {
	cells     map[uint]*domain.Cell
	adjustErr error
	occupyErr error
	mu        sync.Mutex
}

func newMockCellRepo(cells ...*domain.Cell) *mockCellRepo {
	m := &mockCellRepo{cells: make(map[uint]*domain.Cell)}
	for _, c := range cells {
		m.cells[c.ID] = c
	}
	return m
}

func (m *mockCellRepo) FindByID(ctx context.Context, id uint) (*domain.Cell, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cells[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCellNotFound
}

func (m *mockCellRepo) FindByCode(ctx context.Context, code string) (*domain.Cell, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cells {
		if c.Code == code {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrCellNotFound
}

func (m *mockCellRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.Cell, error) {
	return nil, nil
}

func (m *mockCellRepo) AdjustCount(ctx context.Context, cellID uint, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adjustErr != nil {
		return m.adjustErr
	}
	c, ok := m.cells[cellID]
	if !ok {
		return domain.ErrCellNotFound
	}
	c.CurrentCount += delta
	if c.CurrentCount < 0 {
		c.CurrentCount = 0
	}
	return nil
}

func (m *mockCellRepo) OccupyOne(ctx context.Context, cellID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.occupyErr != nil {
		return m.occupyErr
	}
	c, ok := m.cells[cellID]
	if !ok {
		return domain.ErrCellNotFound
	}
	if c.CurrentCount >= c.Capacity {
		return domain.ErrCellFull
	}
	c.CurrentCount++
	return nil
}

func (m *mockCellRepo) UpdateRange(ctx context.Context, cellID uint, start, end *string, capacity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cells[cellID]
	if !ok {
		return domain.ErrCellNotFound
	}
	c.ColorRangeStart = start
	c.ColorRangeEnd = end
	c.Capacity = capacity
	return nil
}

// Mock TransferRepository
type mockTransferRepo struct {
	records   []domain.TransferRecord
	appendErr error
	mu        sync.Mutex
}

func (m *mockTransferRepo) Append(ctx context.Context, record *domain.TransferRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	record.ID = uint(len(m.records) + 1)
	m.records = append(m.records, *record)
	return nil
}

func (m *mockTransferRepo) FindByItemID(ctx context.Context, itemID uint, limit, offset int) ([]domain.TransferRecord, error) {
	return nil, nil
}

func (m *mockTransferRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.TransferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TransferRecord(nil), m.records...), nil
}

// Mock TransferEvents
type mockEvents struct {
	transferred     []domain.TransferRecord
	auditFlags      []bool
	partialFailures []*domain.PartialFailureError
	mu              sync.Mutex
}

func (m *mockEvents) ItemTransferred(ctx context.Context, record domain.TransferRecord, auditWritten bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transferred = append(m.transferred, record)
	m.auditFlags = append(m.auditFlags, auditWritten)
}

func (m *mockEvents) TransferPartialFailure(ctx context.Context, pf *domain.PartialFailureError, userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partialFailures = append(m.partialFailures, pf)
}

func cellRef(id uint) *uint { return &id }

func TestTransfer_MovesBetweenCells(t *testing.T) {
	item := &domain.Item{ID: 1, Code: "77051.2", Status: domain.ItemStatusActive, CurrentCellID: cellRef(10), CurrentCellCode: "C1", UsageCount: 3}
	source := &domain.Cell{ID: 10, Code: "C1", Capacity: 50, CurrentCount: 5, Active: true}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 50, CurrentCount: 10, Active: true}

	items := newMockItemRepo(item)
	cells := newMockCellRepo(source, dest)
	transfers := &mockTransferRepo{}
	events := &mockEvents{}

	h := NewTransferItemHandler(items, cells, transfers, events)

	destCopy := *dest
	result, err := h.Handle(context.Background(), TransferItemCommand{Item: item, DestCell: &destCopy, UserID: 7})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if !result.AuditWritten {
		t.Error("expected audit record to be written")
	}

	if got := cells.cells[10].CurrentCount; got != 4 {
		t.Errorf("source count: expected 4, got %d", got)
	}
	if got := cells.cells[20].CurrentCount; got != 11 {
		t.Errorf("dest count: expected 11, got %d", got)
	}

	moved := items.items[1]
	if moved.CurrentCellCode != "C2" || moved.CurrentCellID == nil || *moved.CurrentCellID != 20 {
		t.Errorf("item placement not updated: %+v", moved)
	}
	if moved.UsageCount != 4 {
		t.Errorf("usage count: expected 4, got %d", moved.UsageCount)
	}

	if len(transfers.records) != 1 {
		t.Fatalf("expected 1 transfer record, got %d", len(transfers.records))
	}
	rec := transfers.records[0]
	if rec.FromCellCode != "C1" || rec.ToCellCode != "C2" || rec.UserID != 7 {
		t.Errorf("unexpected record: %+v", rec)
	}

	if len(events.transferred) != 1 {
		t.Errorf("expected 1 transferred event, got %d", len(events.transferred))
	}
	if len(events.partialFailures) != 0 {
		t.Errorf("expected no partial failure events, got %d", len(events.partialFailures))
	}
}

func TestTransfer_FirstPlacementHasNoSource(t *testing.T) {
	item := &domain.Item{ID: 1, Code: "K-100", Status: domain.ItemStatusActive}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 10, CurrentCount: 0, Active: true}

	items := newMockItemRepo(item)
	cells := newMockCellRepo(dest)
	transfers := &mockTransferRepo{}

	h := NewTransferItemHandler(items, cells, transfers, nil)

	destCopy := *dest
	result, err := h.Handle(context.Background(), TransferItemCommand{Item: item, DestCell: &destCopy, UserID: 7})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if result.Record.FromCellCode != "" {
		t.Errorf("expected empty source code, got %q", result.Record.FromCellCode)
	}
	if got := cells.cells[20].CurrentCount; got != 1 {
		t.Errorf("dest count: expected 1, got %d", got)
	}
}

func TestTransfer_FullCellLeavesEverythingUntouched(t *testing.T) {
	item := &domain.Item{ID: 1, Code: "K-100", Status: domain.ItemStatusActive, CurrentCellID: cellRef(10), CurrentCellCode: "C1"}
	source := &domain.Cell{ID: 10, Code: "C1", Capacity: 50, CurrentCount: 5, Active: true}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 10, CurrentCount: 10, Active: true}

	items := newMockItemRepo(item)
	cells := newMockCellRepo(source, dest)
	transfers := &mockTransferRepo{}

	h := NewTransferItemHandler(items, cells, transfers, nil)

	destCopy := *dest
	_, err := h.Handle(context.Background(), TransferItemCommand{Item: item, DestCell: &destCopy, UserID: 7})
	if !errors.Is(err, domain.ErrCellFull) {
		t.Fatalf("expected ErrCellFull, got: %v", err)
	}

	if got := cells.cells[10].CurrentCount; got != 5 {
		t.Errorf("source count mutated: %d", got)
	}
	if got := cells.cells[20].CurrentCount; got != 10 {
		t.Errorf("dest count mutated: %d", got)
	}
	if len(transfers.records) != 0 {
		t.Errorf("expected no records, got %d", len(transfers.records))
	}
}

func TestTransfer_SameCellRejected(t *testing.T) {
	item := &domain.Item{ID: 1, Code: "K-100", Status: domain.ItemStatusActive, CurrentCellID: cellRef(20), CurrentCellCode: "C2"}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 10, CurrentCount: 3, Active: true}

	items := newMockItemRepo(item)
	cells := newMockCellRepo(dest)
	transfers := &mockTransferRepo{}

	h := NewTransferItemHandler(items, cells, transfers, nil)

	destCopy := *dest
	_, err := h.Handle(context.Background(), TransferItemCommand{Item: item, DestCell: &destCopy, UserID: 7})
	if !errors.Is(err, domain.ErrAlreadyInCell) {
		t.Fatalf("expected ErrAlreadyInCell, got: %v", err)
	}
	if got := cells.cells[20].CurrentCount; got != 3 {
		t.Errorf("dest count mutated: %d", got)
	}
}

func TestTransfer_LateOccupyFailureIsPartial(t *testing.T) {
	// The guard sees a stale free slot; the capacity-guarded occupy refuses.
	// The source was already vacated, so the outcome is a partial failure.
	item := &domain.Item{ID: 1, Code: "K-100", Status: domain.ItemStatusActive, CurrentCellID: cellRef(10), CurrentCellCode: "C1"}
	source := &domain.Cell{ID: 10, Code: "C1", Capacity: 50, CurrentCount: 5, Active: true}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 10, CurrentCount: 10, Active: true}

	items := newMockItemRepo(item)
	cells := newMockCellRepo(source, dest)
	transfers := &mockTransferRepo{}
	events := &mockEvents{}

	h := NewTransferItemHandler(items, cells, transfers, events)

	staleDest := *dest
	staleDest.CurrentCount = 9
	_, err := h.Handle(context.Background(), TransferItemCommand{Item: item, DestCell: &staleDest, UserID: 7})

	var pf *domain.PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("expected PartialFailureError, got: %v", err)
	}
	if pf.FailedStep != domain.StepOccupyDest {
		t.Errorf("failed step: expected %s, got %s", domain.StepOccupyDest, pf.FailedStep)
	}
	if len(pf.StepsApplied) != 1 || pf.StepsApplied[0] != domain.StepVacateSource {
		t.Errorf("unexpected applied steps: %v", pf.StepsApplied)
	}
	if !errors.Is(err, domain.ErrCellFull) {
		t.Errorf("expected underlying ErrCellFull, got: %v", pf.Err)
	}

	// The vacate is not rolled back.
	if got := cells.cells[10].CurrentCount; got != 4 {
		t.Errorf("source count: expected 4, got %d", got)
	}
	if len(events.partialFailures) != 1 {
		t.Errorf("expected 1 partial failure event, got %d", len(events.partialFailures))
	}
}

func TestTransfer_UpdateItemFailureIsPartial(t *testing.T) {
	item := &domain.Item{ID: 1, Code: "K-100", Status: domain.ItemStatusActive, CurrentCellID: cellRef(10), CurrentCellCode: "C1"}
	source := &domain.Cell{ID: 10, Code: "C1", Capacity: 50, CurrentCount: 5, Active: true}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 50, CurrentCount: 10, Active: true}

	items := newMockItemRepo(item)
	items.updateErr = errors.New("connection reset")
	cells := newMockCellRepo(source, dest)
	transfers := &mockTransferRepo{}
	events := &mockEvents{}

	h := NewTransferItemHandler(items, cells, transfers, events)

	destCopy := *dest
	_, err := h.Handle(context.Background(), TransferItemCommand{Item: item, DestCell: &destCopy, UserID: 7})

	var pf *domain.PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("expected PartialFailureError, got: %v", err)
	}
	if pf.FailedStep != domain.StepUpdateItem {
		t.Errorf("failed step: expected %s, got %s", domain.StepUpdateItem, pf.FailedStep)
	}
	if len(pf.StepsApplied) != 2 {
		t.Errorf("expected 2 applied steps, got %v", pf.StepsApplied)
	}

	// Both count writes stand.
	if got := cells.cells[10].CurrentCount; got != 4 {
		t.Errorf("source count: expected 4, got %d", got)
	}
	if got := cells.cells[20].CurrentCount; got != 11 {
		t.Errorf("dest count: expected 11, got %d", got)
	}
	if len(transfers.records) != 0 {
		t.Errorf("expected no audit record, got %d", len(transfers.records))
	}
}

func TestTransfer_AuditFailureStillSucceeds(t *testing.T) {
	item := &domain.Item{ID: 1, Code: "K-100", Status: domain.ItemStatusActive, CurrentCellID: cellRef(10), CurrentCellCode: "C1"}
	source := &domain.Cell{ID: 10, Code: "C1", Capacity: 50, CurrentCount: 5, Active: true}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 50, CurrentCount: 10, Active: true}

	items := newMockItemRepo(item)
	cells := newMockCellRepo(source, dest)
	transfers := &mockTransferRepo{appendErr: errors.New("disk full")}
	events := &mockEvents{}

	h := NewTransferItemHandler(items, cells, transfers, events)

	destCopy := *dest
	result, err := h.Handle(context.Background(), TransferItemCommand{Item: item, DestCell: &destCopy, UserID: 7})
	if err != nil {
		t.Fatalf("expected success despite audit failure, got: %v", err)
	}
	if result.AuditWritten {
		t.Error("expected AuditWritten=false")
	}

	// The placement went through and both event kinds fired.
	if got := items.items[1].CurrentCellCode; got != "C2" {
		t.Errorf("item not repointed: %s", got)
	}
	if len(events.transferred) != 1 {
		t.Errorf("expected 1 transferred event, got %d", len(events.transferred))
	} else if events.auditFlags[0] {
		t.Error("transferred event must flag the missing audit record")
	}
	if len(events.partialFailures) != 1 {
		t.Errorf("expected 1 partial failure event, got %d", len(events.partialFailures))
	}
}

func TestTransfer_RejectsMissingActor(t *testing.T) {
	item := &domain.Item{ID: 1, Code: "K-100", Status: domain.ItemStatusActive}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 10, Active: true}

	h := NewTransferItemHandler(newMockItemRepo(item), newMockCellRepo(dest), &mockTransferRepo{}, nil)

	_, err := h.Handle(context.Background(), TransferItemCommand{Item: item, DestCell: dest})
	if !errors.Is(err, domain.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got: %v", err)
	}
}

func TestTransfer_ConcurrentIntoOneSlotCell(t *testing.T) {
	const workers = 8

	items := make([]*domain.Item, workers)
	for i := range items {
		items[i] = &domain.Item{
			ID:     uint(i + 1),
			Code:   fmt.Sprintf("K-%03d", i+1),
			Status: domain.ItemStatusActive,
		}
	}
	dest := &domain.Cell{ID: 20, Code: "C2", Capacity: 1, CurrentCount: 0, Active: true}

	itemRepo := newMockItemRepo(items...)
	cells := newMockCellRepo(dest)
	transfers := &mockTransferRepo{}

	h := NewTransferItemHandler(itemRepo, cells, transfers, nil)

	// Every worker holds the same stale snapshot of the empty cell, so the
	// guard passes for all of them and only the store-level occupy can keep
	// the count within capacity.
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(item *domain.Item) {
			defer wg.Done()

			staleDest := *dest
			_, err := h.Handle(context.Background(), TransferItemCommand{
				Item:     item,
				DestCell: &staleDest,
				UserID:   7,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrCellFull):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(items[i])
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("expected exactly 1 transfer to win the slot, got %d", succeeded)
	}
	if rejected != workers-1 {
		t.Errorf("expected %d rejections with ErrCellFull, got %d", workers-1, rejected)
	}
	if got := cells.cells[20].CurrentCount; got != 1 {
		t.Errorf("cell overfilled: count %d, capacity 1", got)
	}
	if len(transfers.records) != 1 {
		t.Errorf("expected 1 audit record, got %d", len(transfers.records))
	}
}
