package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/renkteks/kartela/internal/warehouse/domain"
)

// Mock ItemRepository backed by a slice, matching the store's ordering
// behavior: substring matches come back in ID order.
type mockItemRepo struct {
	items []domain.Item
	mu    sync.Mutex
}

func (m *mockItemRepo) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			copied := m.items[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (m *mockItemRepo) FindByCode(ctx context.Context, code string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].Code == code {
			copied := m.items[i]
			return &copied, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (m *mockItemRepo) FindByColorCodeContains(ctx context.Context, fragment string) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []domain.Item
	needle := strings.ToLower(fragment)
	for i := range m.items {
		if strings.Contains(strings.ToLower(m.items[i].ColorCode), needle) {
			matches = append(matches, m.items[i])
		}
	}
	return matches, nil
}

func (m *mockItemRepo) UpdatePlacement(ctx context.Context, itemID, cellID uint, cellCode string, userID uint, now time.Time) error {
	return nil
}

func (m *mockItemRepo) CountByCellID(ctx context.Context, cellID uint) (int64, error) {
	return 0, nil
}

func TestResolveItem_ExactMatchWins(t *testing.T) {
	repo := &mockItemRepo{items: []domain.Item{
		{ID: 1, Code: "7705", ColorCode: "7705", Status: domain.ItemStatusActive},
		{ID: 2, Code: "77051.2", ColorCode: "77051.2", Status: domain.ItemStatusActive},
	}}
	h := NewResolveItemHandler(repo)

	item, err := h.Handle(context.Background(), ResolveItemQuery{Input: "7705"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if item.ID != 1 {
		t.Errorf("expected exact match item 1, got %d (%s)", item.ID, item.Code)
	}
}

func TestResolveItem_FragmentFallback(t *testing.T) {
	repo := &mockItemRepo{items: []domain.Item{
		{ID: 2, Code: "K-77051.2", ColorCode: "77051.2", Status: domain.ItemStatusActive},
	}}
	h := NewResolveItemHandler(repo)

	item, err := h.Handle(context.Background(), ResolveItemQuery{Input: "7705"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if item.Code != "K-77051.2" {
		t.Errorf("expected fragment match, got %s", item.Code)
	}
}

func TestResolveItem_AmbiguousFragmentTakesFirst(t *testing.T) {
	repo := &mockItemRepo{items: []domain.Item{
		{ID: 3, Code: "K-77051.2", ColorCode: "77051.2", Status: domain.ItemStatusActive},
		{ID: 5, Code: "K-77052.1", ColorCode: "77052.1", Status: domain.ItemStatusActive},
	}}
	h := NewResolveItemHandler(repo)

	item, err := h.Handle(context.Background(), ResolveItemQuery{Input: "7705"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if item.ID != 3 {
		t.Errorf("expected first match (id 3), got %d", item.ID)
	}
}

func TestResolveItem_NotFound(t *testing.T) {
	h := NewResolveItemHandler(&mockItemRepo{})

	_, err := h.Handle(context.Background(), ResolveItemQuery{Input: "9999"})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got: %v", err)
	}
}

func TestResolveItem_EmptyInput(t *testing.T) {
	h := NewResolveItemHandler(&mockItemRepo{})

	for _, input := range []string{"", "   ", "\t"} {
		_, err := h.Handle(context.Background(), ResolveItemQuery{Input: input})
		if !errors.Is(err, domain.ErrItemNotFound) {
			t.Errorf("input %q: expected ErrItemNotFound, got: %v", input, err)
		}
	}
}

func TestResolveItem_TrimsWhitespace(t *testing.T) {
	repo := &mockItemRepo{items: []domain.Item{
		{ID: 1, Code: "7705", ColorCode: "7705", Status: domain.ItemStatusActive},
	}}
	h := NewResolveItemHandler(repo)

	item, err := h.Handle(context.Background(), ResolveItemQuery{Input: " 7705 \n"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if item.ID != 1 {
		t.Errorf("expected item 1, got %d", item.ID)
	}
}

func TestResolveItem_ArchivedIsInactive(t *testing.T) {
	repo := &mockItemRepo{items: []domain.Item{
		{ID: 1, Code: "7705", ColorCode: "7705", Status: domain.ItemStatusArchived},
	}}
	h := NewResolveItemHandler(repo)

	_, err := h.Handle(context.Background(), ResolveItemQuery{Input: "7705"})
	if !errors.Is(err, domain.ErrItemInactive) {
		t.Fatalf("expected ErrItemInactive, got: %v", err)
	}
}

func TestResolveItem_FullItemStillTransfers(t *testing.T) {
	// "full" flags a crowded card, it does not block movement.
	repo := &mockItemRepo{items: []domain.Item{
		{ID: 1, Code: "7705", ColorCode: "7705", Status: domain.ItemStatusFull},
	}}
	h := NewResolveItemHandler(repo)

	item, err := h.Handle(context.Background(), ResolveItemQuery{Input: "7705"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if item.Status != domain.ItemStatusFull {
		t.Errorf("unexpected status: %s", item.Status)
	}
}
