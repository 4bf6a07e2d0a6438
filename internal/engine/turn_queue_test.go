package engine

import (
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
)

func TestTurnManager_OrderAndRemove(t *testing.T) {
	tm := NewTurnManager()

	u1 := domain.NewUnit("u1", "One", domain.TeamPlayer)
	u2 := domain.NewUnit("u2", "Two", domain.TeamEnemy)
	u3 := domain.NewUnit("u3", "Three", domain.TeamPlayer)
	u4 := domain.NewUnit("u4", "Four", domain.TeamEnemy)

	tm.AddUnit(u1, 2)
	tm.AddUnit(u2, 0)
	tm.AddUnit(u3, 3)
	tm.AddUnit(u4, 1)
	tm.AddUnit(u4, 7) // повтор игнорируется

	if tm.Len() != 4 {
		t.Fatalf("Expected length 4, got %d", tm.Len())
	}

	// Удаление из середины не ломает порядок остальных
	if !tm.RemoveUnit("u1") {
		t.Fatal("Expected u1 to be removed")
	}
	if tm.RemoveUnit("u1") {
		t.Error("Second removal should report false")
	}

	want := []domain.UnitID{"u2", "u4", "u3"}
	order := tm.Order()
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("Order mismatch: expected %v, got %v", want, order)
		}
	}

	for _, id := range want {
		if got := tm.PopNext(); got == nil || got.ID != id {
			t.Fatalf("Expected %s, got %v", id, got)
		}
	}
	if tm.PopNext() != nil || tm.Len() != 0 {
		t.Error("Queue should be empty")
	}
}
