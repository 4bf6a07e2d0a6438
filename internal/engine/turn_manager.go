package engine

import (
	"container/heap"
	"sort"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"
)

// TurnManager - очередь ходов текущего раунда
type TurnManager struct {
	queue   TurnQueue
	itemMap map[domain.UnitID]*TurnItem
}

func NewTurnManager() *TurnManager {
	return &TurnManager{
		queue:   make(TurnQueue, 0),
		itemMap: make(map[domain.UnitID]*TurnItem),
	}
}

// AddUnit ставит юнита в очередь. Повторное добавление игнорируется.
func (tm *TurnManager) AddUnit(u *domain.Unit, priority int) {
	if _, ok := tm.itemMap[u.ID]; ok {
		return
	}
	item := &TurnItem{Value: u, Priority: priority}
	heap.Push(&tm.queue, item)
	tm.itemMap[u.ID] = item

	logger.Log.WithField("unit_id", u.ID).Debug("Unit added to TurnManager")
}

// PeekNext возвращает следующего юнита, не снимая его
func (tm *TurnManager) PeekNext() *TurnItem {
	if tm.queue.Len() == 0 {
		return nil
	}
	return tm.queue[0]
}

// PopNext снимает следующего юнита с очереди
func (tm *TurnManager) PopNext() *domain.Unit {
	if tm.queue.Len() == 0 {
		return nil
	}
	item := heap.Pop(&tm.queue).(*TurnItem)
	delete(tm.itemMap, item.Value.ID)
	return item.Value
}

// RemoveUnit убирает юнита (смерть). Порядок остальных не меняется.
func (tm *TurnManager) RemoveUnit(id domain.UnitID) bool {
	item, ok := tm.itemMap[id]
	if !ok {
		return false
	}
	heap.Remove(&tm.queue, item.Index)
	delete(tm.itemMap, id)
	return true
}

func (tm *TurnManager) Contains(id domain.UnitID) bool {
	_, ok := tm.itemMap[id]
	return ok
}

func (tm *TurnManager) Len() int {
	return tm.queue.Len()
}

// Clear очищает очередь
func (tm *TurnManager) Clear() {
	tm.queue = tm.queue[:0]
	tm.itemMap = make(map[domain.UnitID]*TurnItem)
}

// Order - оставшиеся юниты в порядке хода
func (tm *TurnManager) Order() []domain.UnitID {
	items := make([]*TurnItem, len(tm.queue))
	copy(items, tm.queue)
	sort.Slice(items, func(i, j int) bool { return items[i].Priority < items[j].Priority })

	ids := make([]domain.UnitID, len(items))
	for i, it := range items {
		ids[i] = it.Value.ID
	}
	return ids
}

// DebugDump возвращает снимок очереди для отладки
func (tm *TurnManager) DebugDump() []map[string]interface{} {
	// Пустой слайс, а не nil: в JSON будет "[]"
	result := make([]map[string]interface{}, 0, tm.queue.Len())
	for _, item := range tm.queue {
		result = append(result, map[string]interface{}{
			"id":       item.Value.ID,
			"name":     item.Value.Name,
			"team":     item.Value.Team.String(),
			"priority": item.Priority,
			"index":    item.Index,
		})
	}
	return result
}
