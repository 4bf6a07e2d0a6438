package engine

import "github.com/BastardoSenpai/BootlegXCom/internal/domain"

// TurnItem обертка для элемента очереди приоритетов
type TurnItem struct {
	Value    *domain.Unit // Сам юнит
	Priority int          // Место в раунде. Чем меньше, тем раньше ход.
	Index    int          // Индекс в куче (нужен для update/remove)
}

// TurnQueue реализует heap.Interface и хранит TurnItems
type TurnQueue []*TurnItem

func (pq TurnQueue) Len() int { return len(pq) }

func (pq TurnQueue) Less(i, j int) bool {
	// MinHeap: приоритеты в раунде уникальны, порядок строгий
	return pq[i].Priority < pq[j].Priority
}

func (pq TurnQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TurnQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*TurnItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TurnQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}
