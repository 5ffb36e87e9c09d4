package engine

import (
	"container/heap"
	"sort"

	"voidreach-server/internal/domain"
)

// OrderItem обертка для команды в очереди приоритетов
type OrderItem struct {
	Value      domain.Command // Сама команда
	PlayerRank int            // Детерминированный ранг игрока (сортировка id)
	Index      int            // Индекс в куче (нужен для update)
}

// OrderQueue реализует heap.Interface и хранит OrderItems.
// Порядок извлечения: фазовая корзина -> ранг игрока -> порядковый номер
// внутри пакета. Порядок ПОДАЧИ пакетов на результат не влияет.
type OrderQueue []*OrderItem

func (pq OrderQueue) Len() int { return len(pq) }

func (pq OrderQueue) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.Value.Kind.Bucket() != b.Value.Kind.Bucket() {
		return a.Value.Kind.Bucket() < b.Value.Kind.Bucket()
	}
	if a.PlayerRank != b.PlayerRank {
		return a.PlayerRank < b.PlayerRank
	}
	return a.Value.Seq < b.Value.Seq
}

func (pq OrderQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *OrderQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*OrderItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *OrderQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// BuildOrderQueue собирает кучу из всех сданных пакетов сессии.
// Ранг игрока - позиция его id в отсортированном списке: одинаковый набор
// пакетов всегда дает одинаковый порядок исполнения.
func BuildOrderQueue(orders map[domain.PlayerID]*domain.TurnOrders) *OrderQueue {
	playerIDs := make([]string, 0, len(orders))
	for id := range orders {
		playerIDs = append(playerIDs, id.String())
	}
	sort.Strings(playerIDs)

	rank := make(map[domain.PlayerID]int, len(playerIDs))
	for i, id := range playerIDs {
		rank[domain.PlayerID(id)] = i
	}

	pq := make(OrderQueue, 0)
	heap.Init(&pq)
	for playerID, batch := range orders {
		for _, cmd := range batch.Commands {
			heap.Push(&pq, &OrderItem{Value: cmd, PlayerRank: rank[playerID]})
		}
	}
	return &pq
}

// PopBucket снимает с вершины все команды указанной корзины (в порядке кучи).
func (pq *OrderQueue) PopBucket(bucket domain.PriorityBucket) []domain.Command {
	var cmds []domain.Command
	for pq.Len() > 0 {
		top := (*pq)[0]
		if top.Value.Kind.Bucket() != bucket {
			break
		}
		item := heap.Pop(pq).(*OrderItem)
		cmds = append(cmds, item.Value)
	}
	return cmds
}
