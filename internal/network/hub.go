package network

import (
	"sync"

	"voidreach-server/internal/domain"
	"voidreach-server/pkg/api"
)

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: PlayerID -> Личный канал
	subscribers map[string]chan api.ServerMessage
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerMessage),
	}
}

// Register создает личный канал для игрока (человека или бота)
func (b *Broadcaster) Register(playerID domain.PlayerID) chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[playerID.String()]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, 100)
	b.subscribers[playerID.String()] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(playerID domain.PlayerID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[playerID.String()]; ok {
		close(ch)
		delete(b.subscribers, playerID.String())
	}
}

// SendTo отправляет сообщение конкретному игроку (Unicast)
func (b *Broadcaster) SendTo(playerID domain.PlayerID, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[playerID.String()]; ok {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Broadcast отправляет всем подписчикам
func (b *Broadcaster) Broadcast(msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// HasSubscriber проверяет, подключен ли игрок.
// Используется окном живых приказов: незачем ждать приказ от пустого слота.
func (b *Broadcaster) HasSubscriber(playerID domain.PlayerID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[playerID.String()]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
