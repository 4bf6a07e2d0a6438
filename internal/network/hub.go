package network

import (
	"sync"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

const subscriberBuffer = 100

// Broadcaster рассылает события боя подключенным клиентам.
// Реализует domain.EventSink, поэтому подключается к бою напрямую.
type Broadcaster struct {
	mu sync.RWMutex
	// ClientID -> личный канал
	subscribers map[string]chan api.ServerEvent
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerEvent),
	}
}

// Register создает личный канал клиента. Повторная регистрация закрывает старый канал.
func (b *Broadcaster) Register(clientID string) chan api.ServerEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[clientID]; ok {
		close(old)
	}

	ch := make(chan api.ServerEvent, subscriberBuffer)
	b.subscribers[clientID] = ch
	return ch
}

// Unregister удаляет подписчика и закрывает его канал
func (b *Broadcaster) Unregister(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[clientID]; ok {
		close(ch)
		delete(b.subscribers, clientID)
	}
}

// Release снимает подписку, только если канал все еще принадлежит этому подключению.
// Повторный вход с тем же ID не должен отключаться старым соединением.
func (b *Broadcaster) Release(clientID string, ch chan api.ServerEvent) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cur, ok := b.subscribers[clientID]; ok && cur == ch {
		close(cur)
		delete(b.subscribers, clientID)
		return true
	}
	return false
}

// SendTo отправляет сообщение конкретному клиенту (Unicast)
func (b *Broadcaster) SendTo(clientID string, msg api.ServerEvent) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[clientID]
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		b.drop(clientID, msg.Type)
		return false
	}
}

// Broadcast отправляет всем. Медленный клиент теряет сообщение, бой не ждет.
func (b *Broadcaster) Broadcast(msg api.ServerEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			b.drop(id, msg.Type)
		}
	}
}

// Publish - domain.EventSink
func (b *Broadcaster) Publish(e domain.Event) {
	b.Broadcast(ToServerEvent(e))
}

// ToServerEvent переводит событие ядра в формат протокола
func ToServerEvent(e domain.Event) api.ServerEvent {
	return api.ServerEvent{
		Type:    e.Type.String(),
		Round:   e.Round,
		UnitID:  string(e.UnitID),
		Payload: e.Payload,
	}
}

func (b *Broadcaster) drop(clientID, msgType string) {
	logger.Log.WithFields(logrus.Fields{
		"component": "broadcaster",
		"client_id": clientID,
		"type":      msgType,
	}).Warn("Subscriber channel full, message dropped")
}

// HasSubscriber проверяет, подключен ли клиент
func (b *Broadcaster) HasSubscriber(clientID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[clientID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
