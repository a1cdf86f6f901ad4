package network

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

// subscriber - личный канал и сессия, на которую он подписан.
type subscriber struct {
	session string
	ch      chan api.ServerResponse
}

// Broadcaster занимается только рассылкой сообщений подписчикам.
// Игрок подписан на свою сессию, зрители /watch - на чужую или,
// с пустым session, на все сразу.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SubscriberID -> подписка
	subscribers map[string]subscriber
	buffer      int
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 100
	}
	return &Broadcaster{
		subscribers: make(map[string]subscriber),
		buffer:      buffer,
	}
}

// Register создает личный канал подписчика на сессию session.
// Повторная регистрация закрывает старый канал.
func (b *Broadcaster) Register(id, session string) <-chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old.ch)
	}

	ch := make(chan api.ServerResponse, b.buffer)
	b.subscribers[id] = subscriber{session: session, ch: ch}
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет сообщение конкретному подписчику (Unicast).
// Медленный подписчик теряет сообщения, а не тормозит игру.
func (b *Broadcaster) SendTo(id string, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sub, ok := b.subscribers[id]
	if !ok {
		return false
	}
	return b.offer(id, sub, msg)
}

// Publish отправляет снимок всем подписчикам сессии.
func (b *Broadcaster) Publish(session string, msg api.ServerResponse) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sent := 0
	for id, sub := range b.subscribers {
		if sub.session != "" && sub.session != session {
			continue
		}
		if b.offer(id, sub, msg) {
			sent++
		}
	}
	return sent
}

// Broadcast отправляет всем (например, уведомление об остановке сервера)
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, sub := range b.subscribers {
		b.offer(id, sub, msg)
	}
}

func (b *Broadcaster) offer(id string, sub subscriber, msg api.ServerResponse) bool {
	select {
	case sub.ch <- msg:
		return true
	default:
		logger.Log.WithFields(logrus.Fields{
			"component":  "hub",
			"subscriber": id,
			"session":    sub.session,
		}).Warn("Subscriber channel full, dropping message")
		return false
	}
}

// HasSubscriber проверяет, подключен ли подписчик.
func (b *Broadcaster) HasSubscriber(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Watchers - число подписчиков, получающих кадры сессии.
func (b *Broadcaster) Watchers(session string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, sub := range b.subscribers {
		if sub.session == "" || sub.session == session {
			n++
		}
	}
	return n
}
