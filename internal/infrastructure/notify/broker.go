// Package notify implementa los adaptadores del puerto ports.Notifier.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var _ ports.Notifier = (*Broker)(nil)

// Broker fan-out en proceso. Publish nunca bloquea: si el buffer de un suscriptor
// está lleno el evento se descarta para ese suscriptor.
type Broker struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	log    *logger.Logger
}

// Subscription suscripción a un conjunto de tópicos. Topics vacío = todos.
type Subscription struct {
	C      <-chan ports.Event
	ch     chan ports.Event
	topics map[string]struct{}
	once   sync.Once
}

// NewBroker crea el broker; buffer es la capacidad del canal de cada suscriptor.
func NewBroker(buffer int, log *logger.Logger) *Broker {
	if buffer <= 0 {
		buffer = 64
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Broker{subs: make(map[*Subscription]struct{}), buffer: buffer, log: log}
}

// Subscribe registra un suscriptor. Llamar Unsubscribe al terminar.
func (b *Broker) Subscribe(topics ...string) *Subscription {
	ch := make(chan ports.Event, b.buffer)
	sub := &Subscription{C: ch, ch: ch, topics: make(map[string]struct{}, len(topics))}
	for _, t := range topics {
		if t != "" {
			sub.topics[t] = struct{}{}
		}
	}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe elimina el suscriptor y cierra su canal.
func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
	sub.once.Do(func() { close(sub.ch) })
}

// Subscribers número de suscriptores activos.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish entrega el evento a cada suscriptor interesado.
func (b *Broker) Publish(_ context.Context, topic string, payload any) {
	ev := ports.Event{Topic: topic, Payload: payload, At: time.Now()}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			b.log.Warn().Str("topic", topic).Msg("notify: suscriptor lento, evento descartado")
		}
	}
}

func (s *Subscription) wants(topic string) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[topic]
	return ok
}
