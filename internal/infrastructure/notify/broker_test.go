package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/infrastructure/notify"
)

func TestBroker_EntregaSoloTopicosSuscritos(t *testing.T) {
	b := notify.NewBroker(4, nil)
	orders := b.Subscribe(ports.TopicOrderCreated)
	all := b.Subscribe()
	defer b.Unsubscribe(orders)
	defer b.Unsubscribe(all)

	b.Publish(context.Background(), ports.TopicInventoryMovement, "mov")
	b.Publish(context.Background(), ports.TopicOrderCreated, "orden")

	select {
	case ev := <-orders.C:
		assert.Equal(t, ports.TopicOrderCreated, ev.Topic)
		assert.Equal(t, "orden", ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("no llegó el evento")
	}
	assert.Len(t, orders.C, 0)
	assert.Len(t, all.C, 2)
}

func TestBroker_NoBloqueaConSuscriptorLleno(t *testing.T) {
	b := notify.NewBroker(1, nil)
	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(context.Background(), "x", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish bloqueó")
	}
	assert.Len(t, sub.C, 1)
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := notify.NewBroker(1, nil)
	sub := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	b.Unsubscribe(sub)
	b.Unsubscribe(sub)

	assert.Equal(t, 0, b.Subscribers())
	_, open := <-sub.C
	assert.False(t, open)
}

type recorder struct{ topics []string }

func (r *recorder) Publish(_ context.Context, topic string, _ any) { r.topics = append(r.topics, topic) }

func TestFanout(t *testing.T) {
	a, c := &recorder{}, &recorder{}
	f := notify.Fanout{a, nil, c}

	f.Publish(context.Background(), ports.TopicOrderVoided, nil)

	assert.Equal(t, []string{ports.TopicOrderVoided}, a.topics)
	assert.Equal(t, []string{ports.TopicOrderVoided}, c.topics)
}
