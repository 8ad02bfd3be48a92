package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var _ ports.Notifier = (*RedisPublisher)(nil)

const redisPublishTimeout = 2 * time.Second

// RedisPublisher publica eventos en canales Redis Pub/Sub (prefijo + tópico).
// La publicación corre en segundo plano; los errores solo se registran.
type RedisPublisher struct {
	client *redis.Client
	prefix string
	log    *logger.Logger
}

// NewRedisPublisher construye el publicador sobre un cliente existente.
func NewRedisPublisher(client *redis.Client, prefix string, log *logger.Logger) *RedisPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisPublisher{client: client, prefix: prefix, log: log}
}

// Channel nombre del canal Redis para un tópico.
func (p *RedisPublisher) Channel(topic string) string {
	return p.prefix + topic
}

// Publish serializa el evento y lo publica sin bloquear al caller.
func (p *RedisPublisher) Publish(_ context.Context, topic string, payload any) {
	body, err := json.Marshal(ports.Event{Topic: topic, Payload: payload, At: time.Now()})
	if err != nil {
		p.log.Error().Err(err).Str("topic", topic).Msg("notify: serializar evento")
		return
	}
	go func() {
		// El contexto del request puede estar cancelado; la publicación usa el suyo.
		ctx, cancel := context.WithTimeout(context.Background(), redisPublishTimeout)
		defer cancel()
		if err := p.client.Publish(ctx, p.Channel(topic), body).Err(); err != nil {
			p.log.Error().Err(err).Str("topic", topic).Msg("notify: publicar en redis")
		}
	}()
}
