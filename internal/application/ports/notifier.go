package ports

import (
	"context"
	"time"
)

// Tópicos publicados por el motor de inventario y órdenes.
const (
	TopicInventoryMovement = "inventory.movement"
	TopicOrderCreated      = "orders.created"
	TopicOrderVoided       = "orders.voided"
)

// Event mensaje entregado a los suscriptores del Notifier.
type Event struct {
	Topic   string    `json:"topic"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Notifier define el puerto de salida para publicar eventos (fan-out, sin confirmación).
// Se invoca solo después del commit; una falla de entrega nunca revierte la operación,
// por eso Publish no devuelve error: cada adaptador registra sus propias fallas.
type Notifier interface {
	Publish(ctx context.Context, topic string, payload any)
}

// NopNotifier descarta los eventos.
type NopNotifier struct{}

// Publish no hace nada.
func (NopNotifier) Publish(context.Context, string, any) {}
