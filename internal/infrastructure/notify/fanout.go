package notify

import (
	"context"

	"github.com/jhoicas/taller-api/internal/application/ports"
)

// Fanout reenvía cada evento a varios notifiers.
type Fanout []ports.Notifier

// Publish publica en todos los destinos.
func (f Fanout) Publish(ctx context.Context, topic string, payload any) {
	for _, n := range f {
		if n != nil {
			n.Publish(ctx, topic, payload)
		}
	}
}
