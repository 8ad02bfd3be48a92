package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/infrastructure/notify"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// EventsHandler expone los eventos del Notifier como Server-Sent Events.
type EventsHandler struct {
	broker    *notify.Broker
	heartbeat time.Duration
	done      context.Context // se cancela al apagar el servidor
	log       *logger.Logger
}

// NewEventsHandler construye el handler. done cierra los streams abiertos al apagar.
func NewEventsHandler(done context.Context, broker *notify.Broker, heartbeat time.Duration, log *logger.Logger) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &EventsHandler{broker: broker, heartbeat: heartbeat, done: done, log: log}
}

// Stream godoc
// @Summary      Stream de eventos (SSE)
// @Tags         events
// @Security     Bearer
// @Produce      text/event-stream
// @Param        topics  query  string  false  "Tópicos separados por coma (vacío = todos)"
// @Param        token   query  string  false  "JWT para clientes EventSource"
// @Router       /api/events/stream [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	topics := parseTopics(c.Query("topics"))
	user := actingUser(c)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sub := h.broker.Subscribe(topics...)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer h.broker.Unsubscribe(sub)
		h.log.Debug().Str("user", user).Strs("topics", topics).Msg("sse: cliente conectado")

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()

		if err := writeEvent(w, "ready", map[string]any{"topics": topics}); err != nil {
			return
		}
		for {
			var err error
			select {
			case <-h.done.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				err = writeEvent(w, ev.Topic, ev)
			case <-ticker.C:
				_, err = w.WriteString(": hb\n\n")
				if err == nil {
					err = w.Flush()
				}
			}
			if err != nil {
				h.log.Debug().Err(err).Str("user", user).Msg("sse: cliente desconectado")
				return
			}
		}
	})
	return nil
}

// writeEvent escribe un evento SSE con datos JSON y hace flush.
func writeEvent(w *bufio.Writer, event string, data any) error {
	if err := encodeEvent(w, event, data); err != nil {
		return err
	}
	return w.Flush()
}

func encodeEvent(w io.Writer, event string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, body)
	return err
}

func parseTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

