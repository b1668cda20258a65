package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/core/ports"
	"github.com/samirrijal/expedition-planner/internal/pkg/metrics"
)

const wsPingInterval = 30 * time.Second

// wsMessage is sent by the client to follow or stop following an itinerary.
type wsMessage struct {
	Action      string `json:"action"` // "subscribe" | "unsubscribe"
	ItineraryID string `json:"itinerary_id"`
}

// WebSocketHandler relays itinerary events to connected clients.
// Clients send {"action":"subscribe","itinerary_id":"..."} and receive every
// event of that itinerary as JSON until they unsubscribe or disconnect.
func WebSocketHandler(events ports.EventSubscriber) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.Default().With("remote_addr", c.RemoteAddr().String())
		log.Debug("ws client connected")

		var mu sync.Mutex
		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		if events == nil {
			_ = writeJSON(map[string]string{"error": "live updates are not enabled"})
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		subs := make(map[string]func() error) // itinerary id -> unsubscribe

		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			if m.ItineraryID == "" {
				_ = writeJSON(map[string]string{"error": "itinerary_id is required"})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[m.ItineraryID]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "itinerary_id": m.ItineraryID})
					continue
				}
				unsub, err := events.SubscribeItinerary(ctx, m.ItineraryID, func(_ context.Context, ev *domain.ItineraryEvent) error {
					return writeJSON(ev)
				})
				if err != nil {
					log.Warn("ws subscribe failed", "itinerary_id", m.ItineraryID, "error", err)
					_ = writeJSON(map[string]string{"error": "subscribe failed"})
					continue
				}
				subs[m.ItineraryID] = unsub
				_ = writeJSON(map[string]string{"status": "subscribed", "itinerary_id": m.ItineraryID})

			case "unsubscribe":
				unsub, exists := subs[m.ItineraryID]
				if !exists {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + m.ItineraryID})
					continue
				}
				_ = unsub()
				delete(subs, m.ItineraryID)
				_ = writeJSON(map[string]string{"status": "unsubscribed", "itinerary_id": m.ItineraryID})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		for _, unsub := range subs {
			_ = unsub()
		}
		log.Debug("ws client disconnected")
	}
}
