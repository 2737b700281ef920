package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/questmap/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to change feeds.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "geofences" | "venues" | "cities" | "places" | "stops" (default: geofences)
	ID      int64  `json:"id"`      // optional: only events for this entity id
}

var wsChannels = map[string]string{
	"geofences": "geofence",
	"venues":    "venue",
	"cities":    "city",
	"places":    "place",
	"stops":     "stop",
}

// wsSubject builds the NATS subject for a channel, optionally narrowed to one id.
func wsSubject(channel string, id int64) (string, error) {
	if channel == "" {
		channel = "geofences"
	}
	entity, ok := wsChannels[channel]
	if !ok {
		return "", fmt.Errorf("unknown channel: %s", channel)
	}
	if id > 0 {
		return fmt.Sprintf("%s.*.%d", entity, id), nil
	}
	return entity + ".>", nil
}

// wsSubjectCovers reports whether every message on narrow is also delivered on wide.
func wsSubjectCovers(wide, narrow string) bool {
	if wide == narrow {
		return true
	}
	prefix, ok := strings.CutSuffix(wide, ">")
	return ok && strings.HasPrefix(narrow, prefix)
}

// wsCoveredBy returns the active subject, other than subject itself, that already delivers subject.
func wsCoveredBy(active map[string]*nats.Subscription, subject string) (string, bool) {
	for s := range active {
		if s != subject && wsSubjectCovers(s, subject) {
			return s, true
		}
	}
	return "", false
}

// WebSocketHandler returns a handler that relays venue, city and geofence
// change events from NATS to connected clients.
// Clients send JSON: {"action":"subscribe","channel":"venues","id":12}
// Every client starts subscribed to all geofence changes. A subject that an
// active wildcard already delivers is not subscribed twice, and a new wildcard
// drops the narrower subscriptions it covers, so each event arrives once.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.Default().With("remote", c.RemoteAddr().String())
		log.Info("ws client connected")

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(subject string) error {
			s, err := nc.Subscribe(subject, func(msg *nats.Msg) {
				_ = writeJSON(json.RawMessage(msg.Data))
			})
			if err != nil {
				return err
			}
			subs[subject] = s
			return nil
		}

		defaultSubject, _ := wsSubject("", 0)
		if err := subscribe(defaultSubject); err != nil {
			log.Error("ws default subscribe failed", "error", err)
			return
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
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
				case <-done:
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

			subject, err := wsSubject(m.Channel, m.ID)
			if err != nil {
				_ = writeJSON(map[string]string{"error": err.Error()})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				if wide, covered := wsCoveredBy(subs, subject); covered {
					_ = writeJSON(map[string]string{"status": "already covered", "subject": subject, "by": wide})
					continue
				}
				if err := subscribe(subject); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				for narrow, s := range subs {
					if narrow != subject && wsSubjectCovers(subject, narrow) {
						_ = s.Unsubscribe()
						delete(subs, narrow)
					}
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		log.Info("ws client disconnected")
	}
}
