package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/questmap/internal/core/domain"
)

// Subject roots for change events. Full subjects are <entity>.<action>.<id>.
const (
	SubjectVenues    = "venue.>"
	SubjectGeofences = "geofence.>"
	SubjectCities    = "city.>"
	SubjectPlaces    = "place.>"
	SubjectStops     = "stop.>"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the change stream exists.
func NewPublisher(url, stream string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      stream,
		Subjects:  []string{SubjectVenues, SubjectGeofences, SubjectCities, SubjectPlaces, SubjectStops},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", stream, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// Subject returns the subject a change event is published on.
func Subject(event *domain.ChangeEvent) string {
	return fmt.Sprintf("%s.%s.%d", event.Entity, event.Action, event.ID)
}

// PublishChange publishes a committed write to JetStream.
func (p *Publisher) PublishChange(ctx context.Context, event *domain.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := p.js.Publish(Subject(event), data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", Subject(event), err)
	}
	return nil
}

// Conn exposes the underlying connection for subscribers such as the WebSocket relay.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("questmap"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
