package usecases

import (
	"context"
	"time"

	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/core/ports"
	"github.com/samirrijal/questmap/internal/pkg/logging"
	"github.com/samirrijal/questmap/internal/pkg/metrics"
)

const (
	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"
)

// publishChange emits a change event after a committed write. Failures are logged only.
func publishChange(ctx context.Context, pub ports.EventPublisher, entity, action string, id int64, payload any) {
	if pub == nil {
		return
	}
	event := &domain.ChangeEvent{
		Entity:     entity,
		Action:     action,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	if err := pub.PublishChange(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("publish change event failed",
			"entity", entity, "action", action, "id", id, "error", err)
	}
}

// rejected counts a validation failure for entity and returns err unchanged.
func rejected(entity string, err error) error {
	metrics.ValidationRejections.WithLabelValues(entity).Inc()
	return err
}
