package usecases

import (
	"context"
	"strings"

	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/core/ports"
	"github.com/samirrijal/questmap/internal/pkg/logging"
)

// StopService manages the stops inside venues.
type StopService struct {
	stops  ports.StopRepository
	venues ports.VenueRepository
	events ports.EventPublisher
}

// NewStopService creates a new StopService. events may be nil.
func NewStopService(stops ports.StopRepository, venues ports.VenueRepository, events ports.EventPublisher) *StopService {
	return &StopService{stops: stops, venues: venues, events: events}
}

// List returns every stop ordered by id.
func (s *StopService) List(ctx context.Context) ([]domain.Stop, error) {
	return s.stops.List(ctx)
}

// ListByVenue returns the stops of one venue. Unknown venues are not found.
func (s *StopService) ListByVenue(ctx context.Context, venueID int64) ([]domain.Stop, error) {
	if _, err := s.venues.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	return s.stops.ListByVenue(ctx, venueID)
}

// GetByID returns a single stop.
func (s *StopService) GetByID(ctx context.Context, id int64) (*domain.Stop, error) {
	return s.stops.GetByID(ctx, id)
}

// Create validates and stores a new stop.
func (s *StopService) Create(ctx context.Context, st *domain.Stop) error {
	st.Name = strings.TrimSpace(st.Name)
	if err := validateStop(st); err != nil {
		return rejected("stop", err)
	}
	if err := s.stops.Create(ctx, st); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("stop created", "id", st.ID, "venue", st.VenueID)

	publishChange(ctx, s.events, "stop", actionCreated, st.ID, st)
	return nil
}

// Update applies a partial update.
func (s *StopService) Update(ctx context.Context, id int64, p domain.StopPatch) (*domain.Stop, error) {
	if err := validateStopPatch(&p); err != nil {
		return nil, rejected("stop", err)
	}

	st, err := s.stops.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}

	publishChange(ctx, s.events, "stop", actionUpdated, st.ID, st)
	return st, nil
}

// Delete removes a stop.
func (s *StopService) Delete(ctx context.Context, id int64) error {
	if err := s.stops.Delete(ctx, id); err != nil {
		return err
	}

	publishChange(ctx, s.events, "stop", actionDeleted, id, nil)
	return nil
}

func validateStop(st *domain.Stop) error {
	if st.Name == "" {
		return domain.Validationf("name is required")
	}
	if err := checkLength("name", st.Name, maxStopNameLength); err != nil {
		return err
	}
	if st.VenueID <= 0 {
		return domain.Validationf("venue is required")
	}
	return st.Location().Validate()
}

func validateStopPatch(p *domain.StopPatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return domain.Validationf("name must not be empty")
		}
		if err := checkLength("name", name, maxStopNameLength); err != nil {
			return err
		}
		p.Name = &name
	}
	if p.VenueID != nil && *p.VenueID <= 0 {
		return domain.Validationf("venue must be a positive id")
	}
	if p.Latitude != nil {
		if err := (domain.GeoPoint{Lat: *p.Latitude}).Validate(); err != nil {
			return err
		}
	}
	if p.Longitude != nil {
		if err := (domain.GeoPoint{Lon: *p.Longitude}).Validate(); err != nil {
			return err
		}
	}
	return nil
}
