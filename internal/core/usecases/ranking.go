package usecases

import (
	"sort"

	"github.com/samirrijal/questmap/internal/core/domain"
	"github.com/samirrijal/questmap/internal/pkg/geospatial"
)

// Result sizes for the two nearest-venue queries.
const (
	NearestLimit    = 2
	NearestTenLimit = 10
)

// RankNearest annotates each venue with its great-circle distance from origin,
// rounded to two decimals, and returns the k closest. Venues with equal rounded
// distances keep their input order.
func RankNearest(origin domain.GeoPoint, venues []domain.Venue, k int) []domain.RankedVenue {
	ranked := make([]domain.RankedVenue, 0, len(venues))
	for _, v := range venues {
		d := geospatial.HaversineKm(origin.Lat, origin.Lon, v.Latitude, v.Longitude)
		ranked = append(ranked, domain.RankedVenue{
			Venue:      v,
			DistanceKm: geospatial.Round(d, 2),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if k < 0 {
		k = 0
	}
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
