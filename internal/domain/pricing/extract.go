package pricing

import (
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/utils"
)

// CheapestMatching returns the lowest positive price among offers whose
// times match the constraint. It reports false when nothing matches; the
// unfiltered offers are never used as a fallback.
func CheapestMatching(offers []entity.FareOffer, tc entity.TimeConstraint) (int64, bool) {
	var (
		best  int64
		found bool
	)

	for _, offer := range offers {
		if !matchesTimes(offer, tc) {
			continue
		}
		if offer.Price <= 0 {
			continue
		}
		if !found || offer.Price < best {
			best = offer.Price
			found = true
		}
	}

	return best, found
}

func matchesTimes(offer entity.FareOffer, tc entity.TimeConstraint) bool {
	if tc.DepartureTime == "" {
		return true
	}
	if utils.NormalizeClock(offer.Outbound.DepartureTime) != utils.NormalizeClock(tc.DepartureTime) {
		return false
	}

	if tc.ReturnTime == "" {
		return true
	}
	// a booked return time only matches an offer carrying that return leg
	if !offer.IsRoundTrip() {
		return false
	}
	return utils.NormalizeClock(offer.Return.DepartureTime) == utils.NormalizeClock(tc.ReturnTime)
}
