// Package pricing computes agent sell prices and selects monitored fares.
package pricing

import (
	"github.com/Sontome/web-b2b-thuhongtour/internal/domain/entity"
)

const roundingUnit = 100

// ComputeSellPrice applies an agent's markups to a base fare.
// The flat airline markup is only added for VJ and VNA. The result is
// rounded half up to the nearest hundred.
func ComputeSellPrice(basePrice int64, airline entity.Airline, isRoundTrip bool, profile entity.PricingProfile) int64 {
	total := basePrice + profile.GeneralMarkup

	if airline.IsPrimary() {
		total += profile.AirlineMarkups[airline]
	}

	if isRoundTrip {
		total += profile.RoundTripMarkups[airline]
	} else {
		total += profile.OneWayMarkups[airline]
	}

	return roundToHundred(total)
}

// PriceOffer attaches the agent's sell price to a raw offer
func PriceOffer(offer entity.FareOffer, profile entity.PricingProfile) entity.DisplayedOffer {
	return entity.DisplayedOffer{
		FareOffer: offer,
		SellPrice: ComputeSellPrice(offer.Price, offer.Airline, offer.IsRoundTrip(), profile),
	}
}

// roundToHundred rounds half up, negative totals included
func roundToHundred(v int64) int64 {
	shifted := v + roundingUnit/2
	q := shifted / roundingUnit
	if shifted%roundingUnit < 0 {
		q--
	}
	return q * roundingUnit
}
