package tcdd

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/aktarma/aktarma/pkg/itinerary"
	"github.com/aktarma/aktarma/pkg/util"
)

// normalizeResponse flattens the upstream's nested per-train structure
// into TrainOffer records and applies the seat and price policy.
//
// Seat counts are sourced with a strict precedence: per-fare-class
// availability first (the only source reporting true remaining seats),
// then per-car availability, then per-cabin-class availability. Booking
// class capacity is total seats rather than remaining seats, so it is
// never used - when no availability source yields data the offer reports
// zero seats.
func (c *Client) normalizeResponse(response *availabilityResponse) []itinerary.TrainOffer {
	var offers []itinerary.TrainOffer

	for _, leg := range response.TrainLegs {
		for _, availability := range leg.TrainAvailabilities {
			for _, rawTrain := range availability.Trains {
				offer := itinerary.TrainOffer{
					TrainNumber: rawTrain.Number,
					TrainName:   trainDisplayName(&rawTrain),
					TrainType:   rawTrain.Type,
					Reservable:  rawTrain.Reservable,
					Currency:    "TRY",
				}

				if len(rawTrain.Segments) > 0 {
					firstSegment := rawTrain.Segments[0]
					lastSegment := rawTrain.Segments[len(rawTrain.Segments)-1]

					offer.DepartureTime = time.UnixMilli(firstSegment.DepartureTime)
					offer.ArrivalTime = time.UnixMilli(lastSegment.ArrivalTime)
					offer.NextDayArrival = calendarDayChanged(offer.DepartureTime, offer.ArrivalTime)
					offer.DurationMinutes = int(offer.ArrivalTime.Sub(offer.DepartureTime) / time.Minute)

					for _, segment := range rawTrain.Segments {
						offer.Distance += segment.Distance

						segmentDeparture := time.UnixMilli(segment.DepartureTime)
						segmentArrival := time.UnixMilli(segment.ArrivalTime)

						offer.LegSegments = append(offer.LegSegments, itinerary.LegSegment{
							DepartureStationID:   segment.Segment.DepartureStation.ID,
							DepartureStationName: segment.Segment.DepartureStation.Name,
							ArrivalStationID:     segment.Segment.ArrivalStation.ID,
							ArrivalStationName:   segment.Segment.ArrivalStation.Name,
							DepartureTime:        segmentDeparture,
							ArrivalTime:          segmentArrival,
							DurationMinutes:      segment.Duration,
							Distance:             segment.Distance,
						})
					}
				}

				offer.SeatCategories = seatCategories(&leg)
				offer.AvailableSeats = availableSeats(&leg, &availability)
				offer.Price = lowestFare(&leg, &rawTrain)

				if minPrice := rawTrain.MinPrice; minPrice != nil && minPrice.PriceCurrency != "" {
					offer.Currency = minPrice.PriceCurrency
				}

				offers = append(offers, offer)
			}
		}
	}

	// A record with no usable price and no identifying train at all is
	// noise, not data.
	util.InPlaceFilter(&offers, func(offer itinerary.TrainOffer) bool {
		return offer.Price > 0 || offer.TrainNumber != "" || offer.TrainName != ""
	})

	if !c.ShowSoldOut {
		util.InPlaceFilter(&offers, func(offer itinerary.TrainOffer) bool {
			return offer.EconomySeats() > 0
		})
	}

	slices.SortStableFunc(offers, func(a itinerary.TrainOffer, b itinerary.TrainOffer) int {
		return a.DepartureTime.Compare(b.DepartureTime)
	})

	return offers
}

func trainDisplayName(rawTrain *train) string {
	if rawTrain.Name != "" {
		return rawTrain.Name
	}

	return rawTrain.CommercialName
}

func calendarDayChanged(departure time.Time, arrival time.Time) bool {
	return arrival.Year() != departure.Year() ||
		arrival.Month() != departure.Month() ||
		arrival.Day() != departure.Day()
}

func availableSeats(leg *trainLeg, availability *trainAvailability) int {
	// (1) fare-class level availability
	seats := 0
	found := false

	for _, info := range leg.AvailableFareInfo {
		for _, fareClass := range info.CabinClasses {
			for _, bookingClass := range fareClass.BookingClassAvailabilities {
				seats += bookingClass.Availability
				found = true
			}
		}
	}

	if found {
		return seats
	}

	// (2) per-car availability
	for _, car := range availability.Cars {
		for _, carAvail := range car.Availabilities {
			seats += carAvail.Availability
			found = true
		}
	}

	if found {
		return seats
	}

	// (3) per-cabin-class availability
	for _, cabinAvail := range leg.CabinClassAvailabilities {
		seats += cabinAvail.AvailabilityCount
		found = true
	}

	if found {
		return seats
	}

	return 0
}

func lowestFare(leg *trainLeg, rawTrain *train) float64 {
	lowest := 0.0

	consider := func(amount float64) {
		if amount <= 0 {
			return
		}
		if lowest == 0 || amount < lowest {
			lowest = amount
		}
	}

	for _, info := range leg.AvailableFareInfo {
		for _, fareClass := range info.CabinClasses {
			consider(fareClass.MinPrice)

			for _, bookingClass := range fareClass.BookingClassAvailabilities {
				consider(bookingClass.Price)
			}
		}
	}

	if lowest == 0 && rawTrain.MinPrice != nil {
		consider(rawTrain.MinPrice.PriceAmount)
	}

	return lowest
}

func seatCategories(leg *trainLeg) []itinerary.SeatCategory {
	var categories []itinerary.SeatCategory

	for _, info := range leg.AvailableFareInfo {
		for _, fareClass := range info.CabinClasses {
			categories = append(categories, itinerary.SeatCategory{
				CategoryID:     fareClass.CabinClass.ID,
				Code:           fareClass.CabinClass.Code,
				Name:           fareClass.CabinClass.Name,
				AvailableSeats: fareClass.AvailabilityCount,
				Price:          fareClass.MinPrice,
				Currency:       fareClass.MinPriceCurrency,
			})
		}
	}

	if len(categories) > 0 {
		return categories
	}

	for _, cabinAvail := range leg.CabinClassAvailabilities {
		categories = append(categories, itinerary.SeatCategory{
			CategoryID:     cabinAvail.CabinClass.ID,
			Code:           cabinAvail.CabinClass.Code,
			Name:           cabinAvail.CabinClass.Name,
			AvailableSeats: cabinAvail.AvailabilityCount,
		})
	}

	return categories
}
