package routefinder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/aktarma/aktarma/pkg/itinerary"
)

// sameTrainVisitor receives same-train search events as they happen.
type sameTrainVisitor struct {
	onStation func(stationName string)
	onRoute   func(route itinerary.ConnectedRoute)
}

// FindSameTrainConnections finds single physical trains whose route passes
// through an intermediate station where separate tickets can be bought for
// each half of the journey - useful when the end-to-end fare class is sold
// out but the train still has segment-level capacity. The progress
// callback, when set, is invoked with each intermediate station name as it
// is examined.
func (f *Finder) FindSameTrainConnections(ctx context.Context, fromID int, toID int, date time.Time, progress func(stationName string)) ([]itinerary.ConnectedRoute, error) {
	var routes []itinerary.ConnectedRoute

	err := f.sameTrainSearch(ctx, fromID, toID, date, sameTrainVisitor{
		onStation: progress,
		onRoute: func(route itinerary.ConnectedRoute) {
			routes = append(routes, route)
		},
	})

	return routes, err
}

func (f *Finder) sameTrainSearch(ctx context.Context, fromID int, toID int, date time.Time, visitor sameTrainVisitor) error {
	directResult, err := f.availability(ctx, fromID, toID, date)
	if err != nil {
		return err
	}
	if !directResult.Success {
		return fmt.Errorf("direct availability search failed: %s", directResult.Message)
	}

	// Only trains that expose their leg-by-leg path and still have
	// bookable economy capacity can be re-seated.
	var candidates []itinerary.TrainOffer
	for _, offer := range directResult.Offers {
		if len(offer.LegSegments) > 0 && offer.EconomySeats() > 0 {
			candidates = append(candidates, offer)
		}
	}

	// Group candidate trains by the intermediate stations they pass
	// through, so each station is queried once no matter how many trains
	// call there.
	trainsByStation := map[int]map[string]bool{}
	stationNames := map[int]string{}

	for _, offer := range candidates {
		for _, segment := range offer.LegSegments {
			for _, stop := range []struct {
				id   int
				name string
			}{
				{segment.DepartureStationID, segment.DepartureStationName},
				{segment.ArrivalStationID, segment.ArrivalStationName},
			} {
				if stop.id == fromID || stop.id == toID || stop.id == 0 {
					continue
				}

				if trainsByStation[stop.id] == nil {
					trainsByStation[stop.id] = map[string]bool{}
				}
				trainsByStation[stop.id][offer.TrainNumber] = true
				stationNames[stop.id] = stop.name
			}
		}
	}

	intermediateIDs := make([]int, 0, len(trainsByStation))
	for stationID := range trainsByStation {
		intermediateIDs = append(intermediateIDs, stationID)
	}
	slices.Sort(intermediateIDs)

	for _, intermediateID := range intermediateIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if visitor.onStation != nil {
			visitor.onStation(stationNames[intermediateID])
		}

		firstLeg, err := f.availability(ctx, fromID, intermediateID, date)
		if err != nil {
			return err
		}
		secondLeg, err := f.availability(ctx, intermediateID, toID, date)
		if err != nil {
			return err
		}

		if !firstLeg.Success || !secondLeg.Success {
			log.Debug().
				Int("intermediate", intermediateID).
				Msg("Skipping same-train candidate - leg availability lookup failed")
			continue
		}

		trainNumbers := make([]string, 0, len(trainsByStation[intermediateID]))
		for trainNumber := range trainsByStation[intermediateID] {
			trainNumbers = append(trainNumbers, trainNumber)
		}
		slices.Sort(trainNumbers)

		for _, trainNumber := range trainNumbers {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			firstOffer := offerForTrain(firstLeg.Offers, trainNumber)
			secondOffer := offerForTrain(secondLeg.Offers, trainNumber)
			if firstOffer == nil || secondOffer == nil {
				continue
			}

			route := f.sameTrainRoute(ctx, fromID, intermediateID, toID, *firstOffer, *secondOffer)
			if visitor.onRoute != nil {
				visitor.onRoute(route)
			}
		}
	}

	return nil
}

// offerForTrain finds the given train on a leg, provided it still has
// economy seats there.
func offerForTrain(offers []itinerary.TrainOffer, trainNumber string) *itinerary.TrainOffer {
	for i := range offers {
		if offers[i].TrainNumber == trainNumber && offers[i].EconomySeats() > 0 {
			return &offers[i]
		}
	}

	return nil
}

func (f *Finder) sameTrainRoute(ctx context.Context, fromID int, intermediateID int, toID int, firstOffer itinerary.TrainOffer, secondOffer itinerary.TrainOffer) itinerary.ConnectedRoute {
	totalDuration := int(secondOffer.ArrivalTime.Sub(firstOffer.DepartureTime) / time.Minute)
	if totalDuration <= 0 {
		totalDuration = firstOffer.DurationMinutes + secondOffer.DurationMinutes
	}

	return itinerary.ConnectedRoute{
		Segments: []itinerary.RouteSegment{
			{
				FromStationID:   fromID,
				FromStationName: f.stationName(ctx, fromID),
				ToStationID:     intermediateID,
				ToStationName:   f.stationName(ctx, intermediateID),
				Trains:          []itinerary.TrainOffer{firstOffer},
			},
			{
				FromStationID:   intermediateID,
				FromStationName: f.stationName(ctx, intermediateID),
				ToStationID:     toID,
				ToStationName:   f.stationName(ctx, toID),
				Trains:          []itinerary.TrainOffer{secondOffer},
			},
		},
		TotalDistance:        firstOffer.Distance + secondOffer.Distance,
		TotalDurationMinutes: totalDuration,
		TotalPrice:           firstOffer.Price + secondOffer.Price,
		Currency:             firstOffer.Currency,
		ConnectionCount:      1,
		SameTrain:            true,
		TransferStations:     []string{f.stationName(ctx, intermediateID)},
		MinTransferMinutes:   0,
		BookableSeats:        minSeats(firstOffer.EconomySeats(), secondOffer.EconomySeats()),
	}
}
