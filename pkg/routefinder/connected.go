package routefinder

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/slices"

	"github.com/aktarma/aktarma/pkg/itinerary"
)

// connectedSearch explores intermediate stations reachable from the
// origin, hub-priority first, and pairs feasible legs into multi-train
// routes. Each candidate is queried concurrently up to the configured
// cap. The visited set is copied per branch so concurrent branches never
// share mutable state.
func (f *Finder) connectedSearch(ctx context.Context, fromID int, toID int, date time.Time, budget int, visited map[int]bool) []itinerary.ConnectedRoute {
	if budget <= 0 || visited[fromID] || ctx.Err() != nil {
		return nil
	}

	connections, err := f.graph.ConnectionsOf(ctx, fromID)
	if err != nil || len(connections) == 0 {
		return nil
	}

	branchVisited := make(map[int]bool, len(visited)+1)
	for stationID := range visited {
		branchVisited[stationID] = true
	}
	branchVisited[fromID] = true

	candidates := f.candidateHubs(connections, fromID, toID, branchVisited)

	resultsPool := pool.NewWithResults[[]itinerary.ConnectedRoute]().WithMaxGoroutines(f.opts.MaxConcurrentQueries)

	for _, viaID := range candidates {
		resultsPool.Go(func() []itinerary.ConnectedRoute {
			routes, err := f.routesVia(ctx, fromID, viaID, toID, date, budget, branchVisited)
			if err != nil {
				// One failing hub must not abort the whole search.
				log.Error().
					Err(err).
					Int("from", fromID).
					Int("via", viaID).
					Int("to", toID).
					Msg("Connected route candidate failed")
				return nil
			}

			return routes
		})
	}

	var routes []itinerary.ConnectedRoute
	for _, candidateRoutes := range resultsPool.Wait() {
		routes = append(routes, candidateRoutes...)
	}

	return routes
}

// candidateHubs filters and orders the stations worth exploring as
// transfer points: not visited, not a known-absurd detour, hubs first,
// capped.
func (f *Finder) candidateHubs(connections []int, fromID int, toID int, visited map[int]bool) []int {
	var candidates []int
	for _, stationID := range connections {
		if stationID == toID || visited[stationID] {
			continue
		}
		if f.policy.IsIllogical(fromID, stationID, toID) {
			continue
		}

		candidates = append(candidates, stationID)
	}

	slices.SortStableFunc(candidates, func(a int, b int) int {
		aHub := 0
		bHub := 0
		if f.policy.IsHub(a) {
			aHub = 1
		}
		if f.policy.IsHub(b) {
			bHub = 1
		}

		return bHub - aHub
	})

	if len(candidates) > f.opts.MaxCandidateHubs {
		candidates = candidates[:f.opts.MaxCandidateHubs]
	}

	return candidates
}

// routesVia tries to build routes from the origin to the destination that
// change trains at the given intermediate station, recursing when the hop
// budget allows.
func (f *Finder) routesVia(ctx context.Context, fromID int, viaID int, toID int, date time.Time, budget int, visited map[int]bool) ([]itinerary.ConnectedRoute, error) {
	firstLeg, err := f.availability(ctx, fromID, viaID, date)
	if err != nil {
		return nil, err
	}
	if !firstLeg.Success || len(firstLeg.Offers) == 0 {
		return nil, nil
	}

	var routes []itinerary.ConnectedRoute

	viaConnectsDestination, err := f.graph.IsDirectlyConnected(ctx, viaID, toID)
	if err != nil {
		return nil, err
	}

	if viaConnectsDestination {
		secondLeg, err := f.availability(ctx, viaID, toID, date)
		if err != nil {
			return nil, err
		}

		if secondLeg.Success && len(secondLeg.Offers) > 0 {
			if route := f.pairLegs(ctx, fromID, viaID, toID, firstLeg.Offers, secondLeg.Offers); route != nil {
				routes = append(routes, *route)
			}
		}
	}

	// Deeper connections: prepend the first leg onto routes found from
	// the intermediate station.
	if budget > 1 {
		subRoutes := f.connectedSearch(ctx, viaID, toID, date, budget-1, visited)

		bestFirst := earliestOffer(firstLeg.Offers)

		for _, subRoute := range subRoutes {
			subOffer := subRoute.FirstOffer()
			if bestFirst == nil || subOffer == nil {
				continue
			}
			if !f.feasibleTransfer(bestFirst.ArrivalTime, subOffer.DepartureTime) {
				continue
			}

			combined := itinerary.ConnectedRoute{
				Segments: append([]itinerary.RouteSegment{
					{
						FromStationID:   fromID,
						FromStationName: f.stationName(ctx, fromID),
						ToStationID:     viaID,
						ToStationName:   f.stationName(ctx, viaID),
						Trains:          firstLeg.Offers,
					},
				}, subRoute.Segments...),
				TotalDistance:        bestFirst.Distance + subRoute.TotalDistance,
				TotalDurationMinutes: bestFirst.DurationMinutes + subRoute.TotalDurationMinutes + f.opts.FixedTransferMinutes,
				TotalPrice:           bestFirst.Price + subRoute.TotalPrice,
				Currency:             bestFirst.Currency,
				ConnectionCount:      subRoute.ConnectionCount + 1,
				TransferStations:     append([]string{f.stationName(ctx, viaID)}, subRoute.TransferStations...),
				MinTransferMinutes:   f.opts.MinTransferMinutes,
				BookableSeats:        minSeats(bestFirst.EconomySeats(), subRoute.BookableSeats),
			}

			routes = append(routes, combined)
		}
	}

	return routes, nil
}

// pairLegs combines two direct legs into a one-transfer route when the
// dwell window at the intermediate station is feasible.
func (f *Finder) pairLegs(ctx context.Context, fromID int, viaID int, toID int, firstOffers []itinerary.TrainOffer, secondOffers []itinerary.TrainOffer) *itinerary.ConnectedRoute {
	bestFirst := earliestOffer(firstOffers)
	if bestFirst == nil {
		return nil
	}

	var feasibleSecond []itinerary.TrainOffer
	for _, offer := range secondOffers {
		if f.feasibleTransfer(bestFirst.ArrivalTime, offer.DepartureTime) {
			feasibleSecond = append(feasibleSecond, offer)
		}
	}

	if len(feasibleSecond) == 0 {
		return nil
	}

	bestSecond := earliestOffer(feasibleSecond)

	return &itinerary.ConnectedRoute{
		Segments: []itinerary.RouteSegment{
			{
				FromStationID:   fromID,
				FromStationName: f.stationName(ctx, fromID),
				ToStationID:     viaID,
				ToStationName:   f.stationName(ctx, viaID),
				Trains:          firstOffers,
			},
			{
				FromStationID:   viaID,
				FromStationName: f.stationName(ctx, viaID),
				ToStationID:     toID,
				ToStationName:   f.stationName(ctx, toID),
				Trains:          feasibleSecond,
			},
		},
		TotalDistance:        bestFirst.Distance + bestSecond.Distance,
		TotalDurationMinutes: bestFirst.DurationMinutes + bestSecond.DurationMinutes + f.opts.FixedTransferMinutes,
		TotalPrice:           bestFirst.Price + bestSecond.Price,
		Currency:             bestFirst.Currency,
		ConnectionCount:      1,
		TransferStations:     []string{f.stationName(ctx, viaID)},
		MinTransferMinutes:   f.opts.MinTransferMinutes,
		BookableSeats:        minSeats(bestFirst.EconomySeats(), bestSecond.EconomySeats()),
	}
}

func earliestOffer(offers []itinerary.TrainOffer) *itinerary.TrainOffer {
	var earliest *itinerary.TrainOffer
	for i := range offers {
		if earliest == nil || offers[i].DepartureTime.Before(earliest.DepartureTime) {
			earliest = &offers[i]
		}
	}

	return earliest
}

func minSeats(a int, b int) int {
	if a < b {
		return a
	}

	return b
}
