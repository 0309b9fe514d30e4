package routefinder

import (
	"context"
	"testing"

	"github.com/aktarma/aktarma/pkg/itinerary"
	"github.com/aktarma/aktarma/pkg/tcdd"
)

// throughTrainOffer is a direct offer whose physical train calls at the
// intermediate station.
func throughTrainOffer(trainNumber string, economySeats int) itinerary.TrainOffer {
	offer := makeOffer(trainNumber, at(8, 0), 150, 600, economySeats)
	offer.LegSegments = []itinerary.LegSegment{
		{
			DepartureStationID:   10,
			DepartureStationName: "Origin",
			ArrivalStationID:     20,
			ArrivalStationName:   "Midpoint",
			DepartureTime:        at(8, 0),
			ArrivalTime:          at(9, 0),
		},
		{
			DepartureStationID:   20,
			DepartureStationName: "Midpoint",
			ArrivalStationID:     30,
			ArrivalStationName:   "Destination",
			DepartureTime:        at(9, 10),
			ArrivalTime:          at(10, 30),
		},
	}

	return offer
}

func sameTrainTestGateway() *fakeGateway {
	firstLeg := makeOffer("T1", at(8, 0), 60, 250, 5)
	secondLeg := makeOffer("T1", at(9, 10), 80, 200, 2)

	return &fakeGateway{
		results: map[string]tcdd.SearchResult{
			pairKey(10, 30): {
				Success: true,
				Offers: []itinerary.TrainOffer{
					throughTrainOffer("T1", 3),
					// No leg segments exposed, so this train cannot be
					// re-seated.
					makeOffer("T9", at(12, 0), 150, 600, 4),
				},
			},
			pairKey(10, 20): {Success: true, Offers: []itinerary.TrainOffer{firstLeg}},
			pairKey(20, 30): {Success: true, Offers: []itinerary.TrainOffer{secondLeg}},
		},
		names: map[int]string{10: "Origin", 20: "Midpoint", 30: "Destination"},
	}
}

func sameTrainTestGraph() *fakeGraph {
	return &fakeGraph{
		edges: map[int][]int{10: {20, 30}, 20: {10, 30}, 30: {10, 20}},
		names: map[int]string{10: "Origin", 20: "Midpoint", 30: "Destination"},
	}
}

func TestFindSameTrainConnections(t *testing.T) {
	finder := NewFinder(sameTrainTestGateway(), sameTrainTestGraph(), nil, DefaultOptions())

	var visitedStations []string
	routes, err := finder.FindSameTrainConnections(context.Background(), 10, 30, searchDay, func(stationName string) {
		visitedStations = append(visitedStations, stationName)
	})
	if err != nil {
		t.Fatalf("FindSameTrainConnections failed: %s", err)
	}

	if len(routes) != 1 {
		t.Fatalf("expected 1 same-train route, got %d", len(routes))
	}

	route := routes[0]

	if !route.SameTrain {
		t.Error("route not flagged as same-train")
	}
	if route.ConnectionCount != 1 {
		t.Errorf("expected connection count 1, got %d", route.ConnectionCount)
	}
	if route.MinTransferMinutes != 0 {
		t.Errorf("same-train reseat needs no dwell, got %d minutes", route.MinTransferMinutes)
	}
	if len(route.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(route.Segments))
	}
	if route.Segments[0].Trains[0].TrainNumber != "T1" || route.Segments[1].Trains[0].TrainNumber != "T1" {
		t.Error("same-train route mixes trains")
	}

	// Limited by the tighter second leg.
	if route.BookableSeats != 2 {
		t.Errorf("expected 2 bookable seats, got %d", route.BookableSeats)
	}
	if route.TotalPrice != 450 {
		t.Errorf("expected total price 450, got %f", route.TotalPrice)
	}

	// 08:00 departure to 10:30 arrival on the second leg offer.
	if route.TotalDurationMinutes != 150 {
		t.Errorf("expected 150 minute duration, got %d", route.TotalDurationMinutes)
	}

	if len(visitedStations) != 1 || visitedStations[0] != "Midpoint" {
		t.Errorf("unexpected progress stations: %v", visitedStations)
	}
}

func TestFindSameTrainConnectionsSoldOutLeg(t *testing.T) {
	gateway := sameTrainTestGateway()

	// Second leg sold out in economy: no reseat possible.
	gateway.results[pairKey(20, 30)] = tcdd.SearchResult{
		Success: true,
		Offers:  []itinerary.TrainOffer{makeOffer("T1", at(9, 10), 80, 200, 0)},
	}

	finder := NewFinder(gateway, sameTrainTestGraph(), nil, DefaultOptions())

	routes, err := finder.FindSameTrainConnections(context.Background(), 10, 30, searchDay, nil)
	if err != nil {
		t.Fatalf("FindSameTrainConnections failed: %s", err)
	}

	if len(routes) != 0 {
		t.Errorf("expected no routes with a sold-out leg, got %d", len(routes))
	}
}

func TestFindSameTrainConnectionsSkipsFailedLegLookup(t *testing.T) {
	gateway := sameTrainTestGateway()
	gateway.results[pairKey(10, 20)] = tcdd.SearchResult{Success: false, Message: "timeout"}

	finder := NewFinder(gateway, sameTrainTestGraph(), nil, DefaultOptions())

	routes, err := finder.FindSameTrainConnections(context.Background(), 10, 30, searchDay, nil)
	if err != nil {
		t.Fatalf("failed leg lookup should be skipped, not fatal: %s", err)
	}

	if len(routes) != 0 {
		t.Errorf("expected no routes when a leg lookup fails, got %d", len(routes))
	}
}

func TestFindSameTrainConnectionsCancelled(t *testing.T) {
	finder := NewFinder(sameTrainTestGateway(), sameTrainTestGraph(), nil, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := finder.FindSameTrainConnections(ctx, 10, 30, searchDay, nil)
	if err == nil {
		t.Fatal("expected cancellation to surface as an error")
	}
}

// The finder's duration arithmetic falls back to summing legs when the
// offers carry inconsistent clock times.
func TestSameTrainRouteDurationFallback(t *testing.T) {
	finder := NewFinder(sameTrainTestGateway(), sameTrainTestGraph(), nil, DefaultOptions())

	firstOffer := makeOffer("T1", at(10, 0), 60, 250, 5)
	secondOffer := makeOffer("T1", at(8, 0), 80, 200, 2)
	secondOffer.ArrivalTime = at(9, 20)

	route := finder.sameTrainRoute(context.Background(), 10, 20, 30, firstOffer, secondOffer)

	if route.TotalDurationMinutes != 140 {
		t.Errorf("expected fallback duration 140, got %d", route.TotalDurationMinutes)
	}
}
