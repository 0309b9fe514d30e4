package routefinder

import (
	"testing"

	"github.com/aktarma/aktarma/pkg/itinerary"
)

func directTestRoute(trainNumber string) itinerary.ConnectedRoute {
	return itinerary.ConnectedRoute{
		ConnectionCount: 0,
		Segments: []itinerary.RouteSegment{
			{
				FromStationID: 10,
				ToStationID:   30,
				Trains:        []itinerary.TrainOffer{{TrainNumber: trainNumber}},
			},
		},
	}
}

func TestDeduplicateRoutesKeepsDistinctTrains(t *testing.T) {
	routes := deduplicateRoutes([]itinerary.ConnectedRoute{
		directTestRoute("T1"),
		directTestRoute("T2"),
		directTestRoute("T1"),
	})

	if len(routes) != 2 {
		t.Fatalf("expected 2 unique routes, got %d", len(routes))
	}
}

func TestDeduplicateRoutesSameTrainByTransferStation(t *testing.T) {
	makeSameTrain := func(transferStation string) itinerary.ConnectedRoute {
		return itinerary.ConnectedRoute{
			SameTrain:        true,
			ConnectionCount:  1,
			TransferStations: []string{transferStation},
			Segments: []itinerary.RouteSegment{
				{FromStationID: 10, ToStationID: 20, Trains: []itinerary.TrainOffer{{TrainNumber: "T1"}}},
				{FromStationID: 20, ToStationID: 30, Trains: []itinerary.TrainOffer{{TrainNumber: "T1"}}},
			},
		}
	}

	routes := deduplicateRoutes([]itinerary.ConnectedRoute{
		makeSameTrain("Eskişehir"),
		makeSameTrain("Eskişehir"),
	})

	if len(routes) != 1 {
		t.Fatalf("expected duplicate same-train reseats to collapse, got %d", len(routes))
	}
}

func TestDeduplicateRoutesConnectedByShape(t *testing.T) {
	makeConnected := func(duration int, price float64) itinerary.ConnectedRoute {
		return itinerary.ConnectedRoute{
			ConnectionCount:      1,
			TotalDurationMinutes: duration,
			TotalPrice:           price,
			Segments: []itinerary.RouteSegment{
				{FromStationID: 10, ToStationID: 20},
				{FromStationID: 20, ToStationID: 30},
			},
		}
	}

	routes := deduplicateRoutes([]itinerary.ConnectedRoute{
		makeConnected(255, 500),
		makeConnected(255, 500),
		makeConnected(300, 500),
	})

	if len(routes) != 2 {
		t.Fatalf("expected 2 unique connected routes, got %d", len(routes))
	}
}

func TestDeduplicateRoutesDirectAndSameTrainDistinct(t *testing.T) {
	direct := directTestRoute("T1")

	sameTrain := itinerary.ConnectedRoute{
		SameTrain:        true,
		ConnectionCount:  1,
		TransferStations: []string{"Hub"},
		Segments: []itinerary.RouteSegment{
			{FromStationID: 10, ToStationID: 20, Trains: []itinerary.TrainOffer{{TrainNumber: "T1"}}},
			{FromStationID: 20, ToStationID: 30, Trains: []itinerary.TrainOffer{{TrainNumber: "T1"}}},
		},
	}

	routes := deduplicateRoutes([]itinerary.ConnectedRoute{direct, sameTrain})

	if len(routes) != 2 {
		t.Fatalf("expected direct and same-train routes to both survive, got %d", len(routes))
	}
}
