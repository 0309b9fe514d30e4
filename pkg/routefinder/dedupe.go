package routefinder

import (
	"fmt"
	"strings"

	"github.com/aktarma/aktarma/pkg/itinerary"
)

// routeSignature keys a route for deduplication. Direct routes include the
// train number so distinct trains on the same pair both survive;
// same-train reseats include train number and transfer station; multi
// train connected routes include connection count, duration and price.
func routeSignature(route *itinerary.ConnectedRoute) string {
	var pairSequence []string
	for _, segment := range route.Segments {
		pairSequence = append(pairSequence, fmt.Sprintf("%d-%d", segment.FromStationID, segment.ToStationID))
	}
	stationSequence := strings.Join(pairSequence, "|")

	offer := route.FirstOffer()
	trainNumber := "unknown"
	if offer != nil && offer.TrainNumber != "" {
		trainNumber = offer.TrainNumber
	}

	switch {
	case route.ConnectionCount == 0 && len(route.Segments) == 1:
		return fmt.Sprintf("direct:%s:%s", stationSequence, trainNumber)
	case route.SameTrain:
		transferStation := "unknown"
		if len(route.TransferStations) > 0 {
			transferStation = route.TransferStations[0]
		}
		return fmt.Sprintf("same-train:%s:%s:%s", stationSequence, trainNumber, transferStation)
	default:
		return fmt.Sprintf("connected:%s:%d:%d:%.2f", stationSequence, route.ConnectionCount, route.TotalDurationMinutes, route.TotalPrice)
	}
}

func deduplicateRoutes(routes []itinerary.ConnectedRoute) []itinerary.ConnectedRoute {
	seen := map[string]bool{}
	var unique []itinerary.ConnectedRoute

	for _, route := range routes {
		signature := routeSignature(&route)
		if seen[signature] {
			continue
		}

		seen[signature] = true
		unique = append(unique, route)
	}

	return unique
}
