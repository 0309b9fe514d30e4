package itinerary

// RouteSegment is one leg of an itinerary. During fan-out search Trains
// holds every offer available for the leg; finalized itineraries carry a
// single chosen offer.
type RouteSegment struct {
	FromStationID   int    `groups:"basic"`
	FromStationName string `groups:"basic"`
	ToStationID     int    `groups:"basic"`
	ToStationName   string `groups:"basic"`

	Trains []TrainOffer `groups:"basic"`
}

// ConnectedRoute is an itinerary between two stations. ConnectionCount is
// zero for direct routes and segments-1 for genuinely distinct-train
// itineraries. SameTrain marks a reseat itinerary: one physical train
// bought as two tickets split at a transfer station.
type ConnectedRoute struct {
	Segments []RouteSegment `groups:"basic"`

	TotalDistance        float64 `groups:"detailed"`
	TotalDurationMinutes int     `groups:"basic"`
	TotalPrice           float64 `groups:"basic"`
	Currency             string  `groups:"basic"`

	ConnectionCount int  `groups:"basic"`
	SameTrain       bool `groups:"basic"`

	TransferStations   []string `groups:"basic" json:",omitempty"`
	MinTransferMinutes int      `groups:"basic"`

	// BookableSeats is the number of economy seats actually purchasable
	// across the whole itinerary - the minimum over its legs.
	BookableSeats int `groups:"basic"`
}

// FirstOffer returns the chosen offer of the first segment, or nil when
// the route has no populated segment.
func (r *ConnectedRoute) FirstOffer() *TrainOffer {
	if len(r.Segments) == 0 || len(r.Segments[0].Trains) == 0 {
		return nil
	}

	return &r.Segments[0].Trains[0]
}
