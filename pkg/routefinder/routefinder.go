package routefinder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/aktarma/aktarma/pkg/itinerary"
	"github.com/aktarma/aktarma/pkg/tcdd"
)

// Gateway is the slice of the schedule gateway the search engine needs.
type Gateway interface {
	SearchTrainAvailability(ctx context.Context, fromID int, toID int, date time.Time) (tcdd.SearchResult, error)
	StationName(ctx context.Context, stationID int) string
}

// ConnectivityGraph is the station graph the engine explores.
type ConnectivityGraph interface {
	ConnectionsOf(ctx context.Context, stationID int) ([]int, error)
	IsDirectlyConnected(ctx context.Context, fromID int, toID int) (bool, error)
	TransferCandidates(ctx context.Context, fromID int, toID int) ([]int, error)
	HasNode(ctx context.Context, stationID int) (bool, error)
	StationName(ctx context.Context, stationID int) string
}

// SearchMode controls how much work the top-level search does eagerly.
type SearchMode string

const (
	// ModeDirectOnly returns direct trains only; same-train and connected
	// search run on demand. This bounds upstream call volume.
	ModeDirectOnly SearchMode = "direct-only"
	// ModeFull eagerly merges same-train and connected results into the
	// top-level search.
	ModeFull SearchMode = "full"
)

type Options struct {
	MinTransferMinutes int
	MaxTransferMinutes int

	// FixedTransferMinutes is the overhead added to a connected route's
	// total duration for each change of train.
	FixedTransferMinutes int

	// MaxCandidateHubs caps how many intermediate stations a single search
	// level explores.
	MaxCandidateHubs int

	// MaxConcurrentQueries caps concurrent upstream calls during fan-out.
	MaxConcurrentQueries int

	Mode SearchMode
}

func DefaultOptions() Options {
	return Options{
		MinTransferMinutes:   45,
		MaxTransferMinutes:   8 * 60,
		FixedTransferMinutes: 45,
		MaxCandidateHubs:     8,
		MaxConcurrentQueries: 4,
		Mode:                 ModeDirectOnly,
	}
}

// Finder is the route search engine. It owns the lifecycle of the
// ConnectedRoute values it produces; callers may freely copy or discard
// them.
type Finder struct {
	gateway Gateway
	graph   ConnectivityGraph
	policy  *GeographyPolicy
	opts    Options

	// Per-pair-per-date availability memo shared by all legs of one
	// finder. Entries are immutable once written, so concurrent branches
	// can read freely; duplicate fetches are wasted, not corrupting.
	memoMutex sync.Mutex
	memo      map[string]tcdd.SearchResult
}

func NewFinder(gateway Gateway, graph ConnectivityGraph, policy *GeographyPolicy, opts Options) *Finder {
	if policy == nil {
		policy = DefaultGeographyPolicy()
	}

	return &Finder{
		gateway: gateway,
		graph:   graph,
		policy:  policy,
		opts:    opts,
		memo:    map[string]tcdd.SearchResult{},
	}
}

// availability queries the gateway with a per-pair-per-date memo so a
// fan-out search never issues the same upstream call twice.
func (f *Finder) availability(ctx context.Context, fromID int, toID int, date time.Time) (tcdd.SearchResult, error) {
	key := fmt.Sprintf("%d:%d:%s", fromID, toID, date.Format("2006-01-02"))

	f.memoMutex.Lock()
	cached, exists := f.memo[key]
	f.memoMutex.Unlock()

	if exists {
		return cached, nil
	}

	result, err := f.gateway.SearchTrainAvailability(ctx, fromID, toID, date)
	if err != nil {
		return result, err
	}

	f.memoMutex.Lock()
	if _, exists := f.memo[key]; !exists {
		f.memo[key] = result
	}
	f.memoMutex.Unlock()

	return result, nil
}

// FindRoutes is the primary search entry point: direct trains always, plus
// same-train reseats and bounded connected routes when the finder runs in
// full mode and maxConnections allows.
func (f *Finder) FindRoutes(ctx context.Context, fromID int, toID int, date time.Time, maxConnections int) ([]itinerary.ConnectedRoute, error) {
	var routes []itinerary.ConnectedRoute

	// Direct search. A total failure here propagates so a higher layer
	// can fall back to a different data source.
	directResult, err := f.availability(ctx, fromID, toID, date)
	if err != nil {
		return nil, err
	}
	if !directResult.Success {
		return nil, fmt.Errorf("direct availability search failed: %s", directResult.Message)
	}

	// Every direct train becomes its own zero-connection route so callers
	// see each departure as a separate option.
	for _, offer := range directResult.Offers {
		routes = append(routes, f.directRoute(ctx, fromID, toID, offer))
	}

	if f.opts.Mode == ModeFull {
		sameTrainRoutes, err := f.FindSameTrainConnections(ctx, fromID, toID, date, nil)
		if err != nil {
			log.Error().Err(err).Msg("Same-train search failed")
		} else {
			sameTrainRoutes = f.suppressCoveredSameTrainRoutes(routes, sameTrainRoutes)
			routes = append(routes, sameTrainRoutes...)
		}

		if maxConnections > 0 {
			connectedRoutes := f.connectedSearch(ctx, fromID, toID, date, maxConnections, map[int]bool{})
			routes = append(routes, connectedRoutes...)
		}
	}

	routes = deduplicateRoutes(routes)
	rankRoutes(routes)

	return routes, nil
}

func (f *Finder) directRoute(ctx context.Context, fromID int, toID int, offer itinerary.TrainOffer) itinerary.ConnectedRoute {
	return itinerary.ConnectedRoute{
		Segments: []itinerary.RouteSegment{
			{
				FromStationID:   fromID,
				FromStationName: f.stationName(ctx, fromID),
				ToStationID:     toID,
				ToStationName:   f.stationName(ctx, toID),
				Trains:          []itinerary.TrainOffer{offer},
			},
		},
		TotalDistance:        offer.Distance,
		TotalDurationMinutes: offer.DurationMinutes,
		TotalPrice:           offer.Price,
		Currency:             offer.Currency,
		ConnectionCount:      0,
		BookableSeats:        offer.EconomySeats(),
	}
}

// suppressCoveredSameTrainRoutes drops same-train reseats whose departure
// slot already has a direct train with bookable economy seats - nobody
// needs a two-ticket workaround for a train they can book end to end.
func (f *Finder) suppressCoveredSameTrainRoutes(directRoutes []itinerary.ConnectedRoute, sameTrainRoutes []itinerary.ConnectedRoute) []itinerary.ConnectedRoute {
	if len(directRoutes) == 0 {
		return sameTrainRoutes
	}

	coveredSlots := map[string]bool{}
	for _, route := range directRoutes {
		offer := route.FirstOffer()
		if offer != nil && route.ConnectionCount == 0 && offer.EconomySeats() > 0 {
			coveredSlots[offer.DepartureSlot()] = true
		}
	}

	var kept []itinerary.ConnectedRoute
	for _, route := range sameTrainRoutes {
		offer := route.FirstOffer()
		if offer != nil && coveredSlots[offer.DepartureSlot()] {
			continue
		}

		kept = append(kept, route)
	}

	return kept
}

// ConnectionInfo reports whether two stations are directly connected and
// which stations could serve as transfer points between them.
type ConnectionInfo struct {
	HasDirectConnection      bool  `groups:"basic"`
	PossibleTransferStations []int `groups:"basic"`
}

func (f *Finder) ConnectionInfo(ctx context.Context, fromID int, toID int) (ConnectionInfo, error) {
	hasDirect, err := f.graph.IsDirectlyConnected(ctx, fromID, toID)
	if err != nil {
		return ConnectionInfo{}, err
	}

	candidates, err := f.graph.TransferCandidates(ctx, fromID, toID)
	if err != nil {
		return ConnectionInfo{}, err
	}

	return ConnectionInfo{
		HasDirectConnection:      hasDirect,
		PossibleTransferStations: candidates,
	}, nil
}

func (f *Finder) stationName(ctx context.Context, stationID int) string {
	if name := f.graph.StationName(ctx, stationID); name != "" {
		return name
	}

	return f.gateway.StationName(ctx, stationID)
}

// rankRoutes orders results: direct first, then fewest connections, then
// shortest total duration, then earliest departure.
func rankRoutes(routes []itinerary.ConnectedRoute) {
	slices.SortStableFunc(routes, func(a itinerary.ConnectedRoute, b itinerary.ConnectedRoute) int {
		if a.ConnectionCount != b.ConnectionCount {
			return a.ConnectionCount - b.ConnectionCount
		}

		if a.TotalDurationMinutes != b.TotalDurationMinutes {
			return a.TotalDurationMinutes - b.TotalDurationMinutes
		}

		offerA := a.FirstOffer()
		offerB := b.FirstOffer()
		if offerA != nil && offerB != nil {
			return offerA.DepartureTime.Compare(offerB.DepartureTime)
		}

		return 0
	})
}
