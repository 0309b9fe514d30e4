package stationgraph

import (
	"context"
	"errors"
	"testing"

	"github.com/aktarma/aktarma/pkg/tcdd"
)

type fakeGateway struct {
	pairs      []tcdd.StationPair
	err        error
	fetchCount int
}

func (g *fakeGateway) FetchStationPairs(ctx context.Context) ([]tcdd.StationPair, error) {
	g.fetchCount++
	return g.pairs, g.err
}

func testPairs() []tcdd.StationPair {
	return []tcdd.StationPair{
		// 98 lists 87 but 87 does not list 98 back; 20 appears only as a
		// target.
		{ID: 98, Name: "Ankara Gar", Domestic: true, Pairs: []int{87, 1135}},
		{ID: 87, Name: "Eskişehir", Domestic: true, Pairs: []int{1135, 20}},
		{ID: 1135, Name: "İzmit", Domestic: true, Pairs: []int{20}},
	}
}

func TestGraphSymmetrization(t *testing.T) {
	graph := NewGraph(&fakeGateway{pairs: testPairs()})
	ctx := context.Background()

	// 87 never listed 98 in the feed; the reverse edge must exist anyway.
	connected, err := graph.IsDirectlyConnected(ctx, 87, 98)
	if err != nil {
		t.Fatalf("IsDirectlyConnected failed: %s", err)
	}
	if !connected {
		t.Error("expected reverse edge 87 -> 98")
	}

	// 20 never appeared as a feed record at all, only as a target.
	hasNode, err := graph.HasNode(ctx, 20)
	if err != nil {
		t.Fatalf("HasNode failed: %s", err)
	}
	if !hasNode {
		t.Error("expected node 20 created from reverse edges")
	}

	connections, err := graph.ConnectionsOf(ctx, 20)
	if err != nil {
		t.Fatalf("ConnectionsOf failed: %s", err)
	}
	if len(connections) != 2 || connections[0] != 87 || connections[1] != 1135 {
		t.Errorf("unexpected connections for 20: %v", connections)
	}
}

func TestGraphConnectionsSorted(t *testing.T) {
	graph := NewGraph(&fakeGateway{pairs: testPairs()})

	connections, err := graph.ConnectionsOf(context.Background(), 98)
	if err != nil {
		t.Fatalf("ConnectionsOf failed: %s", err)
	}

	if len(connections) != 2 || connections[0] != 87 || connections[1] != 1135 {
		t.Errorf("expected sorted connections [87 1135], got %v", connections)
	}
}

func TestGraphTransferCandidates(t *testing.T) {
	graph := NewGraph(&fakeGateway{pairs: testPairs()})

	// 98 and 20 share 87 and 1135 as mutual neighbours.
	candidates, err := graph.TransferCandidates(context.Background(), 98, 20)
	if err != nil {
		t.Fatalf("TransferCandidates failed: %s", err)
	}

	if len(candidates) != 2 || candidates[0] != 87 || candidates[1] != 1135 {
		t.Errorf("expected transfer candidates [87 1135], got %v", candidates)
	}

	candidates, err = graph.TransferCandidates(context.Background(), 98, 424242)
	if err != nil {
		t.Fatalf("TransferCandidates failed: %s", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates toward unknown station, got %v", candidates)
	}
}

func TestGraphUnknownStation(t *testing.T) {
	graph := NewGraph(&fakeGateway{pairs: testPairs()})
	ctx := context.Background()

	connections, err := graph.ConnectionsOf(ctx, 424242)
	if err != nil {
		t.Fatalf("ConnectionsOf failed: %s", err)
	}
	if connections != nil {
		t.Errorf("expected nil connections for unknown station, got %v", connections)
	}

	if name := graph.StationName(ctx, 424242); name != "" {
		t.Errorf("expected empty name for unknown station, got %q", name)
	}
}

func TestGraphBuildsOnce(t *testing.T) {
	gateway := &fakeGateway{pairs: testPairs()}
	graph := NewGraph(gateway)
	ctx := context.Background()

	graph.ConnectionsOf(ctx, 98)
	graph.ConnectionsOf(ctx, 87)
	graph.IsDirectlyConnected(ctx, 98, 87)

	if gateway.fetchCount != 1 {
		t.Errorf("expected a single feed fetch, got %d", gateway.fetchCount)
	}

	graph.Reset()
	graph.ConnectionsOf(ctx, 98)

	if gateway.fetchCount != 2 {
		t.Errorf("expected refetch after reset, got %d fetches", gateway.fetchCount)
	}
}

func TestGraphPropagatesFeedError(t *testing.T) {
	feedErr := errors.New("feed unavailable")
	graph := NewGraph(&fakeGateway{err: feedErr})

	if _, err := graph.ConnectionsOf(context.Background(), 98); !errors.Is(err, feedErr) {
		t.Errorf("expected feed error to propagate, got %v", err)
	}
}
