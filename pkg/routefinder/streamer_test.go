package routefinder

import (
	"context"
	"testing"

	"github.com/aktarma/aktarma/pkg/tcdd"
)

func drainEvents(events <-chan Event) (stations []string, journeys int, doneCount int) {
	for event := range events {
		switch {
		case event.Done:
			doneCount++
		case event.Journey != nil:
			journeys++
		case event.Station != "":
			stations = append(stations, event.Station)
		}
	}

	return stations, journeys, doneCount
}

func TestFindSameTrainAlternatives(t *testing.T) {
	finder := NewFinder(sameTrainTestGateway(), sameTrainTestGraph(), nil, DefaultOptions())

	events := finder.FindSameTrainAlternatives(context.Background(), 10, 30, searchDay, "08:00")
	stations, journeys, doneCount := drainEvents(events)

	if len(stations) != 1 || stations[0] != "Midpoint" {
		t.Errorf("unexpected station events: %v", stations)
	}
	if journeys != 1 {
		t.Errorf("expected 1 journey event, got %d", journeys)
	}
	if doneCount != 1 {
		t.Errorf("expected exactly one done event, got %d", doneCount)
	}
}

func TestFindSameTrainAlternativesSlotFilter(t *testing.T) {
	finder := NewFinder(sameTrainTestGateway(), sameTrainTestGraph(), nil, DefaultOptions())

	// No train departs at this slot, so progress flows but no journeys.
	events := finder.FindSameTrainAlternatives(context.Background(), 10, 30, searchDay, "23:59")
	stations, journeys, doneCount := drainEvents(events)

	if len(stations) == 0 {
		t.Error("expected progress events even without matching journeys")
	}
	if journeys != 0 {
		t.Errorf("expected no journey events for an unmatched slot, got %d", journeys)
	}
	if doneCount != 1 {
		t.Errorf("expected exactly one done event, got %d", doneCount)
	}
}

func TestFindSameTrainAlternativesCancelled(t *testing.T) {
	finder := NewFinder(sameTrainTestGateway(), sameTrainTestGraph(), nil, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := finder.FindSameTrainAlternatives(ctx, 10, 30, searchDay, "08:00")
	_, journeys, doneCount := drainEvents(events)

	if journeys != 0 {
		t.Errorf("expected no journey events after cancellation, got %d", journeys)
	}
	if doneCount != 1 {
		t.Errorf("expected the done event even after cancellation, got %d", doneCount)
	}
}

func TestFindSameTrainAlternativesUpstreamFailure(t *testing.T) {
	gateway := sameTrainTestGateway()
	gateway.results[pairKey(10, 30)] = tcdd.SearchResult{Success: false, Message: "upstream down"}

	finder := NewFinder(gateway, sameTrainTestGraph(), nil, DefaultOptions())

	events := finder.FindSameTrainAlternatives(context.Background(), 10, 30, searchDay, "08:00")
	_, journeys, doneCount := drainEvents(events)

	if journeys != 0 {
		t.Errorf("expected no journeys from a failed search, got %d", journeys)
	}
	if doneCount != 1 {
		t.Errorf("stream must still terminate with done, got %d", doneCount)
	}
}
