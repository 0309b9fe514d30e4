package routefinder

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aktarma/aktarma/pkg/itinerary"
)

// Event is one item of the incremental alternatives stream: a progress
// marker naming the station being examined, a found journey, or the
// terminal done marker.
type Event struct {
	Station string                    `json:"station,omitempty"`
	Journey *itinerary.ConnectedRoute `json:"journey,omitempty"`
	Done    bool                      `json:"done,omitempty"`
}

const streamBufferSize = 32

// FindSameTrainAlternatives exposes the same-train search as an
// incrementally consumable event stream for one specific departure slot:
// only alternatives whose first leg departs at targetSlot (HH:MM,
// seconds and next-day flags ignored) are surfaced. The stream always
// ends with exactly one Done event, including on cancellation and error.
// Cancel via the context; once cancelled no further journey events are
// produced.
func (f *Finder) FindSameTrainAlternatives(ctx context.Context, fromID int, toID int, date time.Time, targetSlot string) <-chan Event {
	events := make(chan Event, streamBufferSize)

	// send delivers an event unless the consumer is gone or the search
	// has been cancelled.
	send := func(event Event) bool {
		select {
		case events <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(events)

		// The terminal marker must go out even when the consumer has
		// stopped draining; the buffer normally has room, the timer is
		// the escape hatch.
		defer func() {
			select {
			case events <- Event{Done: true}:
			case <-time.After(time.Second):
			}
		}()

		err := f.sameTrainSearch(ctx, fromID, toID, date, sameTrainVisitor{
			onStation: func(stationName string) {
				send(Event{Station: stationName})
			},
			onRoute: func(route itinerary.ConnectedRoute) {
				if ctx.Err() != nil {
					return
				}

				offer := route.FirstOffer()
				if offer == nil || offer.DepartureSlot() != targetSlot {
					return
				}

				send(Event{Journey: &route})
			},
		})

		if err != nil && ctx.Err() == nil {
			log.Error().
				Err(err).
				Int("from", fromID).
				Int("to", toID).
				Msg("Same-train alternatives stream failed")
		}
	}()

	return events
}
