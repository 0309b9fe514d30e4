package routefinder

import "time"

const minutesPerDay = 24 * 60

// transferMinutes returns the dwell time between arriving on one leg and
// departing on the next, working on wall-clock time-of-day. A departure
// numerically earlier than the arrival wraps to the next day.
func transferMinutes(arrival time.Time, departure time.Time) int {
	arrivalMinutes := arrival.Hour()*60 + arrival.Minute()
	departureMinutes := departure.Hour()*60 + departure.Minute()

	transfer := (departureMinutes - arrivalMinutes) % minutesPerDay
	if transfer < 0 {
		transfer += minutesPerDay
	}

	return transfer
}

// feasibleTransfer reports whether the dwell window between two legs is
// long enough to be safe and short enough to be worth taking.
func (f *Finder) feasibleTransfer(arrival time.Time, departure time.Time) bool {
	transfer := transferMinutes(arrival, departure)

	return transfer >= f.opts.MinTransferMinutes && transfer <= f.opts.MaxTransferMinutes
}
