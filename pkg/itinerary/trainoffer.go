package itinerary

import (
	"strings"
	"time"
)

// TrainOffer is one bookable train on one station pair for one date.
// Offers are fetched fresh per search and never persisted.
type TrainOffer struct {
	TrainNumber string `groups:"basic"`
	TrainName   string `groups:"basic"`
	TrainType   string `groups:"detailed" json:",omitempty"`

	DepartureTime time.Time `groups:"basic"`
	ArrivalTime   time.Time `groups:"basic"`

	// NextDayArrival is set when the arrival falls on a later calendar day
	// than the departure.
	NextDayArrival bool `groups:"basic"`

	DurationMinutes int     `groups:"basic"`
	Distance        float64 `groups:"detailed"`

	Price    float64 `groups:"basic"`
	Currency string  `groups:"basic"`

	AvailableSeats int  `groups:"basic"`
	Reservable     bool `groups:"detailed"`

	SeatCategories []SeatCategory `groups:"detailed" json:",omitempty"`

	// LegSegments is the ordered list of intermediate legs the physical
	// train passes through. Empty when the upstream omits them.
	LegSegments []LegSegment `groups:"detailed" json:",omitempty"`
}

type SeatCategory struct {
	CategoryID int    `groups:"detailed"`
	Code       string `groups:"basic"`
	Name       string `groups:"basic"`

	AvailableSeats int     `groups:"basic"`
	Price          float64 `groups:"basic"`
	Currency       string  `groups:"basic"`
}

// LegSegment is one hop of the physical train's path.
type LegSegment struct {
	DepartureStationID   int    `groups:"detailed"`
	DepartureStationName string `groups:"detailed"`
	ArrivalStationID     int    `groups:"detailed"`
	ArrivalStationName   string `groups:"detailed"`

	DepartureTime time.Time `groups:"detailed"`
	ArrivalTime   time.Time `groups:"detailed"`

	DurationMinutes int     `groups:"detailed"`
	Distance        float64 `groups:"detailed"`
}

// economyKeywords matches the "standard" bookable seat class on category
// code or name, case-insensitive.
var economyKeywords = []string{"eco", "ekonomi", "economy"}

func (c SeatCategory) IsEconomy() bool {
	code := strings.ToLower(c.Code)
	name := strings.ToLower(c.Name)

	for _, keyword := range economyKeywords {
		if strings.Contains(code, keyword) || strings.Contains(name, keyword) {
			return true
		}
	}

	return false
}

// EconomySeats returns the number of available seats in economy-equivalent
// categories. When the offer exposes no economy category at all the total
// available seat count is used instead.
func (o *TrainOffer) EconomySeats() int {
	foundEconomyCategory := false
	seats := 0

	for _, category := range o.SeatCategories {
		if category.IsEconomy() {
			foundEconomyCategory = true
			seats += category.AvailableSeats
		}
	}

	if !foundEconomyCategory {
		return o.AvailableSeats
	}

	return seats
}

// DepartureSlot returns the wall-clock departure time truncated to minutes
// in HH:MM form.
func (o *TrainOffer) DepartureSlot() string {
	return o.DepartureTime.Format("15:04")
}
