package tcdd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aktarma/aktarma/pkg/itinerary"
	"github.com/aktarma/aktarma/pkg/util"
)

const availabilityDateFormat = "02-01-2006 15:04:05"

// adultPassengerTypeID is the fixed passenger profile every availability
// query is issued with.
const adultPassengerTypeID = 0

type searchRequest struct {
	SearchRoutes        []searchRoute        `json:"searchRoutes"`
	PassengerTypeCounts []passengerTypeCount `json:"passengerTypeCounts"`
	SearchReservation   bool                 `json:"searchReservation"`
	SearchType          string               `json:"searchType"`
}

type searchRoute struct {
	DepartureStationID   int    `json:"departureStationId"`
	DepartureStationName string `json:"departureStationName"`
	ArrivalStationID     int    `json:"arrivalStationId"`
	ArrivalStationName   string `json:"arrivalStationName"`
	DepartureDate        string `json:"departureDate"`
}

type passengerTypeCount struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

type availabilityResponse struct {
	TrainLegs []trainLeg `json:"trainLegs"`
}

type trainLeg struct {
	TrainAvailabilities      []trainAvailability      `json:"trainAvailabilities"`
	AvailableFareInfo        []fareInfo               `json:"availableFareInfo"`
	CabinClassAvailabilities []cabinClassAvailability `json:"cabinClassAvailabilities"`
}

type trainAvailability struct {
	Trains []train    `json:"trains"`
	Cars   []trainCar `json:"cars"`
}

type train struct {
	ID             int    `json:"id"`
	Number         string `json:"number"`
	Name           string `json:"name"`
	CommercialName string `json:"commercialName"`
	Type           string `json:"type"`

	Reservable bool `json:"reservable"`

	MinPrice *price `json:"minPrice"`

	BookingClassCapacities []bookingClassCapacity `json:"bookingClassCapacities"`
	Segments               []trainSegment         `json:"segments"`
}

type price struct {
	PriceAmount   float64 `json:"priceAmount"`
	PriceCurrency string  `json:"priceCurrency"`
}

type bookingClassCapacity struct {
	BookingClassID int `json:"bookingClassId"`
	Capacity       int `json:"capacity"`
}

type trainSegment struct {
	DepartureTime int64   `json:"departureTime"` // unix milliseconds
	ArrivalTime   int64   `json:"arrivalTime"`
	Duration      int     `json:"duration"`
	Distance      float64 `json:"distance"`

	Segment segmentInfo `json:"segment"`
}

type segmentInfo struct {
	DepartureStation segmentStation `json:"departureStation"`
	ArrivalStation   segmentStation `json:"arrivalStation"`
}

type segmentStation struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type trainCar struct {
	Availabilities []carAvailability `json:"availabilities"`
}

type carAvailability struct {
	Availability int `json:"availability"`
}

type fareInfo struct {
	CabinClasses []fareCabinClass `json:"cabinClasses"`
}

type fareCabinClass struct {
	CabinClass cabinClass `json:"cabinClass"`

	AvailabilityCount int     `json:"availabilityCount"`
	MinPrice          float64 `json:"minPrice"`
	MinPriceCurrency  string  `json:"minPriceCurrency"`

	BookingClassAvailabilities []bookingClassAvailability `json:"bookingClassAvailabilities"`
}

type bookingClassAvailability struct {
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Availability int     `json:"availability"`
}

type cabinClass struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type cabinClassAvailability struct {
	CabinClass        cabinClass `json:"cabinClass"`
	AvailabilityCount int        `json:"availabilityCount"`
}

// SearchResult is the gateway's normalized answer for one station pair on
// one date.
type SearchResult struct {
	Success bool
	Offers  []itinerary.TrainOffer
	Message string
}

// SearchTrainAvailability queries the upstream for every train on the
// given station pair and date, and normalizes the nested response into
// flat TrainOffer records. Transport and parsing failures are converted
// into an unsuccessful result rather than returned as errors; the error
// return is reserved for auth failures and cancelled contexts, which
// callers may want to propagate.
func (c *Client) SearchTrainAvailability(ctx context.Context, fromID int, toID int, date time.Time) (SearchResult, error) {
	stations, _ := c.FetchStations(ctx)

	fromName := stationNameFromList(stations, fromID)
	toName := stationNameFromList(stations, toID)

	if fromName == "" || toName == "" {
		return SearchResult{Success: false, Message: "unknown station id"}, nil
	}

	// The upstream treats the departure date as a service day, so the
	// query always goes out anchored to midnight.
	departureDay := util.AddTimeToDate(date, time.Time{})

	requestBody := searchRequest{
		SearchRoutes: []searchRoute{
			{
				DepartureStationID:   fromID,
				DepartureStationName: fromName,
				ArrivalStationID:     toID,
				ArrivalStationName:   toName,
				DepartureDate:        departureDay.Format(availabilityDateFormat),
			},
		},
		PassengerTypeCounts: []passengerTypeCount{
			{ID: adultPassengerTypeID, Count: 1},
		},
		SearchReservation: false,
		SearchType:        "DOMESTIC",
	}

	requestJSON, _ := json.Marshal(requestBody)

	requestURL := fmt.Sprintf("%s/train/train-availability?environment=dev&userId=1", c.APIEndpoint)
	req, _ := http.NewRequestWithContext(ctx, "POST", requestURL, bytes.NewReader(requestJSON))
	c.setRequestHeaders(req)
	req.Header["Content-Type"] = []string{"application/json"}

	responseBody, err := c.doRequest(req)
	if err != nil {
		if errors.Is(err, ErrAuthentication) || ctx.Err() != nil {
			return SearchResult{Success: false, Message: err.Error()}, err
		}

		return SearchResult{Success: false, Message: err.Error()}, nil
	}

	var response availabilityResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return SearchResult{Success: false, Message: fmt.Sprintf("failed to decode availability response: %s", err)}, nil
	}

	offers := c.normalizeResponse(&response)

	return SearchResult{Success: true, Offers: offers}, nil
}

func stationNameFromList(stations []itinerary.Station, stationID int) string {
	for _, station := range stations {
		if station.ID == stationID {
			return station.Name
		}
	}

	for _, station := range fallbackStations {
		if station.ID == stationID {
			return station.Name
		}
	}

	return ""
}
