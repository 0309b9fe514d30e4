package tcdd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aktarma/aktarma/pkg/itinerary"
)

type stationRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	CityID     int `json:"cityId"`
	DistrictID int `json:"districtId"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	ShowOnQuery   bool `json:"showOnQuery"`
	PassengerDrop bool `json:"passengerDrop"`
	Active        bool `json:"active"`
}

// FetchStations returns the full queryable station list. The list is
// fetched once per process and reused until Invalidate is called. On
// failure a small static list is returned so search can degrade instead
// of halting.
func (c *Client) FetchStations(ctx context.Context) ([]itinerary.Station, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.stationsLoaded {
		return c.stations, nil
	}

	body, err := c.cachedFeed(ctx, "tcdd/stations", func() ([]byte, error) {
		requestURL := fmt.Sprintf("%s/stations.json?environment=dev&userId=1", c.CDNEndpoint)
		req, _ := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
		c.setRequestHeaders(req)

		return c.doRequest(req)
	})

	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch TCDD stations - using fallback list")
		return fallbackStations, nil
	}

	var records []stationRecord
	if err := json.Unmarshal(body, &records); err != nil {
		log.Error().Err(err).Msg("Failed to decode TCDD stations feed - using fallback list")
		return fallbackStations, nil
	}

	var stations []itinerary.Station
	for _, record := range records {
		if record.ID == 0 || record.Name == "" {
			continue
		}
		if !record.ShowOnQuery || !record.Active || !record.PassengerDrop {
			continue
		}

		stations = append(stations, itinerary.Station{
			ID:         record.ID,
			Name:       record.Name,
			CityID:     record.CityID,
			DistrictID: record.DistrictID,
			Latitude:   record.Latitude,
			Longitude:  record.Longitude,
		})
	}

	log.Debug().Int("count", len(stations)).Msg("Loaded TCDD station list")

	c.stations = stations
	c.stationsLoaded = true

	return stations, nil
}

// StationName resolves a station id to its display name, preferring the
// adjacency feed then the station list.
func (c *Client) StationName(ctx context.Context, stationID int) string {
	pairs, _ := c.FetchStationPairs(ctx)
	for _, pair := range pairs {
		if pair.ID == stationID {
			return pair.Name
		}
	}

	stations, _ := c.FetchStations(ctx)
	for _, station := range stations {
		if station.ID == stationID {
			return station.Name
		}
	}

	return fmt.Sprintf("Station %d", stationID)
}

// FindStationByName finds the first station whose name contains the given
// name (or vice versa), case-insensitive.
func (c *Client) FindStationByName(ctx context.Context, name string) (*itinerary.Station, error) {
	stations, err := c.FetchStations(ctx)
	if err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(name))

	for _, station := range stations {
		stationName := strings.ToLower(station.Name)
		if strings.Contains(stationName, normalized) || strings.Contains(normalized, stationName) {
			return &station, nil
		}
	}

	return nil, fmt.Errorf("no station matching %q", name)
}

// FindStationsByQuery returns up to 10 stations whose names contain the
// query, for autocomplete style lookups.
func (c *Client) FindStationsByQuery(ctx context.Context, query string) ([]itinerary.Station, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	stations, err := c.FetchStations(ctx)
	if err != nil {
		return nil, err
	}

	var matches []itinerary.Station
	for _, station := range stations {
		if strings.Contains(strings.ToLower(station.Name), query) {
			matches = append(matches, station)

			if len(matches) >= 10 {
				break
			}
		}
	}

	return matches, nil
}
