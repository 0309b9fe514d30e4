package tcdd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// StationPair is one entry of the adjacency feed: a station and the
// stations it has through-service to. The feed is directional and
// possibly incomplete as delivered.
type StationPair struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	Domestic bool `json:"domestic"`

	Pairs []int `json:"pairs"`
}

// FetchStationPairs returns the domestic adjacency feed, cached for the
// process lifetime. On failure it returns an empty slice - callers must
// treat missing adjacency data as "no connected-route search possible".
func (c *Client) FetchStationPairs(ctx context.Context) ([]StationPair, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.pairsLoaded {
		return c.pairs, nil
	}

	body, err := c.cachedFeed(ctx, "tcdd/station-pairs", func() ([]byte, error) {
		requestURL := fmt.Sprintf("%s/station-pairs-INTERNET.json?environment=dev&userId=1", c.CDNEndpoint)
		req, _ := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
		c.setRequestHeaders(req)

		return c.doRequest(req)
	})

	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch TCDD station pairs")
		return nil, nil
	}

	var records []StationPair
	if err := json.Unmarshal(body, &records); err != nil {
		log.Error().Err(err).Msg("Failed to decode TCDD station pairs feed")
		return nil, nil
	}

	var pairs []StationPair
	for _, record := range records {
		if record.ID == 0 || record.Name == "" {
			continue
		}
		if !record.Domestic || len(record.Pairs) == 0 {
			continue
		}

		pairs = append(pairs, record)
	}

	log.Debug().Int("count", len(pairs)).Msg("Loaded TCDD station pairs")

	c.pairs = pairs
	c.pairsLoaded = true

	return pairs, nil
}

// HasDirectRoute reports whether the adjacency feed lists through-service
// from one station to another.
func (c *Client) HasDirectRoute(ctx context.Context, fromID int, toID int) (bool, error) {
	pairs, err := c.FetchStationPairs(ctx)
	if err != nil {
		return false, err
	}

	for _, pair := range pairs {
		if pair.ID == fromID {
			return slices.Contains(pair.Pairs, toID), nil
		}
	}

	return false, nil
}
