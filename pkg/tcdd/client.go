package tcdd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"

	"github.com/aktarma/aktarma/pkg/itinerary"
	"github.com/aktarma/aktarma/pkg/redis_client"
	"github.com/aktarma/aktarma/pkg/util"
)

const (
	defaultAPIEndpoint = "https://web-api-prod-ytp.tcddtasimacilik.gov.tr/tms"
	defaultCDNEndpoint = "https://cdn-api-prod-ytp.tcddtasimacilik.gov.tr/datas"
	defaultUnitID      = "3895"

	feedCacheExpiration = 90 * time.Minute
)

// ErrAuthentication is returned when the upstream rejects the bearer token.
// Callers surface this to prompt for a fresh credential.
var ErrAuthentication = errors.New("authentication failed - TCDD token expired or invalid")

// Client talks to the TCDD booking service. It owns the process-lifetime
// station and adjacency caches, so tests can construct isolated instances.
type Client struct {
	APIEndpoint string
	CDNEndpoint string
	UnitID      string
	AuthToken   string

	// ShowSoldOut keeps offers with no bookable seats in search results so
	// the full timetable stays visible.
	ShowSoldOut bool

	httpClient *http.Client
	feedCache  *cache.Cache[string]

	mutex          sync.Mutex
	stations       []itinerary.Station
	stationsLoaded bool
	pairs          []StationPair
	pairsLoaded    bool
}

func NewClient() *Client {
	env := util.GetEnvironmentVariables()

	client := &Client{
		APIEndpoint: defaultAPIEndpoint,
		CDNEndpoint: defaultCDNEndpoint,
		UnitID:      defaultUnitID,
		AuthToken:   env["AKTARMA_TCDD_TOKEN"],

		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if env["AKTARMA_TCDD_API_ENDPOINT"] != "" {
		client.APIEndpoint = env["AKTARMA_TCDD_API_ENDPOINT"]
	}

	if env["AKTARMA_TCDD_CDN_ENDPOINT"] != "" {
		client.CDNEndpoint = env["AKTARMA_TCDD_CDN_ENDPOINT"]
	}

	if env["AKTARMA_TCDD_UNIT_ID"] != "" {
		client.UnitID = env["AKTARMA_TCDD_UNIT_ID"]
	}

	if redis_client.Client != nil {
		redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(feedCacheExpiration))
		client.feedCache = cache.New[string](redisStore)
	}

	return client
}

func (c *Client) setRequestHeaders(req *http.Request) {
	req.Header["Accept"] = []string{"application/json, text/plain, */*"}
	req.Header["Accept-Language"] = []string{"tr"}
	req.Header["Authorization"] = []string{c.AuthToken}
	req.Header["unit-id"] = []string{c.UnitID}
	req.Header["user-agent"] = []string{"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/138.0.0.0 Safari/537.36"}
}

// doRequest performs the request with exponential backoff on transient
// failures. Auth failures are never retried.
func (c *Client) doRequest(req *http.Request) ([]byte, error) {
	var responseBody []byte

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 45 * time.Second

	operation := func() error {
		// Rewind the body so a retried POST resends the full payload.
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			req.Body = body
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return backoff.Permanent(ErrAuthentication)
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("upstream returned HTTP %d", resp.StatusCode)
		}

		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("upstream returned HTTP %d", resp.StatusCode))
		}

		responseBody, err = io.ReadAll(resp.Body)
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(retryBackoff, req.Context()))
	if err != nil {
		return nil, err
	}

	return responseBody, nil
}

func (c *Client) cachedFeed(ctx context.Context, key string, fetch func() ([]byte, error)) ([]byte, error) {
	if c.feedCache != nil {
		cachedValue, err := c.feedCache.Get(ctx, key)
		if err == nil && cachedValue != "" {
			return []byte(cachedValue), nil
		}
	}

	body, err := fetch()
	if err != nil {
		return nil, err
	}

	if c.feedCache != nil {
		c.feedCache.Set(ctx, key, string(body))
	}

	return body, nil
}

// Invalidate drops the in-process station and adjacency caches so the next
// call refetches the feeds.
func (c *Client) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stations = nil
	c.stationsLoaded = false
	c.pairs = nil
	c.pairsLoaded = false
}
