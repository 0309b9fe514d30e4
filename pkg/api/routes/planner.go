package routes

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/liip/sheriff"
	iso8601 "github.com/senseyeio/duration"

	"github.com/aktarma/aktarma/pkg/itinerary"
	"github.com/aktarma/aktarma/pkg/routefinder"
)

// Journey is the caller-facing itinerary shape produced from the engine's
// ConnectedRoute records.
type Journey struct {
	Segments []itinerary.RouteSegment `groups:"basic"`

	TotalDistance        float64 `groups:"detailed"`
	TotalDurationMinutes int     `groups:"basic"`
	TotalPrice           float64 `groups:"basic"`
	Currency             string  `groups:"basic"`

	ConnectionCount int  `groups:"basic"`
	SameTrain       bool `groups:"basic"`

	TransferStations   []string `groups:"basic" json:",omitempty"`
	MinTransferMinutes int      `groups:"basic"`
	BookableSeats      int      `groups:"basic"`

	DepartureDisplay string `groups:"basic"`
	ArrivalDisplay   string `groups:"basic"`
}

func PlannerRouter(router fiber.Router, finder *routefinder.Finder) {
	router.Get("/:origin/:destination", func(c *fiber.Ctx) error {
		return getPlanBetweenStations(c, finder)
	})
	router.Get("/:origin/:destination/alternatives", func(c *fiber.Ctx) error {
		return streamAlternatives(c, finder)
	})
}

func getPlanBetweenStations(c *fiber.Ctx, finder *routefinder.Finder) error {
	originID, err := strconv.Atoi(c.Params("origin"))
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter origin should be a station id",
		})
	}

	destinationID, err := strconv.Atoi(c.Params("destination"))
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter destination should be a station id",
		})
	}

	maxConnections, err := strconv.Atoi(c.Query("connections", "1"))
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter connections should be an integer",
		})
	}

	searchDate, err := parseSearchDate(c.Query("date"))
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter date should be YYYY-MM-DD",
		})
	}

	routes, err := finder.FindRoutes(c.Context(), originID, destinationID, searchDate, maxConnections)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	journeys := make([]Journey, 0, len(routes))
	for _, route := range routes {
		journeys = append(journeys, presentJourney(route))
	}

	groups := []string{"basic"}
	if c.QueryBool("detailed", false) {
		groups = append(groups, "detailed")
	}

	journeysReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, journeys)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "failed to reduce journeys",
		})
	}

	// Results describe one service day; anything after the following
	// midnight needs a fresh search.
	nextDayDuration, _ := iso8601.ParseISO8601("P1D")
	dayAfterDateTime := nextDayDuration.Shift(searchDate)
	dayAfterDateTime = time.Date(
		dayAfterDateTime.Year(), dayAfterDateTime.Month(), dayAfterDateTime.Day(), 0, 0, 0, 0, dayAfterDateTime.Location(),
	)

	return c.JSON(fiber.Map{
		"date":       searchDate.Format("2006-01-02"),
		"validUntil": dayAfterDateTime.Format(time.RFC3339),
		"journeys":   journeysReduced,
	})
}

// presentJourney converts one engine route into the API journey shape.
func presentJourney(route itinerary.ConnectedRoute) Journey {
	var journey Journey
	copier.CopyWithOption(&journey, &route, copier.Option{IgnoreEmpty: true, DeepCopy: true})

	if offer := route.FirstOffer(); offer != nil {
		journey.DepartureDisplay = offer.DepartureSlot()
	}

	lastSegment := route.Segments[len(route.Segments)-1]
	if len(lastSegment.Trains) > 0 {
		lastOffer := lastSegment.Trains[0]

		journey.ArrivalDisplay = lastOffer.ArrivalTime.Format("15:04")
		if lastOffer.NextDayArrival {
			journey.ArrivalDisplay += " +1"
		}
	}

	return journey
}

func parseSearchDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}

	return time.Parse("2006-01-02", value)
}
