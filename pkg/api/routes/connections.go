package routes

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/aktarma/aktarma/pkg/routefinder"
	"github.com/aktarma/aktarma/pkg/stationgraph"
)

func ConnectionsRouter(router fiber.Router, finder *routefinder.Finder, graph *stationgraph.Graph) {
	router.Get("/:origin/:destination", func(c *fiber.Ctx) error {
		return getConnectionInfo(c, finder)
	})
	router.Get("/:station", func(c *fiber.Ctx) error {
		return getStationConnections(c, graph)
	})
}

func getConnectionInfo(c *fiber.Ctx, finder *routefinder.Finder) error {
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

	info, err := finder.ConnectionInfo(c.Context(), originID, destinationID)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(info)
}

func getStationConnections(c *fiber.Ctx, graph *stationgraph.Graph) error {
	stationID, err := strconv.Atoi(c.Params("station"))
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter station should be a station id",
		})
	}

	connections, err := graph.ConnectionsOf(c.Context(), stationID)
	if err != nil {
		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"station":     stationID,
		"connections": connections,
	})
}
