package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/aktarma/aktarma/pkg/tcdd"
)

func StationsRouter(router fiber.Router, client *tcdd.Client) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listStations(c, client)
	})
}

func listStations(c *fiber.Ctx, client *tcdd.Client) error {
	searchQuery := c.Query("search")

	if searchQuery != "" {
		stations, err := client.FindStationsByQuery(c.Context(), searchQuery)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(stations)
	}

	stations, err := client.FetchStations(c.Context())
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	stationsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, stations)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "failed to reduce stations",
		})
	}

	return c.JSON(stationsReduced)
}
