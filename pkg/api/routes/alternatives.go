package routes

import (
	"bufio"
	"context"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/aktarma/aktarma/pkg/routefinder"
)

// streamAlternatives writes the same-train alternatives search as
// newline-delimited JSON, one event per line, flushed as they arrive.
func streamAlternatives(c *fiber.Ctx, finder *routefinder.Finder) error {
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

	departureSlot := c.Query("time")
	if departureSlot == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter time is required (HH:MM departure of the train to reseat on)",
		})
	}

	searchDate, err := parseSearchDate(c.Query("date"))
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter date should be YYYY-MM-DD",
		})
	}

	c.Set(fiber.HeaderContentType, "application/x-ndjson")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		encoder := json.NewEncoder(w)

		for event := range finder.FindSameTrainAlternatives(ctx, originID, destinationID, searchDate, departureSlot) {
			if err := encoder.Encode(event); err != nil {
				return
			}

			// A failed flush means the client has gone away.
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}
