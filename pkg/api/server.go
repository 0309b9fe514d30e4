package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aktarma/aktarma/pkg/api/routes"
	"github.com/aktarma/aktarma/pkg/routefinder"
	"github.com/aktarma/aktarma/pkg/stationgraph"
	"github.com/aktarma/aktarma/pkg/tcdd"
)

func SetupServer(listen string, client *tcdd.Client, graph *stationgraph.Graph, finder *routefinder.Finder) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StationsRouter(group.Group("/stations"), client)
	routes.PlannerRouter(group.Group("/planner"), finder)
	routes.ConnectionsRouter(group.Group("/connections"), finder, graph)

	return webApp.Listen(listen)
}
