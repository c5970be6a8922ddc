package api

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sunthewhat/multisign-api/api/handler"
	"github.com/sunthewhat/multisign-api/api/routes"
	"github.com/sunthewhat/multisign-api/common"
)

func InitFiber(deps *routes.Dependencies) {
	cfg := fiber.Config{
		AppName:       "multisign api",
		ErrorHandler:  handler.HandleError,
		Prefork:       false,
		StrictRouting: true,
		Network:       fiber.NetworkTCP,
	}
	app := fiber.New(cfg)

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(),
	}))

	routes.Init(app, deps)

	app.Use(handler.HandleNotFound)

	slog.Info("Starting server", "port", *common.Config.Port)
	err := app.Listen(*common.Config.Port)

	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func corsOrigins() string {
	origins := make([]string, 0, len(common.Config.Cors))
	for _, origin := range common.Config.Cors {
		if origin != nil {
			origins = append(origins, *origin)
		}
	}
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}
