package routes

import (
	"github.com/gofiber/fiber/v2"
	documentmodel "github.com/sunthewhat/multisign-api/api/model/documentModel"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/internal/finalizer"
)

// Dependencies carries the wired core services into the route setup.
type Dependencies struct {
	Coordinator  *coordinator.Coordinator
	Finalizer    *finalizer.Finalizer
	DocumentRepo documentmodel.IDocumentRepository
}

func Init(router fiber.Router, deps *Dependencies) {
	api := router.Group("api")

	publicGroup := api.Group("public")

	SetupRequestRoutes(api, publicGroup, deps)
	SetupDocumentRoutes(api, publicGroup, deps)
}
