package routes

import (
	"github.com/gofiber/fiber/v2"
	document_controller "github.com/sunthewhat/multisign-api/api/controllers/document"
	"github.com/sunthewhat/multisign-api/api/middleware"
)

func SetupDocumentRoutes(router fiber.Router, publicRouter fiber.Router, deps *Dependencies) {
	ctrl := document_controller.NewDocumentController(deps.DocumentRepo)

	documentGroup := router.Group("document")
	documentGroup.Use(middleware.Jwt(), middleware.LoadUser())

	documentGroup.Post("", ctrl.Upload)

	publicRouter.Get("document/:hash", ctrl.GetByHash)
}
