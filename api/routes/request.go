package routes

import (
	"github.com/gofiber/fiber/v2"
	request_controller "github.com/sunthewhat/multisign-api/api/controllers/request"
	"github.com/sunthewhat/multisign-api/api/middleware"
)

func SetupRequestRoutes(router fiber.Router, publicRouter fiber.Router, deps *Dependencies) {
	ctrl := request_controller.NewRequestController(deps.Coordinator, deps.Finalizer)

	requestGroup := router.Group("request")
	requestGroup.Use(middleware.Jwt(), middleware.LoadUser())

	requestGroup.Post("", ctrl.Initiate)
	requestGroup.Post(":id/fix-status", ctrl.FixStatus)
	requestGroup.Post(":id/artifact", ctrl.GenerateArtifact)

	// Signer-facing routes carry no session; the signature itself
	// authenticates the signer.
	publicRequestGroup := publicRouter.Group("request")

	publicRequestGroup.Put("sign/:id", ctrl.Sign)
	publicRequestGroup.Put("reject/:id", ctrl.Reject)
	publicRequestGroup.Get(":id/status", ctrl.Status)
	publicRequestGroup.Get(":id/verify", ctrl.Verify)

	publicRouter.Get("artifact/:requestId", ctrl.DownloadArtifact)
}
