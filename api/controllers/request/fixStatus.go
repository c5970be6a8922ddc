package request_controller

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/api/middleware"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/type/response"
)

func (ctrl *RequestController) FixStatus(c *fiber.Ctx) error {
	requestId := c.Params("id")
	if requestId == "" {
		return response.SendFailed(c, "Request ID is required")
	}

	userId, ok := middleware.GetUserFromContext(c)
	if !ok {
		return response.SendUnauthorized(c, "User context failed")
	}

	status, message, err := ctrl.coordinator.FixStatus(requestId)

	if err != nil {
		if errors.Is(err, coordinator.ErrNotFound) {
			return response.SendNotFound(c, "Signing request not found")
		}
		return response.SendInternalError(c, err)
	}

	slog.Info("FixStatus invoked", "requestId", requestId, "user", userId, "result", message)

	return response.SendSuccess(c, message, status)
}
