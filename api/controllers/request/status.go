package request_controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/type/response"
)

func (ctrl *RequestController) Status(c *fiber.Ctx) error {
	requestId := c.Params("id")
	if requestId == "" {
		return response.SendFailed(c, "Request ID is required")
	}

	status, err := ctrl.coordinator.Status(requestId)

	if err != nil {
		if errors.Is(err, coordinator.ErrNotFound) {
			return response.SendNotFound(c, "Signing request not found")
		}
		return response.SendInternalError(c, err)
	}

	return response.SendSuccess(c, "Signing request status", status)
}
