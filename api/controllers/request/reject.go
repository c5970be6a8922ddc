package request_controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/common/util"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/type/payload"
	"github.com/sunthewhat/multisign-api/type/response"
)

func (ctrl *RequestController) Reject(c *fiber.Ctx) error {
	requestId := c.Params("id")
	if requestId == "" {
		return response.SendFailed(c, "Request ID is required")
	}

	body := new(payload.RejectRequestPayload)

	if err := c.BodyParser(body); err != nil {
		return response.SendFailed(c, "Failed to parse body")
	}

	if err := util.ValidateStruct(body); err != nil {
		errs := util.GetValidationErrors(err)
		return response.SendFailed(c, errs[0])
	}

	err := ctrl.coordinator.Reject(requestId, body.SignerId)

	if err != nil {
		switch {
		case errors.Is(err, coordinator.ErrNotFound):
			return response.SendNotFound(c, err.Error())
		case errors.Is(err, coordinator.ErrAlreadySigned):
			return response.SendConflict(c, err.Error())
		default:
			return response.SendInternalError(c, err)
		}
	}

	return response.SendSuccess(c, "Signing request rejected", fiber.Map{
		"request_id": requestId,
		"signer_id":  body.SignerId,
	})
}
