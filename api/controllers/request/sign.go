package request_controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/common/util"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/type/payload"
	"github.com/sunthewhat/multisign-api/type/response"
)

func (ctrl *RequestController) Sign(c *fiber.Ctx) error {
	requestId := c.Params("id")
	if requestId == "" {
		return response.SendFailed(c, "Request ID is required")
	}

	body := new(payload.SignRequestPayload)

	if err := c.BodyParser(body); err != nil {
		return response.SendFailed(c, "Failed to parse body")
	}

	if err := util.ValidateStruct(body); err != nil {
		errs := util.GetValidationErrors(err)
		return response.SendFailed(c, errs[0])
	}

	err := ctrl.coordinator.Sign(requestId, body.SignerId, body.Signature)

	if err != nil {
		switch {
		case errors.Is(err, coordinator.ErrNotFound):
			return response.SendNotFound(c, err.Error())
		case errors.Is(err, coordinator.ErrInvalidSignature):
			return response.SendFailed(c, "Signature verification failed")
		case errors.Is(err, coordinator.ErrAlreadySigned):
			return response.SendConflict(c, err.Error())
		case errors.Is(err, coordinator.ErrConflict):
			// The signature itself was recorded; only the completion check
			// lost out to contention. Fix-status (or the reconciler)
			// finishes the transition.
			return response.SendConflict(c, "Signature recorded, completion check contended; call fix-status")
		default:
			return response.SendInternalError(c, err)
		}
	}

	return response.SendSuccess(c, "Signature accepted", fiber.Map{
		"accepted":   true,
		"request_id": requestId,
		"signer_id":  body.SignerId,
	})
}
