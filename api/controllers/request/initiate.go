package request_controller

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/api/middleware"
	"github.com/sunthewhat/multisign-api/common/util"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/type/payload"
	"github.com/sunthewhat/multisign-api/type/response"
)

func (ctrl *RequestController) Initiate(c *fiber.Ctx) error {
	body := new(payload.InitiateRequestPayload)

	if err := c.BodyParser(body); err != nil {
		return response.SendFailed(c, "Failed to parse body")
	}

	if err := util.ValidateStruct(body); err != nil {
		errs := util.GetValidationErrors(err)
		return response.SendFailed(c, errs[0])
	}

	userId, status := middleware.GetUserFromContext(c)

	if !status {
		slog.Error("Request Initiate GetUserId failed")
		return response.SendUnauthorized(c, "User context failed")
	}

	request, err := ctrl.coordinator.Initiate(userId, body.DocumentHash, body.SignerIds)

	if err != nil {
		if errors.Is(err, coordinator.ErrInvalidRequest) {
			return response.SendFailed(c, err.Error())
		}
		return response.SendInternalError(c, err)
	}

	return response.SendSuccess(c, "Signing request initiated", fiber.Map{
		"request_id":    request.ID,
		"document_hash": request.DocumentHash,
		"status":        request.Status,
		"signer_count":  len(body.SignerIds),
		"created_at":    request.CreatedAt,
	})
}
