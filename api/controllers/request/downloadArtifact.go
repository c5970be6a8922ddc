package request_controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/common"
	"github.com/sunthewhat/multisign-api/common/util"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/type/response"
)

// DownloadArtifact streams the final artifact of a completed request.
func (ctrl *RequestController) DownloadArtifact(c *fiber.Ctx) error {
	requestId := c.Params("requestId")
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

	if status.FinalArtifactRef == "" {
		return response.SendNotFound(c, "Final artifact not generated yet")
	}

	objectName, err := util.ExtractObjectNameFromURL(status.FinalArtifactRef, *common.Config.BucketArtifact)
	if err != nil {
		return response.SendInternalError(c, err)
	}

	object, err := util.DownloadFile(c.Context(), *common.Config.BucketArtifact, objectName)
	if err != nil {
		return response.SendInternalError(c, err)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+requestId+`.pdf"`)

	return c.SendStream(object)
}
