package request_controller

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/type/response"
)

// GenerateArtifact is the idempotent manual finalization trigger. Unlike the
// enqueue path it runs synchronously, so an operator retrying a stuck
// request sees the outcome immediately.
func (ctrl *RequestController) GenerateArtifact(c *fiber.Ctx) error {
	requestId := c.Params("id")
	if requestId == "" {
		return response.SendFailed(c, "Request ID is required")
	}

	artifactRef, err := ctrl.finalizer.Finalize(c.Context(), requestId)

	if err != nil {
		switch {
		case errors.Is(err, coordinator.ErrNotFound):
			return response.SendNotFound(c, "Signing request not found")
		case errors.Is(err, coordinator.ErrFinalizationFailed):
			slog.Error("Manual finalization failed", "error", err, "requestId", requestId)
			return response.SendFailed(c, err.Error())
		default:
			return response.SendInternalError(c, err)
		}
	}

	return response.SendSuccess(c, "Final artifact available", fiber.Map{
		"request_id":   requestId,
		"artifact_ref": artifactRef,
	})
}
