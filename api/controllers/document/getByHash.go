package document_controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/type/response"
)

func (ctrl *DocumentController) GetByHash(c *fiber.Ctx) error {
	hash := c.Params("hash")
	if hash == "" {
		return response.SendFailed(c, "Document hash is required")
	}

	doc, err := ctrl.documentRepo.GetByHash(c.Context(), hash)

	if err != nil {
		return response.SendInternalError(c, err)
	}

	if doc == nil {
		return response.SendNotFound(c, "Document not found")
	}

	return response.SendSuccess(c, "Document fetched", doc)
}
