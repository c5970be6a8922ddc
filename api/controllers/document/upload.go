package document_controller

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sunthewhat/multisign-api/api/middleware"
	documentmodel "github.com/sunthewhat/multisign-api/api/model/documentModel"
	"github.com/sunthewhat/multisign-api/common"
	"github.com/sunthewhat/multisign-api/common/util"
	"github.com/sunthewhat/multisign-api/internal/signing"
	"github.com/sunthewhat/multisign-api/type/payload"
	"github.com/sunthewhat/multisign-api/type/response"
)

// Upload receives a document, computes its canonical hash and stores the
// bytes plus workflow metadata. The returned hash is what initiate binds
// signatures to.
func (ctrl *DocumentController) Upload(c *fiber.Ctx) error {
	userId, ok := middleware.GetUserFromContext(c)
	if !ok {
		slog.Error("Document Upload GetUserId failed")
		return response.SendError(c, "Failed to read user")
	}

	body := new(payload.UploadDocumentPayload)
	if err := c.BodyParser(body); err != nil {
		return response.SendFailed(c, "Failed to parse body")
	}
	if err := util.ValidateStruct(body); err != nil {
		errs := util.GetValidationErrors(err)
		return response.SendFailed(c, errs[0])
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		slog.Error("No document provided", "error", err)
		return response.SendFailed(c, "Document file is required")
	}

	maxSize := int64(50 * 1024 * 1024) // 50MB
	if fileHeader.Size > maxSize {
		return response.SendFailed(c, "Document too large (max 50MB)")
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("Failed to open uploaded document", "error", err)
		return response.SendInternalError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Failed to read uploaded document", "error", err)
		return response.SendInternalError(c, err)
	}

	hash := signing.HashDocument(data)

	objectName := fmt.Sprintf("%s/%s", hash, fileHeader.Filename)
	fileRef, err := util.UploadFile(c.Context(), *common.Config.BucketDocument, objectName, fileHeader)
	if err != nil {
		slog.Error("Failed to store document", "error", err, "hash", hash)
		return response.SendError(c, "Failed to store document")
	}

	doc := &documentmodel.Document{
		Hash:         hash,
		FileName:     fileHeader.Filename,
		FileRef:      fileRef,
		UploadedBy:   userId,
		WorkflowKind: body.WorkflowKind,
		UploadedAt:   time.Now(),
	}

	if err := ctrl.documentRepo.Upsert(c.Context(), doc); err != nil {
		return response.SendInternalError(c, err)
	}

	return response.SendSuccess(c, "Document uploaded", fiber.Map{
		"hash":          hash,
		"file_ref":      fileRef,
		"workflow_kind": doc.WorkflowKind,
	})
}
