package document_controller

import (
	documentmodel "github.com/sunthewhat/multisign-api/api/model/documentModel"
)

// DocumentController handles document-related HTTP requests
type DocumentController struct {
	documentRepo documentmodel.IDocumentRepository
}

// NewDocumentController creates a new document controller with injected dependencies
func NewDocumentController(documentRepo documentmodel.IDocumentRepository) *DocumentController {
	return &DocumentController{
		documentRepo: documentRepo,
	}
}
