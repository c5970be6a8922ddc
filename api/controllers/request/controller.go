package request_controller

import (
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/internal/finalizer"
)

// RequestController handles signing-request HTTP requests
type RequestController struct {
	coordinator *coordinator.Coordinator
	finalizer   *finalizer.Finalizer
}

// NewRequestController creates a new request controller with injected dependencies
func NewRequestController(co *coordinator.Coordinator, fin *finalizer.Finalizer) *RequestController {
	return &RequestController{
		coordinator: co,
		finalizer:   fin,
	}
}
