package requestmodel

import (
	"time"

	"github.com/sunthewhat/multisign-api/type/shared/model"
)

// ISigningRequestRepository defines the store operations the coordinator and
// finalizer drive. Every mutating method that returns a bool is a
// conditional update: it reports whether this caller's write won, and false
// means the guarded state had already moved on.
type ISigningRequestRepository interface {
	Create(request *model.SigningRequest, slots []*model.SignerSlot) error
	GetById(requestId string) (*model.SigningRequest, error)
	MarkCompleted(requestId string, completedAt time.Time) (bool, error)
	MarkRejected(requestId string) (bool, error)
	SetFinalArtifact(requestId string, artifactRef string) (bool, error)
	SetFinalizationError(requestId string, message string) error
	ListRepairCandidates(cutoff time.Time) ([]*model.SigningRequest, error)
}

// Ensure SigningRequestRepository implements ISigningRequestRepository
var _ ISigningRequestRepository = (*SigningRequestRepository)(nil)
