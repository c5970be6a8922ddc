package requestmodel

import (
	"time"

	"github.com/sunthewhat/multisign-api/type/shared/model"
)

// MockSigningRequestRepository is a mock implementation for testing
type MockSigningRequestRepository struct {
	CreateFunc               func(request *model.SigningRequest, slots []*model.SignerSlot) error
	GetByIdFunc              func(requestId string) (*model.SigningRequest, error)
	MarkCompletedFunc        func(requestId string, completedAt time.Time) (bool, error)
	MarkRejectedFunc         func(requestId string) (bool, error)
	SetFinalArtifactFunc     func(requestId string, artifactRef string) (bool, error)
	SetFinalizationErrorFunc func(requestId string, message string) error
	ListRepairCandidatesFunc func(cutoff time.Time) ([]*model.SigningRequest, error)
}

// Ensure MockSigningRequestRepository implements ISigningRequestRepository
var _ ISigningRequestRepository = (*MockSigningRequestRepository)(nil)

// NewMockSigningRequestRepository creates a new mock repository
func NewMockSigningRequestRepository() *MockSigningRequestRepository {
	return &MockSigningRequestRepository{}
}

func (m *MockSigningRequestRepository) Create(request *model.SigningRequest, slots []*model.SignerSlot) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(request, slots)
	}
	return nil
}

func (m *MockSigningRequestRepository) GetById(requestId string) (*model.SigningRequest, error) {
	if m.GetByIdFunc != nil {
		return m.GetByIdFunc(requestId)
	}
	return nil, nil
}

func (m *MockSigningRequestRepository) MarkCompleted(requestId string, completedAt time.Time) (bool, error) {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(requestId, completedAt)
	}
	return false, nil
}

func (m *MockSigningRequestRepository) MarkRejected(requestId string) (bool, error) {
	if m.MarkRejectedFunc != nil {
		return m.MarkRejectedFunc(requestId)
	}
	return false, nil
}

func (m *MockSigningRequestRepository) SetFinalArtifact(requestId string, artifactRef string) (bool, error) {
	if m.SetFinalArtifactFunc != nil {
		return m.SetFinalArtifactFunc(requestId, artifactRef)
	}
	return false, nil
}

func (m *MockSigningRequestRepository) SetFinalizationError(requestId string, message string) error {
	if m.SetFinalizationErrorFunc != nil {
		return m.SetFinalizationErrorFunc(requestId, message)
	}
	return nil
}

func (m *MockSigningRequestRepository) ListRepairCandidates(cutoff time.Time) ([]*model.SigningRequest, error) {
	if m.ListRepairCandidatesFunc != nil {
		return m.ListRepairCandidatesFunc(cutoff)
	}
	return nil, nil
}
