package slotmodel

import (
	"time"

	"github.com/sunthewhat/multisign-api/type/shared/model"
)

// MockSignerSlotRepository is a mock implementation for testing
type MockSignerSlotRepository struct {
	GetByRequestFunc          func(requestId string) ([]*model.SignerSlot, error)
	GetByRequestAndSignerFunc func(requestId string, signerId string) (*model.SignerSlot, error)
	MarkSignedFunc            func(requestId string, signerId string, signatureValue string, signedAt time.Time) (bool, error)
	MarkRejectedFunc          func(requestId string, signerId string) (bool, error)
}

// Ensure MockSignerSlotRepository implements ISignerSlotRepository
var _ ISignerSlotRepository = (*MockSignerSlotRepository)(nil)

// NewMockSignerSlotRepository creates a new mock repository
func NewMockSignerSlotRepository() *MockSignerSlotRepository {
	return &MockSignerSlotRepository{}
}

func (m *MockSignerSlotRepository) GetByRequest(requestId string) ([]*model.SignerSlot, error) {
	if m.GetByRequestFunc != nil {
		return m.GetByRequestFunc(requestId)
	}
	return nil, nil
}

func (m *MockSignerSlotRepository) GetByRequestAndSigner(requestId string, signerId string) (*model.SignerSlot, error) {
	if m.GetByRequestAndSignerFunc != nil {
		return m.GetByRequestAndSignerFunc(requestId, signerId)
	}
	return nil, nil
}

func (m *MockSignerSlotRepository) MarkSigned(requestId string, signerId string, signatureValue string, signedAt time.Time) (bool, error) {
	if m.MarkSignedFunc != nil {
		return m.MarkSignedFunc(requestId, signerId, signatureValue, signedAt)
	}
	return false, nil
}

func (m *MockSignerSlotRepository) MarkRejected(requestId string, signerId string) (bool, error) {
	if m.MarkRejectedFunc != nil {
		return m.MarkRejectedFunc(requestId, signerId)
	}
	return false, nil
}
