package slotmodel

import (
	"time"

	"github.com/sunthewhat/multisign-api/type/shared/model"
)

// ISignerSlotRepository defines the per-signer slot operations. MarkSigned
// and MarkRejected are conditional updates guarded on the slot still being
// pending; a false result means another write got there first.
type ISignerSlotRepository interface {
	GetByRequest(requestId string) ([]*model.SignerSlot, error)
	GetByRequestAndSigner(requestId string, signerId string) (*model.SignerSlot, error)
	MarkSigned(requestId string, signerId string, signatureValue string, signedAt time.Time) (bool, error)
	MarkRejected(requestId string, signerId string) (bool, error)
}

// Ensure SignerSlotRepository implements ISignerSlotRepository
var _ ISignerSlotRepository = (*SignerSlotRepository)(nil)
