package coordinator

import (
	"github.com/sunthewhat/multisign-api/internal/signing"
	"github.com/sunthewhat/multisign-api/type/shared/model"
)

type SignerVerification struct {
	SignerId string `json:"signer_id"`
	Status   string `json:"status"`
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason,omitempty"`
}

type VerificationResult struct {
	RequestId string               `json:"request_id"`
	Valid     bool                 `json:"valid"`
	Signers   []SignerVerification `json:"signers"`
}

// VerifyRequest independently re-derives validity from stored signatures
// and the original document hash. It trusts nothing the coordinator wrote:
// every signed slot's signature is re-verified against the reconstructed
// canonical message, guarding against data corruption or a bug that
// accepted a signature it should not have. Read-only, safe on pending and
// rejected requests (partial results).
func (co *Coordinator) VerifyRequest(requestId string) (*VerificationResult, error) {
	request, err := co.requestRepo.GetById(requestId)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrNotFound
	}

	slots, err := co.slotRepo.GetByRequest(requestId)
	if err != nil {
		return nil, err
	}

	result := &VerificationResult{
		RequestId: requestId,
		Valid:     len(slots) > 0,
		Signers:   make([]SignerVerification, 0, len(slots)),
	}

	for _, slot := range slots {
		entry := SignerVerification{
			SignerId: slot.SignerID,
			Status:   slot.Status,
		}

		if slot.Status != model.SlotStatusSigned {
			entry.Reason = "slot is not signed"
			result.Valid = false
			result.Signers = append(result.Signers, entry)
			continue
		}

		message := signing.SigningMessage(requestId, request.DocumentHash, slot.SignerID)
		if signing.VerifySignature(slot.SignerID, message, slot.SignatureValue) {
			entry.Valid = true
		} else {
			entry.Reason = "stored signature failed verification"
			result.Valid = false
		}

		result.Signers = append(result.Signers, entry)
	}

	return result, nil
}
