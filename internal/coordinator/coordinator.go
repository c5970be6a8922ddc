package coordinator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	requestmodel "github.com/sunthewhat/multisign-api/api/model/requestModel"
	slotmodel "github.com/sunthewhat/multisign-api/api/model/slotModel"
	"github.com/sunthewhat/multisign-api/internal/signing"
	"github.com/sunthewhat/multisign-api/type/shared/model"
)

// maxTransitionRetries bounds how often a failed conditional write is
// retried with freshly re-read state before ErrConflict is surfaced.
const maxTransitionRetries = 3

// FinalizeEnqueuer hands a completed request off for asynchronous artifact
// generation. Enqueue must not block the signing caller.
type FinalizeEnqueuer interface {
	Enqueue(requestId string)
}

// Coordinator drives the signing-request state machine. All shared-state
// transitions go through conditional updates on the store; there is no
// other locking.
type Coordinator struct {
	requestRepo requestmodel.ISigningRequestRepository
	slotRepo    slotmodel.ISignerSlotRepository
	finalizer   FinalizeEnqueuer
}

func New(
	requestRepo requestmodel.ISigningRequestRepository,
	slotRepo slotmodel.ISignerSlotRepository,
	finalizer FinalizeEnqueuer,
) *Coordinator {
	return &Coordinator{
		requestRepo: requestRepo,
		slotRepo:    slotRepo,
		finalizer:   finalizer,
	}
}

// Initiate creates a pending request and one pending slot per signer, in one
// atomic write. Signer order is preserved for display, but completion is
// order-independent.
func (co *Coordinator) Initiate(initiatorId string, documentHash string, signerIds []string) (*model.SigningRequest, error) {
	if documentHash == "" {
		return nil, fmt.Errorf("%w: document hash is required", ErrInvalidRequest)
	}
	if len(signerIds) == 0 {
		return nil, fmt.Errorf("%w: at least one signer is required", ErrInvalidRequest)
	}

	seen := make(map[string]bool, len(signerIds))
	for _, signerId := range signerIds {
		if !signing.IsValidSignerID(signerId) {
			return nil, fmt.Errorf("%w: malformed signer id %q", ErrInvalidRequest, signerId)
		}
		if seen[signerId] {
			return nil, fmt.Errorf("%w: duplicate signer id %q", ErrInvalidRequest, signerId)
		}
		seen[signerId] = true
	}

	now := time.Now()
	request := &model.SigningRequest{
		ID:           uuid.New().String(),
		DocumentHash: documentHash,
		InitiatorID:  initiatorId,
		Status:       model.RequestStatusPending,
		CreatedAt:    now,
	}

	slots := make([]*model.SignerSlot, 0, len(signerIds))
	for i, signerId := range signerIds {
		slots = append(slots, &model.SignerSlot{
			ID:          uuid.New().String(),
			RequestID:   request.ID,
			SignerID:    signerId,
			SignerIndex: i,
			Status:      model.SlotStatusPending,
			CreatedAt:   now,
		})
	}

	if err := co.requestRepo.Create(request, slots); err != nil {
		return nil, err
	}

	slog.Info("Signing request initiated", "requestId", request.ID, "initiator", initiatorId, "signers", len(signerIds))

	return request, nil
}

// Sign verifies and records one signer's signature, then evaluates
// completion. A nil error means the signature was accepted; the completion
// evaluation may still report ErrConflict, in which case the signature is
// recorded and the repair path finishes the transition.
func (co *Coordinator) Sign(requestId string, signerId string, signature string) error {
	request, err := co.requestRepo.GetById(requestId)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrNotFound
	}
	if request.Status != model.RequestStatusPending {
		return fmt.Errorf("%w: request is %s", ErrAlreadySigned, request.Status)
	}

	slot, err := co.slotRepo.GetByRequestAndSigner(requestId, signerId)
	if err != nil {
		return err
	}
	if slot == nil {
		return fmt.Errorf("%w: signer %q is not part of this request", ErrNotFound, signerId)
	}
	if slot.Status != model.SlotStatusPending {
		return ErrAlreadySigned
	}

	message := signing.SigningMessage(requestId, request.DocumentHash, signerId)
	if !signing.VerifySignature(signerId, message, signature) {
		slog.Warn("Rejected invalid signature", "requestId", requestId, "signerId", signerId)
		return ErrInvalidSignature
	}

	won, err := co.slotRepo.MarkSigned(requestId, signerId, signature, time.Now())
	if err != nil {
		return err
	}
	if !won {
		// A concurrent accepted signature for the same slot got there first.
		return ErrAlreadySigned
	}

	slog.Info("Signature accepted", "requestId", requestId, "signerId", signerId)

	return co.evaluateCompletion(requestId)
}

// Reject resolves one signer's slot as rejected and, as policy, rejects the
// whole request: a required signer refusing makes the set unsatisfiable.
func (co *Coordinator) Reject(requestId string, signerId string) error {
	request, err := co.requestRepo.GetById(requestId)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrNotFound
	}
	if request.Status != model.RequestStatusPending {
		return fmt.Errorf("%w: request is %s", ErrAlreadySigned, request.Status)
	}

	slot, err := co.slotRepo.GetByRequestAndSigner(requestId, signerId)
	if err != nil {
		return err
	}
	if slot == nil {
		return fmt.Errorf("%w: signer %q is not part of this request", ErrNotFound, signerId)
	}
	if slot.Status != model.SlotStatusPending {
		return ErrAlreadySigned
	}

	won, err := co.slotRepo.MarkRejected(requestId, signerId)
	if err != nil {
		return err
	}
	if !won {
		return ErrAlreadySigned
	}

	if _, err := co.requestRepo.MarkRejected(requestId); err != nil {
		return err
	}

	slog.Info("Signing request rejected", "requestId", requestId, "signerId", signerId)

	return nil
}

// evaluateCompletion re-reads the full slot set and, when every slot is
// signed, attempts the guarded pending -> completed transition. Only the
// caller whose conditional update wins enqueues finalization; that is the
// single point preventing double finalization under racing last signers.
func (co *Coordinator) evaluateCompletion(requestId string) error {
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		slots, err := co.slotRepo.GetByRequest(requestId)
		if err != nil {
			return err
		}

		allSigned := len(slots) > 0
		for _, slot := range slots {
			if slot.Status == model.SlotStatusRejected {
				// A rejected slot makes the set unsatisfiable.
				if _, err := co.requestRepo.MarkRejected(requestId); err != nil {
					return err
				}
				return nil
			}
			if slot.Status != model.SlotStatusSigned {
				allSigned = false
			}
		}

		if !allSigned {
			return nil
		}

		won, err := co.requestRepo.MarkCompleted(requestId, time.Now())
		if err != nil {
			return err
		}
		if won {
			slog.Info("Signing request completed", "requestId", requestId, "signers", len(slots))
			co.finalizer.Enqueue(requestId)
			return nil
		}

		// Lost the guard. Re-read: if another caller moved the request to a
		// terminal state it owns finalization and we are done; if it is
		// somehow still pending, retry with fresh state.
		request, err := co.requestRepo.GetById(requestId)
		if err != nil {
			return err
		}
		if request == nil {
			return ErrNotFound
		}
		if request.Status != model.RequestStatusPending {
			return nil
		}
	}

	slog.Error("Completion transition contention exhausted retries", "requestId", requestId)
	return ErrConflict
}
