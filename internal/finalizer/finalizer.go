package finalizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"

	requestmodel "github.com/sunthewhat/multisign-api/api/model/requestModel"
	slotmodel "github.com/sunthewhat/multisign-api/api/model/slotModel"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/internal/signing"
	"github.com/sunthewhat/multisign-api/type/shared/model"
)

// ArtifactStore persists a built artifact and returns its reference.
type ArtifactStore interface {
	UploadArtifact(ctx context.Context, objectName string, data []byte) (string, error)
}

// ArtifactBuilder assembles the final artifact bytes for a completed
// request. Building may take arbitrarily long; it holds no lock on the
// request.
type ArtifactBuilder interface {
	Build(request *model.SigningRequest, slots []*model.SignerSlot) ([]byte, error)
}

// Notifier is called after the artifact reference has been recorded.
// Failures are logged, never fatal.
type Notifier func(initiatorId string, requestId string, artifactRef string) error

// Finalizer produces the final signed artifact exactly once per completed
// signature set. Work arrives through Enqueue and is processed by worker
// goroutines, out-of-band from the signing call that triggered it.
type Finalizer struct {
	requestRepo requestmodel.ISigningRequestRepository
	slotRepo    slotmodel.ISignerSlotRepository
	store       ArtifactStore
	builder     ArtifactBuilder
	notify      Notifier
	jobs        chan string
}

func New(
	requestRepo requestmodel.ISigningRequestRepository,
	slotRepo slotmodel.ISignerSlotRepository,
	store ArtifactStore,
	builder ArtifactBuilder,
	notify Notifier,
) *Finalizer {
	return &Finalizer{
		requestRepo: requestRepo,
		slotRepo:    slotRepo,
		store:       store,
		builder:     builder,
		notify:      notify,
		jobs:        make(chan string, 64),
	}
}

// Start launches the worker goroutines consuming the finalize queue.
func (f *Finalizer) Start(workers int) {
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Panic occurred in finalizer worker", "panic", r)
				}
			}()

			for requestId := range f.jobs {
				if _, err := f.Finalize(context.Background(), requestId); err != nil {
					slog.Error("Finalization failed", "error", err, "requestId", requestId)
				}
			}
		}()
	}

	slog.Info("Finalizer workers started", "workers", workers)
}

// Enqueue hands a request over for asynchronous finalization. Never blocks:
// if the queue is full the job is dropped and the reconciler picks the
// request up on its next pass.
func (f *Finalizer) Enqueue(requestId string) {
	select {
	case f.jobs <- requestId:
	default:
		slog.Warn("Finalizer queue full, dropping job for reconciler retry", "requestId", requestId)
	}
}

// SignatureSetHash derives the idempotency key of a completed signature
// set: sha256 over the request id and the sorted (signerId, signature)
// pairs. The same completed set always produces the same key, so retried
// finalizations regenerate the same artifact reference.
func SignatureSetHash(requestId string, slots []*model.SignerSlot) string {
	pairs := make([]string, 0, len(slots))
	for _, slot := range slots {
		pairs = append(pairs, slot.SignerID+":"+slot.SignatureValue)
	}
	sort.Strings(pairs)

	h := sha256.New()
	h.Write([]byte(requestId))
	for _, pair := range pairs {
		h.Write([]byte(pair))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Finalize generates and records the final artifact for a completed
// request. Idempotent: an already-recorded artifact reference is returned
// unchanged, and a lost conditional write falls back to the winner's
// reference. On build or upload failure the request stays completed with
// the error recorded, repairable via fix-status.
func (f *Finalizer) Finalize(ctx context.Context, requestId string) (string, error) {
	request, err := f.requestRepo.GetById(requestId)
	if err != nil {
		return "", err
	}
	if request == nil {
		return "", coordinator.ErrNotFound
	}

	// Short-circuit before any expensive work.
	if request.FinalArtifactRef != "" {
		return request.FinalArtifactRef, nil
	}

	if request.Status != model.RequestStatusCompleted {
		return "", fmt.Errorf("%w: request is %s, not completed", coordinator.ErrFinalizationFailed, request.Status)
	}

	slots, err := f.slotRepo.GetByRequest(requestId)
	if err != nil {
		return "", err
	}

	// Re-verify every signature before deriving anything from it.
	for _, slot := range slots {
		if slot.Status != model.SlotStatusSigned {
			return "", fmt.Errorf("%w: slot for signer %q is %s", coordinator.ErrFinalizationFailed, slot.SignerID, slot.Status)
		}
		message := signing.SigningMessage(requestId, request.DocumentHash, slot.SignerID)
		if !signing.VerifySignature(slot.SignerID, message, slot.SignatureValue) {
			return "", fmt.Errorf("%w: stored signature for signer %q does not verify", coordinator.ErrFinalizationFailed, slot.SignerID)
		}
	}

	objectName := fmt.Sprintf("%s/%s.pdf", requestId, SignatureSetHash(requestId, slots))

	data, err := f.builder.Build(request, slots)
	if err != nil {
		if recordErr := f.requestRepo.SetFinalizationError(requestId, err.Error()); recordErr != nil {
			slog.Error("Failed to record finalization error", "error", recordErr, "requestId", requestId)
		}
		return "", fmt.Errorf("%w: %v", coordinator.ErrFinalizationFailed, err)
	}

	artifactRef, err := f.store.UploadArtifact(ctx, objectName, data)
	if err != nil {
		if recordErr := f.requestRepo.SetFinalizationError(requestId, err.Error()); recordErr != nil {
			slog.Error("Failed to record finalization error", "error", recordErr, "requestId", requestId)
		}
		return "", fmt.Errorf("%w: %v", coordinator.ErrFinalizationFailed, err)
	}

	won, err := f.requestRepo.SetFinalArtifact(requestId, artifactRef)
	if err != nil {
		return "", err
	}
	if !won {
		// Another finalization recorded its reference first. Both built the
		// same keyed object; return whatever was stored.
		fresh, err := f.requestRepo.GetById(requestId)
		if err != nil {
			return "", err
		}
		if fresh != nil && fresh.FinalArtifactRef != "" {
			return fresh.FinalArtifactRef, nil
		}
		return artifactRef, nil
	}

	slog.Info("Final artifact generated", "requestId", requestId, "artifactRef", artifactRef)

	if f.notify != nil {
		if err := f.notify(request.InitiatorID, requestId, artifactRef); err != nil {
			slog.Error("Completion notification failed", "error", err, "requestId", requestId)
		}
	}

	return artifactRef, nil
}
