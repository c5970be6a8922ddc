package coordinator

import (
	"log/slog"
	"time"

	"github.com/sunthewhat/multisign-api/type/shared/model"
)

type Progress struct {
	Completed  int     `json:"completed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type SignerProgress struct {
	SignerId string     `json:"signer_id"`
	Index    int        `json:"index"`
	Status   string     `json:"status"`
	SignedAt *time.Time `json:"signed_at,omitempty"`
}

type RequestStatus struct {
	RequestId         string           `json:"request_id"`
	DocumentHash      string           `json:"document_hash"`
	Status            string           `json:"status"`
	Progress          Progress         `json:"progress"`
	Signers           []SignerProgress `json:"signers"`
	FinalArtifactRef  string           `json:"final_artifact_ref,omitempty"`
	FinalizationError string           `json:"finalization_error,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	CompletedAt       *time.Time       `json:"completed_at,omitempty"`
}

// Status reports the request state and per-slot progress. Read-only.
func (co *Coordinator) Status(requestId string) (*RequestStatus, error) {
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

	return buildStatus(request, slots), nil
}

func buildStatus(request *model.SigningRequest, slots []*model.SignerSlot) *RequestStatus {
	status := &RequestStatus{
		RequestId:         request.ID,
		DocumentHash:      request.DocumentHash,
		Status:            request.Status,
		Signers:           make([]SignerProgress, 0, len(slots)),
		FinalArtifactRef:  request.FinalArtifactRef,
		FinalizationError: request.FinalizationError,
		CreatedAt:         request.CreatedAt,
		CompletedAt:       request.CompletedAt,
	}

	signed := 0
	for _, slot := range slots {
		if slot.Status == model.SlotStatusSigned {
			signed++
		}
		status.Signers = append(status.Signers, SignerProgress{
			SignerId: slot.SignerID,
			Index:    slot.SignerIndex,
			Status:   slot.Status,
			SignedAt: slot.SignedAt,
		})
	}

	status.Progress = Progress{
		Completed: signed,
		Total:     len(slots),
	}
	if len(slots) > 0 {
		status.Progress.Percentage = float64(signed) / float64(len(slots)) * 100
	}

	return status
}

// FixStatus recomputes completion purely from slot states, ignoring the
// cached request status, and repairs crash-between-completion-and-
// finalization scenarios. Safe to call repeatedly: once an artifact is
// present it does nothing.
func (co *Coordinator) FixStatus(requestId string) (*RequestStatus, string, error) {
	request, err := co.requestRepo.GetById(requestId)
	if err != nil {
		return nil, "", err
	}
	if request == nil {
		return nil, "", ErrNotFound
	}

	slots, err := co.slotRepo.GetByRequest(requestId)
	if err != nil {
		return nil, "", err
	}

	message := ""

	switch request.Status {
	case model.RequestStatusRejected:
		message = "request is rejected, nothing to repair"

	case model.RequestStatusCompleted:
		if request.FinalArtifactRef != "" {
			message = "request already completed with artifact, nothing to repair"
		} else {
			co.finalizer.Enqueue(requestId)
			message = "finalization re-triggered"
			slog.Info("FixStatus re-triggered finalization", "requestId", requestId)
		}

	case model.RequestStatusPending:
		signed := 0
		rejected := 0
		for _, slot := range slots {
			switch slot.Status {
			case model.SlotStatusSigned:
				signed++
			case model.SlotStatusRejected:
				rejected++
			}
		}

		switch {
		case rejected > 0:
			if _, err := co.requestRepo.MarkRejected(requestId); err != nil {
				return nil, "", err
			}
			message = "request repaired to rejected"
			slog.Info("FixStatus repaired request to rejected", "requestId", requestId)

		case len(slots) > 0 && signed == len(slots):
			won, err := co.requestRepo.MarkCompleted(requestId, time.Now())
			if err != nil {
				return nil, "", err
			}
			if won {
				co.finalizer.Enqueue(requestId)
				message = "request repaired to completed, finalization triggered"
				slog.Info("FixStatus repaired request to completed", "requestId", requestId)
			} else {
				// Someone else completed it between our read and write; that
				// caller owns the finalization trigger.
				message = "request completed concurrently, no repair needed"
			}

		default:
			message = "request is still collecting signatures, nothing to repair"
		}
	}

	request, err = co.requestRepo.GetById(requestId)
	if err != nil {
		return nil, "", err
	}
	if request == nil {
		return nil, "", ErrNotFound
	}
	slots, err = co.slotRepo.GetByRequest(requestId)
	if err != nil {
		return nil, "", err
	}

	return buildStatus(request, slots), message, nil
}

// ReconcileStale runs FixStatus over every repair candidate older than
// maxAge. The reconciler job calls this on a schedule so stuck requests heal
// without manual intervention.
func (co *Coordinator) ReconcileStale(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	candidates, err := co.requestRepo.ListRepairCandidates(cutoff)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, request := range candidates {
		if _, _, err := co.FixStatus(request.ID); err != nil {
			slog.Error("Reconcile FixStatus failed", "error", err, "requestId", request.ID)
			continue
		}
		repaired++
	}

	return repaired, nil
}
