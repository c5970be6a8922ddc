package requestmodel

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sunthewhat/multisign-api/type/shared/model"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type SigningRequestRepository struct {
	db *gorm.DB
}

func NewSigningRequestRepository(db *gorm.DB) *SigningRequestRepository {
	return &SigningRequestRepository{db: db}
}

// Create persists a request and its signer slots in one transaction. The
// request row is written last, so a visible request implies its full slot
// set is visible too.
func (r *SigningRequestRepository) Create(request *model.SigningRequest, slots []*model.SignerSlot) error {
	createErr := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(slots).Error; err != nil {
			return err
		}
		return tx.Create(request).Error
	})

	if createErr != nil {
		slog.Error("Create Signing Request Error", "error", createErr, "requestId", request.ID)
		return createErr
	}

	return nil
}

// GetById reads from the primary: the result feeds conditional-update
// decisions, which need read-your-writes. A lagging replica here could
// show a just-completed request as still pending.
func (r *SigningRequestRepository) GetById(requestId string) (*model.SigningRequest, error) {
	request := new(model.SigningRequest)
	queryErr := r.db.Clauses(dbresolver.Write).Where("id = ?", requestId).First(request).Error

	if queryErr != nil {
		if errors.Is(queryErr, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Get Signing Request By Id Error", "error", queryErr, "requestId", requestId)
		return nil, queryErr
	}

	return request, nil
}

// MarkCompleted transitions pending -> completed. The WHERE clause is the
// compare-and-swap guard: exactly one concurrent caller observes true, and
// that caller owns the finalization trigger.
func (r *SigningRequestRepository) MarkCompleted(requestId string, completedAt time.Time) (bool, error) {
	result := r.db.Model(&model.SigningRequest{}).
		Where("id = ? AND status = ?", requestId, model.RequestStatusPending).
		Updates(map[string]any{
			"status":       model.RequestStatusCompleted,
			"completed_at": completedAt,
		})

	if result.Error != nil {
		slog.Error("MarkCompleted Error", "error", result.Error, "requestId", requestId)
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// MarkRejected transitions pending -> rejected, guarded the same way as
// MarkCompleted. Terminal states never change afterwards.
func (r *SigningRequestRepository) MarkRejected(requestId string) (bool, error) {
	result := r.db.Model(&model.SigningRequest{}).
		Where("id = ? AND status = ?", requestId, model.RequestStatusPending).
		Update("status", model.RequestStatusRejected)

	if result.Error != nil {
		slog.Error("MarkRejected Error", "error", result.Error, "requestId", requestId)
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// SetFinalArtifact records the artifact reference exactly once. Retried
// finalizations lose the guard and fall back to the stored reference.
func (r *SigningRequestRepository) SetFinalArtifact(requestId string, artifactRef string) (bool, error) {
	result := r.db.Model(&model.SigningRequest{}).
		Where("id = ? AND status = ? AND final_artifact_ref = ''", requestId, model.RequestStatusCompleted).
		Updates(map[string]any{
			"final_artifact_ref": artifactRef,
			"finalization_error": "",
		})

	if result.Error != nil {
		slog.Error("SetFinalArtifact Error", "error", result.Error, "requestId", requestId)
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// SetFinalizationError records why the last finalization attempt failed.
// The request stays completed and repairable; status exposes the message.
func (r *SigningRequestRepository) SetFinalizationError(requestId string, message string) error {
	err := r.db.Model(&model.SigningRequest{}).
		Where("id = ?", requestId).
		Update("finalization_error", message).Error

	if err != nil {
		slog.Error("SetFinalizationError Error", "error", err, "requestId", requestId)
		return err
	}

	return nil
}

// ListRepairCandidates returns requests the reconciler should re-examine:
// pending requests that may have quietly reached completion, and completed
// requests still missing their artifact. This scan may read a replica; a
// stale candidate is harmless because FixStatus re-reads from the primary
// before transitioning anything.
func (r *SigningRequestRepository) ListRepairCandidates(cutoff time.Time) ([]*model.SigningRequest, error) {
	var requests []*model.SigningRequest

	queryErr := r.db.
		Where("created_at < ?", cutoff).
		Where(
			r.db.Where("status = ?", model.RequestStatusPending).
				Or("status = ? AND final_artifact_ref = ''", model.RequestStatusCompleted),
		).
		Find(&requests).Error

	if queryErr != nil {
		if errors.Is(queryErr, gorm.ErrRecordNotFound) {
			return []*model.SigningRequest{}, nil
		}
		slog.Error("ListRepairCandidates Error", "error", queryErr)
		return nil, queryErr
	}

	return requests, nil
}
