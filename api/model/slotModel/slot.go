package slotmodel

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sunthewhat/multisign-api/type/shared/model"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type SignerSlotRepository struct {
	db *gorm.DB
}

func NewSignerSlotRepository(db *gorm.DB) *SignerSlotRepository {
	return &SignerSlotRepository{db: db}
}

// GetByRequest returns every slot of a request in initiate order. Pinned
// to the primary: the completion evaluation re-reads the slot set right
// after a signature write and must see it.
func (r *SignerSlotRepository) GetByRequest(requestId string) ([]*model.SignerSlot, error) {
	var slots []*model.SignerSlot

	queryErr := r.db.Clauses(dbresolver.Write).
		Where("request_id = ?", requestId).
		Order("signer_index ASC").
		Find(&slots).Error

	if queryErr != nil {
		if errors.Is(queryErr, gorm.ErrRecordNotFound) {
			return []*model.SignerSlot{}, nil
		}
		slog.Error("GetByRequest Error", "error", queryErr, "requestId", requestId)
		return nil, queryErr
	}

	return slots, nil
}

func (r *SignerSlotRepository) GetByRequestAndSigner(requestId string, signerId string) (*model.SignerSlot, error) {
	slot := new(model.SignerSlot)

	queryErr := r.db.Clauses(dbresolver.Write).
		Where("request_id = ? AND signer_id = ?", requestId, signerId).
		First(slot).Error

	if queryErr != nil {
		if errors.Is(queryErr, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("GetByRequestAndSigner Error", "error", queryErr, "requestId", requestId, "signerId", signerId)
		return nil, queryErr
	}

	return slot, nil
}

// MarkSigned transitions a slot pending -> signed. The status guard in the
// WHERE clause makes two racing accepted signatures resolve to exactly one
// winner; the loser sees false and is reported AlreadySigned.
func (r *SignerSlotRepository) MarkSigned(requestId string, signerId string, signatureValue string, signedAt time.Time) (bool, error) {
	result := r.db.Model(&model.SignerSlot{}).
		Where("request_id = ? AND signer_id = ? AND status = ?", requestId, signerId, model.SlotStatusPending).
		Updates(map[string]any{
			"status":          model.SlotStatusSigned,
			"signature_value": signatureValue,
			"signed_at":       signedAt,
		})

	if result.Error != nil {
		slog.Error("MarkSigned Error", "error", result.Error, "requestId", requestId, "signerId", signerId)
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// MarkRejected transitions a slot pending -> rejected under the same guard.
func (r *SignerSlotRepository) MarkRejected(requestId string, signerId string) (bool, error) {
	result := r.db.Model(&model.SignerSlot{}).
		Where("request_id = ? AND signer_id = ? AND status = ?", requestId, signerId, model.SlotStatusPending).
		Update("status", model.SlotStatusRejected)

	if result.Error != nil {
		slog.Error("MarkRejected Error", "error", result.Error, "requestId", requestId, "signerId", signerId)
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
