package model

import "time"

// SigningRequest statuses. A request starts pending and ends in exactly one
// of the two terminal states.
const (
	RequestStatusPending   = "pending"
	RequestStatusCompleted = "completed"
	RequestStatusRejected  = "rejected"
)

// SignerSlot statuses. A slot transitions out of pending at most once.
const (
	SlotStatusPending  = "pending"
	SlotStatusSigned   = "signed"
	SlotStatusRejected = "rejected"
)

type SigningRequest struct {
	ID           string `gorm:"primaryKey;size:36"`
	DocumentHash string `gorm:"size:64;not null;index"`
	InitiatorID  string `gorm:"not null;index"`
	Status       string `gorm:"size:16;not null;default:pending"`
	// FinalArtifactRef is written exactly once by the finalizer. Empty on a
	// completed request means finalization is still owed (the "stuck" state
	// the reconciler repairs).
	FinalArtifactRef  string `gorm:"default:''"`
	FinalizationError string `gorm:"default:''"`
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

func (SigningRequest) TableName() string {
	return "signing_request"
}

type SignerSlot struct {
	ID          string `gorm:"primaryKey;size:36"`
	RequestID   string `gorm:"size:36;not null;uniqueIndex:idx_slot_request_signer"`
	SignerID    string `gorm:"size:64;not null;uniqueIndex:idx_slot_request_signer"`
	SignerIndex int    `gorm:"not null"`
	Status      string `gorm:"size:16;not null;default:pending"`
	// SignatureValue holds the base64 signature over
	// requestId || documentHash || signerId once the slot is signed.
	SignatureValue string `gorm:"default:''"`
	SignedAt       *time.Time
	CreatedAt      time.Time
}

func (SignerSlot) TableName() string {
	return "signer_slot"
}
