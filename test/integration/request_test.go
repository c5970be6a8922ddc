package integration

import (
	"crypto/rand"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
	"gorm.io/gorm"

	requestmodel "github.com/sunthewhat/multisign-api/api/model/requestModel"
	slotmodel "github.com/sunthewhat/multisign-api/api/model/slotModel"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/internal/signing"
	"github.com/sunthewhat/multisign-api/test/helpers"
	"github.com/sunthewhat/multisign-api/type/shared/model"
)

// countingEnqueuer stands in for the finalizer queue.
type countingEnqueuer struct {
	mu    sync.Mutex
	count int
}

func (e *countingEnqueuer) Enqueue(requestId string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count++
}

func (e *countingEnqueuer) total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

func newKeypair(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return signing.SignerIDFromPublicKey(pub), priv
}

// seedRequest inserts a pending request with slots directly.
func seedRequest(t *testing.T, db *gorm.DB, signerIds []string) *model.SigningRequest {
	t.Helper()

	request := &model.SigningRequest{
		ID:           uuid.New().String(),
		DocumentHash: signing.HashDocument([]byte("seeded document")),
		InitiatorID:  "user-1",
		Status:       model.RequestStatusPending,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.Create(request).Error)

	for i, signerId := range signerIds {
		slot := &model.SignerSlot{
			ID:          uuid.New().String(),
			RequestID:   request.ID,
			SignerID:    signerId,
			SignerIndex: i,
			Status:      model.SlotStatusPending,
			CreatedAt:   request.CreatedAt,
		}
		require.NoError(t, db.Create(slot).Error)
	}

	return request
}

// TestSigningRequest_CreateAndRetrieve tests atomic creation of request and slots
func TestSigningRequest_CreateAndRetrieve(t *testing.T) {
	container := helpers.SetupTestDatabase(t)
	db := helpers.GetTestDB(t, container)

	requestRepo := requestmodel.NewSigningRequestRepository(db)
	slotRepo := slotmodel.NewSignerSlotRepository(db)

	signerA, _ := newKeypair(t)
	signerB, _ := newKeypair(t)

	now := time.Now()
	request := &model.SigningRequest{
		ID:           "req-create",
		DocumentHash: signing.HashDocument([]byte("doc")),
		InitiatorID:  "user-1",
		Status:       model.RequestStatusPending,
		CreatedAt:    now,
	}
	slots := []*model.SignerSlot{
		{ID: "slot-a", RequestID: "req-create", SignerID: signerA, SignerIndex: 0, Status: model.SlotStatusPending, CreatedAt: now},
		{ID: "slot-b", RequestID: "req-create", SignerID: signerB, SignerIndex: 1, Status: model.SlotStatusPending, CreatedAt: now},
	}

	err := requestRepo.Create(request, slots)
	require.NoError(t, err, "Failed to create signing request")

	retrieved, err := requestRepo.GetById("req-create")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, model.RequestStatusPending, retrieved.Status)
	assert.Equal(t, request.DocumentHash, retrieved.DocumentHash)

	retrievedSlots, err := slotRepo.GetByRequest("req-create")
	require.NoError(t, err)
	require.Len(t, retrievedSlots, 2)
	assert.Equal(t, signerA, retrievedSlots[0].SignerID, "slots come back in initiate order")
	assert.Equal(t, signerB, retrievedSlots[1].SignerID)
}

// TestSigningRequest_DuplicateSlotRejected tests the unique index on (request, signer)
func TestSigningRequest_DuplicateSlotRejected(t *testing.T) {
	container := helpers.SetupTestDatabase(t)
	db := helpers.GetTestDB(t, container)

	signerA, _ := newKeypair(t)
	request := seedRequest(t, db, []string{signerA})

	duplicate := &model.SignerSlot{
		ID:          uuid.New().String(),
		RequestID:   request.ID,
		SignerID:    signerA,
		SignerIndex: 1,
		Status:      model.SlotStatusPending,
		CreatedAt:   time.Now(),
	}

	err := db.Create(duplicate).Error
	assert.Error(t, err, "a second slot for the same signer must violate the unique index")
}

// TestSignerSlot_MarkSigned_ExactlyOnce tests the slot compare-and-swap under real concurrency
func TestSignerSlot_MarkSigned_ExactlyOnce(t *testing.T) {
	container := helpers.SetupTestDatabase(t)
	db := container.DB

	slotRepo := slotmodel.NewSignerSlotRepository(db)
	signerA, _ := newKeypair(t)
	request := seedRequest(t, db, []string{signerA})

	const attempts = 8
	wins := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			won, err := slotRepo.MarkSigned(request.ID, signerA, fmt.Sprintf("sig-%d", i), time.Now())
			assert.NoError(t, err)
			wins <- won
		}(i)
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent MarkSigned may win")
}

// TestSigningRequest_MarkCompleted_ExactlyOnce tests the request completion guard
func TestSigningRequest_MarkCompleted_ExactlyOnce(t *testing.T) {
	container := helpers.SetupTestDatabase(t)
	db := container.DB

	requestRepo := requestmodel.NewSigningRequestRepository(db)
	signerA, _ := newKeypair(t)
	request := seedRequest(t, db, []string{signerA})

	const attempts = 8
	wins := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := requestRepo.MarkCompleted(request.ID, time.Now())
			assert.NoError(t, err)
			wins <- won
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent MarkCompleted may win")
}

// TestSigningRequest_SetFinalArtifact_Idempotent tests the artifact reference guard
func TestSigningRequest_SetFinalArtifact_Idempotent(t *testing.T) {
	container := helpers.SetupTestDatabase(t)
	db := container.DB

	requestRepo := requestmodel.NewSigningRequestRepository(db)
	signerA, _ := newKeypair(t)
	request := seedRequest(t, db, []string{signerA})

	won, err := requestRepo.MarkCompleted(request.ID, time.Now())
	require.NoError(t, err)
	require.True(t, won)

	first, err := requestRepo.SetFinalArtifact(request.ID, "ref-first")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := requestRepo.SetFinalArtifact(request.ID, "ref-second")
	require.NoError(t, err)
	assert.False(t, second, "a recorded artifact reference never changes")

	stored, err := requestRepo.GetById(request.ID)
	require.NoError(t, err)
	assert.Equal(t, "ref-first", stored.FinalArtifactRef)
}

// TestSigningRequest_FullFlow drives initiate -> sign -> completed through
// the coordinator against the real store.
func TestSigningRequest_FullFlow(t *testing.T) {
	container := helpers.SetupTestDatabase(t)
	db := container.DB

	requestRepo := requestmodel.NewSigningRequestRepository(db)
	slotRepo := slotmodel.NewSignerSlotRepository(db)
	enqueuer := &countingEnqueuer{}
	co := coordinator.New(requestRepo, slotRepo, enqueuer)

	signerIds := make([]string, 0, 3)
	keys := make([]ed25519.PrivateKey, 0, 3)
	for i := 0; i < 3; i++ {
		signerId, priv := newKeypair(t)
		signerIds = append(signerIds, signerId)
		keys = append(keys, priv)
	}

	documentHash := signing.HashDocument([]byte("full flow document"))
	request, err := co.Initiate("user-1", documentHash, signerIds)
	require.NoError(t, err)

	// Sign out of order; completion is order-independent.
	for _, i := range []int{1, 2, 0} {
		message := signing.SigningMessage(request.ID, documentHash, signerIds[i])
		err := co.Sign(request.ID, signerIds[i], signing.Sign(keys[i], message))
		require.NoError(t, err)
	}

	status, err := co.Status(request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCompleted, status.Status)
	assert.Equal(t, 3, status.Progress.Completed)
	assert.Equal(t, 100.0, status.Progress.Percentage)
	assert.Equal(t, 1, enqueuer.total(), "completion enqueues finalization exactly once")

	// Every stored signature re-verifies.
	result, err := co.VerifyRequest(request.ID)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Repair on a healthy completed-without-artifact request just re-enqueues.
	_, message, err := co.FixStatus(request.ID)
	require.NoError(t, err)
	assert.Contains(t, message, "re-triggered")
	assert.Equal(t, 2, enqueuer.total())
}

// TestSigningRequest_RejectFlow drives a rejection through the coordinator.
func TestSigningRequest_RejectFlow(t *testing.T) {
	container := helpers.SetupTestDatabase(t)
	db := container.DB

	requestRepo := requestmodel.NewSigningRequestRepository(db)
	slotRepo := slotmodel.NewSignerSlotRepository(db)
	enqueuer := &countingEnqueuer{}
	co := coordinator.New(requestRepo, slotRepo, enqueuer)

	signerA, keyA := newKeypair(t)
	signerB, _ := newKeypair(t)

	documentHash := signing.HashDocument([]byte("reject flow document"))
	request, err := co.Initiate("user-1", documentHash, []string{signerA, signerB})
	require.NoError(t, err)

	message := signing.SigningMessage(request.ID, documentHash, signerA)
	require.NoError(t, co.Sign(request.ID, signerA, signing.Sign(keyA, message)))

	require.NoError(t, co.Reject(request.ID, signerB))

	status, err := co.Status(request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, status.Status)
	assert.Equal(t, 0, enqueuer.total(), "rejected requests are never finalized")
}

// TestSigningRequest_ListRepairCandidates tests reconciler candidate selection
func TestSigningRequest_ListRepairCandidates(t *testing.T) {
	container := helpers.SetupTestDatabase(t)
	db := container.DB

	requestRepo := requestmodel.NewSigningRequestRepository(db)
	signerA, _ := newKeypair(t)

	old := time.Now().Add(-time.Hour)

	stalePending := seedRequest(t, db, []string{signerA})
	require.NoError(t, db.Model(&model.SigningRequest{}).Where("id = ?", stalePending.ID).Update("created_at", old).Error)

	signerB, _ := newKeypair(t)
	staleCompleted := seedRequest(t, db, []string{signerB})
	require.NoError(t, db.Model(&model.SigningRequest{}).Where("id = ?", staleCompleted.ID).
		Updates(map[string]any{"created_at": old, "status": model.RequestStatusCompleted}).Error)

	signerC, _ := newKeypair(t)
	finalized := seedRequest(t, db, []string{signerC})
	require.NoError(t, db.Model(&model.SigningRequest{}).Where("id = ?", finalized.ID).
		Updates(map[string]any{
			"created_at":         old,
			"status":             model.RequestStatusCompleted,
			"final_artifact_ref": "ref-done",
		}).Error)

	signerD, _ := newKeypair(t)
	fresh := seedRequest(t, db, []string{signerD})

	candidates, err := requestRepo.ListRepairCandidates(time.Now().Add(-time.Minute))
	require.NoError(t, err)

	ids := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		ids[candidate.ID] = true
	}

	assert.True(t, ids[stalePending.ID], "stale pending request is a candidate")
	assert.True(t, ids[staleCompleted.ID], "stale completed request without artifact is a candidate")
	assert.False(t, ids[finalized.ID], "finalized request is not a candidate")
	assert.False(t, ids[fresh.ID], "fresh request is not a candidate")
}
