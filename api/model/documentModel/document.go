package documentmodel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Workflow kinds a document can be uploaded under. The signing core never
// sees these; they are boundary metadata only.
const (
	WorkflowSingleSignature = "single-signature"
	WorkflowMultiSignature  = "multi-signature"
)

type Document struct {
	Hash         string    `bson:"hash" json:"hash"`
	FileName     string    `bson:"file_name" json:"file_name"`
	FileRef      string    `bson:"file_ref" json:"file_ref"`
	UploadedBy   string    `bson:"uploaded_by" json:"uploaded_by"`
	WorkflowKind string    `bson:"workflow_kind" json:"workflow_kind"`
	UploadedAt   time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// IDocumentRepository defines document metadata operations
type IDocumentRepository interface {
	Upsert(ctx context.Context, doc *Document) error
	GetByHash(ctx context.Context, hash string) (*Document, error)
}

// Ensure DocumentRepository implements IDocumentRepository
var _ IDocumentRepository = (*DocumentRepository)(nil)

type DocumentRepository struct {
	collection *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{collection: db.Collection("documents")}
}

// Upsert stores document metadata keyed by content hash. Re-uploading the
// same bytes refreshes the metadata instead of duplicating it.
func (r *DocumentRepository) Upsert(ctx context.Context, doc *Document) error {
	filter := bson.M{"hash": doc.Hash}
	update := bson.M{"$set": doc}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))

	if err != nil {
		slog.Error("Upsert Document Error", "error", err, "hash", doc.Hash)
		return err
	}

	return nil
}

func (r *DocumentRepository) GetByHash(ctx context.Context, hash string) (*Document, error) {
	doc := new(Document)

	err := r.collection.FindOne(ctx, bson.M{"hash": hash}).Decode(doc)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		slog.Error("Get Document By Hash Error", "error", err, "hash", hash)
		return nil, err
	}

	return doc, nil
}
