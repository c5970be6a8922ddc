package finalizer

import (
	"context"

	"github.com/sunthewhat/multisign-api/common"
	"github.com/sunthewhat/multisign-api/common/util"
)

// MinioArtifactStore stores final artifacts in the configured artifact
// bucket.
type MinioArtifactStore struct{}

var _ ArtifactStore = (*MinioArtifactStore)(nil)

func (MinioArtifactStore) UploadArtifact(ctx context.Context, objectName string, data []byte) (string, error) {
	return util.UploadBytes(ctx, *common.Config.BucketArtifact, objectName, data, "application/pdf")
}
