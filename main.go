package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/sunthewhat/multisign-api/api"
	documentmodel "github.com/sunthewhat/multisign-api/api/model/documentModel"
	requestmodel "github.com/sunthewhat/multisign-api/api/model/requestModel"
	slotmodel "github.com/sunthewhat/multisign-api/api/model/slotModel"
	"github.com/sunthewhat/multisign-api/api/routes"
	"github.com/sunthewhat/multisign-api/common"
	"github.com/sunthewhat/multisign-api/common/config"
	"github.com/sunthewhat/multisign-api/common/gorm"
	"github.com/sunthewhat/multisign-api/common/mongo"
	"github.com/sunthewhat/multisign-api/common/util"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
	"github.com/sunthewhat/multisign-api/internal/finalizer"
)

func main() {
	isPushDB := flag.Bool("PushDB", false, "Run database migration")
	isRunAfter := flag.Bool("Run", false, "Run after db process")
	flag.Parse()
	config.LoadConfig()
	if *isPushDB {
		gorm.Push_db()
		if !*isRunAfter {
			return
		}
	}

	gorm.InitGorm()
	mongo.InitMongo()
	util.InitDialer()

	if err := util.InitMinIO(); err != nil {
		slog.Error("Failed to initialize MinIO", "error", err)
		os.Exit(1)
	}

	requestRepo := requestmodel.NewSigningRequestRepository(common.Gorm)
	slotRepo := slotmodel.NewSignerSlotRepository(common.Gorm)
	documentRepo := documentmodel.NewDocumentRepository(common.Mongo)

	artifactSigner, err := finalizer.NewArtifactSigner()
	if err != nil {
		slog.Error("Failed to initialize artifact signer", "error", err)
		os.Exit(1)
	}

	fin := finalizer.New(
		requestRepo,
		slotRepo,
		finalizer.MinioArtifactStore{},
		finalizer.NewPDFArtifactBuilder(*common.Config.VerifyHost, artifactSigner),
		func(initiatorId string, requestId string, artifactRef string) error {
			return util.SendCompletionMail(initiatorId, requestId, util.GenerateArtifactURL(requestId))
		},
	)

	workers := 2
	if common.Config.FinalizerWorkers != nil && *common.Config.FinalizerWorkers > 0 {
		workers = *common.Config.FinalizerWorkers
	}
	fin.Start(workers)

	co := coordinator.New(requestRepo, slotRepo, fin)

	util.StartReconcileJob(co)

	api.InitFiber(&routes.Dependencies{
		Coordinator:  co,
		Finalizer:    fin,
		DocumentRepo: documentRepo,
	})
}
