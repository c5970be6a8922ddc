package gorm

import (
	"log/slog"
	"os"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"github.com/sunthewhat/multisign-api/common"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

func InitGorm() {
	// Configure slog-gorm logger
	lg := slogGorm.New(
		slogGorm.WithHandler(slog.Default().Handler()),
		slogGorm.WithSlowThreshold(100*time.Millisecond),
	)

	// Config GORM Connector
	connector := postgres.New(
		postgres.Config{
			DSN:                  *common.Config.Postgres,
			PreferSimpleProtocol: true,
		},
	)

	// Open connection
	db, connectionErr := gorm.Open(connector, &gorm.Config{
		Logger: lg,
	})

	if connectionErr != nil {
		slog.Error("Failed to connect to database", "error", connectionErr)
		os.Exit(1)
	}

	// Optional read replica. Only the reconciler's candidate scan reads
	// it: every point read that feeds a conditional update is pinned to
	// the primary (dbresolver.Write clauses in the repositories), because
	// the state machine needs read-your-writes.
	if common.Config.PostgresReplica != nil && *common.Config.PostgresReplica != "" {
		resolverErr := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(*common.Config.PostgresReplica)},
		}))
		if resolverErr != nil {
			slog.Error("Failed to register read replica", "error", resolverErr)
			os.Exit(1)
		}
		slog.Info("Read replica registered")
	}

	slog.Info("GORM Connected!")

	common.Gorm = db
}
